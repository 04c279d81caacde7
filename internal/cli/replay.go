package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/trip-planner/internal/conversation"
)

func init() {
	cmd := &cobra.Command{
		Use:   "replay [FILE]",
		Short: "Replay scripted conversations from JSONL",
		Long: "Each line is {\"trip\": LABEL, \"text\": MESSAGE}. Lines sharing a label form one " +
			"conversation and run in order; different conversations run concurrently. " +
			"Prints one JSON response per line, grouped by conversation.",
		Args: cobra.MaximumNArgs(1),
		Run:  runReplay,
	}

	cmd.Flags().IntP("parallel", "p", 4, "Conversations to run at once")

	RootCmd.AddCommand(cmd)
}

type replayLine struct {
	Trip string `json:"trip"`
	Text string `json:"text"`
}

type replayResult struct {
	Label    string                `json:"label"`
	Response conversation.Response `json:"response"`
}

func runReplay(cmd *cobra.Command, args []string) {
	parallel, _ := cmd.Flags().GetInt("parallel")

	data, err := readInput(args)
	if err != nil {
		exitErr("read input", err)
	}
	labels, scripts, err := parseReplay(string(data))
	if err != nil {
		exitErr("parse replay", err)
	}

	a := newApp()
	defer a.Close()

	results := make([][]replayResult, len(labels))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(parallel, 1))
	for i, label := range labels {
		g.Go(func() error {
			start, err := a.svc.Start(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			out := []replayResult{{Label: label, Response: start}}
			for _, text := range scripts[label] {
				resp, err := a.svc.Turn(ctx, start.TripID, text)
				if err != nil {
					return fmt.Errorf("%s: %w", label, err)
				}
				out = append(out, replayResult{Label: label, Response: resp})
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		exitErr("replay", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, rs := range results {
		for _, r := range rs {
			enc.Encode(r)
		}
	}
}

// parseReplay groups lines by label, keeping labels in first-seen order.
func parseReplay(data string) ([]string, map[string][]string, error) {
	var labels []string
	scripts := map[string][]string{}
	sc := bufio.NewScanner(strings.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var l replayLine
		if err := json.Unmarshal([]byte(line), &l); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", n, err)
		}
		if l.Trip == "" {
			l.Trip = "default"
		}
		if _, ok := scripts[l.Trip]; !ok {
			labels = append(labels, l.Trip)
		}
		scripts[l.Trip] = append(scripts[l.Trip], l.Text)
	}
	return labels, scripts, sc.Err()
}
