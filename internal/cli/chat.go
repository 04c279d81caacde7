package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/conversation"
	"github.com/rcliao/trip-planner/internal/model"
)

var (
	assistantColor = color.New(color.FgCyan).SprintFunc()
	noticeColor    = color.New(color.FgYellow).SprintFunc()
	dimColor       = color.New(color.Faint).SprintFunc()
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Plan a trip interactively",
		Long:  "Start (or resume with --trip) a planning conversation. Type 'new' to start over, 'exit' to quit.",
		Run:   runChat,
	}

	cmd.Flags().StringP("trip", "t", "", "Resume an existing trip")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	tripID, _ := cmd.Flags().GetString("trip")

	a := newApp()
	defer a.Close()
	ctx := cmd.Context()

	if tripID == "" {
		tripID = startTrip(ctx, a.svc)
	} else {
		sess, err := a.svc.Session(ctx, tripID)
		if err != nil {
			exitErr("resume", err)
		}
		fmt.Println(dimColor(fmt.Sprintf("resumed %s (%s)", tripID, sess.Phase)))
	}

	historyFile := filepath.Join(config.DefaultDir(), "chat_history")
	os.MkdirAll(filepath.Dir(historyFile), 0o755)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		UniqueEditLine:    true,
		Stdin:             readline.NewCancelableStdin(os.Stdin),
		Stdout:            os.Stdout,
		Stderr:            os.Stderr,
	})
	if err != nil {
		exitErr("readline", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			exitErr("read input", err)
		}

		text := strings.TrimSpace(line)
		switch strings.ToLower(text) {
		case "":
			continue
		case "exit", "quit":
			return
		case "new":
			a.svc.Forget(tripID)
			tripID = startTrip(ctx, a.svc)
			continue
		}

		resp, err := a.svc.Turn(ctx, tripID, text)
		if err != nil {
			fmt.Fprintln(os.Stderr, noticeColor("error: "+err.Error()))
			continue
		}
		printReply(resp)
	}
}

func startTrip(ctx context.Context, svc *conversation.Service) string {
	resp, err := svc.Start(ctx)
	if err != nil {
		exitErr("start trip", err)
	}
	fmt.Println(dimColor("trip " + resp.TripID))
	printReply(resp)
	return resp.TripID
}

func printReply(resp conversation.Response) {
	fmt.Println(assistantColor(resp.Message))
	if resp.Phase == model.PhaseItinerary && resp.Feasibility != nil && !resp.Feasibility.Feasible {
		fmt.Println(noticeColor("(itinerary does not satisfy every constraint)"))
	}
	fmt.Println()
}
