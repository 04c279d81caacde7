package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/trip-planner/internal/conversation"
)

func init() {
	cmd := &cobra.Command{
		Use:   "turn [TEXT]",
		Short: "Send one message to a trip (starts a new trip without --trip)",
		Long:  "Runs a single conversation turn. Text comes from the arguments, or stdin when none are given.",
		Run:   runTurn,
	}

	cmd.Flags().StringP("trip", "t", "", "Trip id to continue")

	RootCmd.AddCommand(cmd)
}

func runTurn(cmd *cobra.Command, args []string) {
	tripID, _ := cmd.Flags().GetString("trip")

	text := strings.Join(args, " ")
	if text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		text = string(b)
	}
	text = strings.TrimSpace(text)
	if text == "" && tripID != "" {
		exitErr("turn", fmt.Errorf("message text is required"))
	}

	a := newApp()
	defer a.Close()
	ctx := cmd.Context()

	if tripID == "" {
		resp, err := a.svc.Start(ctx)
		if err != nil {
			exitErr("start trip", err)
		}
		tripID = resp.TripID
		if text == "" {
			outputResponse(resp)
			return
		}
	}

	resp, err := a.svc.Turn(ctx, tripID, text)
	if err != nil {
		exitErr("turn", err)
	}
	outputResponse(resp)
}

func outputResponse(resp conversation.Response) {
	if textOutput() {
		fmt.Println(resp.Message)
		return
	}
	printJSON(resp)
}
