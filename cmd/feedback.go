package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/longkt99/scribe/internal/decision"
	"github.com/longkt99/scribe/internal/outcome"
)

var feedbackUser string

var validSignals = map[string]outcome.SignalType{
	"accepted":    outcome.SignalAccepted,
	"undo":        outcome.SignalUndo,
	"edited":      outcome.SignalEditedAfter,
	"dismissed":   outcome.SignalDismissed,
	"regenerated": outcome.SignalRegenerated,
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <event-id> <signal>",
	Short: "Record a behavioral signal for an earlier decision",
	Long:  `Attaches a signal (accepted, undo, edited, dismissed, regenerated) to an earlier decision so future routing can learn from it.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sig, ok := validSignals[args[1]]
		if !ok {
			return fmt.Errorf("unknown signal %q: must be one of accepted, undo, edited, dismissed, regenerated", args[1])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svcs, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer svcs.close()

		userID := feedbackUser
		if userID == "" {
			userID = cfg.DefaultUser
		}

		o := svcs.engine.RecordFeedback(cmd.Context(), decision.FeedbackRequest{
			EventID:    args[0],
			UserID:     userID,
			Signal:     sig,
			Governance: governanceContext(cfg, userID),
		})
		if o == nil {
			return fmt.Errorf("no decision found for event %s", args[0])
		}
		fmt.Printf("recorded %s for %s\n", sig, args[0])
		return nil
	},
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackUser, "user", "", "acting user id (defaults to config default_user)")
	rootCmd.AddCommand(feedbackCmd)
}
