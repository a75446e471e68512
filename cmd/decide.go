package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/longkt99/scribe/internal/decision"
)

var (
	decideUser      string
	decideHasSource bool
	decideJSON      bool
)

var decideCmd = &cobra.Command{
	Use:   "decide <instruction>",
	Short: "Classify an instruction without executing it",
	Long: `Runs the decision pipeline for the given instruction and prints the
routing verdict: route, confidence, continuity mode and whether the
confirmation step would show. Nothing is sent to the model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svcs, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer svcs.close()

		userID := decideUser
		if userID == "" {
			userID = cfg.DefaultUser
		}

		d := svcs.engine.Decide(cmd.Context(), decision.Request{
			Text:            strings.Join(args, " "),
			UserID:          userID,
			HasActiveSource: decideHasSource,
			Governance:      governanceContext(cfg, userID),
		})

		if decideJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}

		if d.Declined != nil {
			fmt.Printf("declined: %s (%s)\n", d.Declined.Reason, d.Declined.Detail)
			return nil
		}
		fmt.Printf("event:      %s\n", d.EventID)
		fmt.Printf("route:      %s (confidence %.2f, %s)\n", d.Route, d.Confidence, d.Reason)
		fmt.Printf("mode:       %s (%.2f)\n", d.Continuity.Mode, d.Continuity.ModeConfidence)
		fmt.Printf("stability:  %s\n", d.Band)
		if d.RequiresConfirmation {
			fmt.Printf("confirm:    yes (%s)\n", d.ConfirmationReason)
		} else {
			fmt.Printf("confirm:    no (%s)\n", d.ConfirmationReason)
		}
		if d.Bias.DefaultChoice != "" {
			fmt.Printf("bias:       %s (strength %.2f)\n", d.Bias.DefaultChoice, d.Bias.Strength)
		}
		return nil
	},
}

func init() {
	decideCmd.Flags().StringVar(&decideUser, "user", "", "acting user id (defaults to config default_user)")
	decideCmd.Flags().BoolVar(&decideHasSource, "source", false, "an active source text is selected")
	decideCmd.Flags().BoolVar(&decideJSON, "json", false, "print the full decision as JSON")
	rootCmd.AddCommand(decideCmd)
}
