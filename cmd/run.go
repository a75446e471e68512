package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/longkt99/scribe/internal/decision"
	"github.com/longkt99/scribe/internal/intent"
	"github.com/longkt99/scribe/internal/llm"
)

var (
	runUser       string
	runSourceFile string
	runYes        bool
)

var runCmd = &cobra.Command{
	Use:   "run <instruction>",
	Short: "Decide and execute an instruction",
	Long: `Runs the decision pipeline and, if the instruction clears the gate and
the confirmation step, sends it to the configured model. Pass --source to
transform an existing text instead of creating new content.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg)
		if err != nil {
			return err
		}

		svcs, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer svcs.close()

		text := strings.Join(args, " ")
		userID := runUser
		if userID == "" {
			userID = cfg.DefaultUser
		}

		var source string
		if runSourceFile != "" {
			data, err := os.ReadFile(runSourceFile)
			if err != nil {
				return fmt.Errorf("reading source file: %w", err)
			}
			source = string(data)
		}

		d := svcs.engine.Decide(cmd.Context(), decision.Request{
			Text:            text,
			UserID:          userID,
			HasActiveSource: source != "",
			Governance:      governanceContext(cfg, userID),
		})
		if d.Declined != nil {
			return fmt.Errorf("request declined: %s (%s)", d.Declined.Reason, d.Declined.Detail)
		}

		fmt.Fprintf(os.Stderr, "route %s, confidence %.2f (%s)\n", d.Route, d.Confidence, d.Reason)

		if d.RequiresConfirmation && !runYes {
			if !confirm(os.Stdin, os.Stderr, d.ConfirmationReason) {
				fmt.Fprintln(os.Stderr, "cancelled")
				return nil
			}
		}

		exec := llm.NewExecutor(provider)
		resp, err := exec.Execute(cmd.Context(), llm.ExecuteRequest{
			EventID:     d.EventID,
			Token:       d.Token,
			Binding:     d.Binding,
			Instruction: text,
			Source:      source,
			Transform:   d.Route == intent.RouteTransform,
			Model:       cfg.Model,
		})
		if err != nil {
			return fmt.Errorf("executing: %w", err)
		}

		svcs.engine.RecordExecution(cmd.Context(), decision.ExecutionResult{
			EventID:     d.EventID,
			UserID:      userID,
			Model:       resp.Model,
			OutputChars: len(resp.Content),
		})

		fmt.Println(resp.Content)
		return nil
	},
}

// confirm prompts for a y/n answer on the given reader.
func confirm(in io.Reader, out io.Writer, reason string) bool {
	fmt.Fprintf(out, "confirmation needed (%s). Proceed? [y/N] ", reason)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	runCmd.Flags().StringVar(&runUser, "user", "", "acting user id (defaults to config default_user)")
	runCmd.Flags().StringVar(&runSourceFile, "source", "", "file containing the source text to transform")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(runCmd)
}
