package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/longkt99/scribe/internal/recovery"
)

var recoverUser string

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Undo, dismiss, or reset learned behavior",
}

func recoverAction(fn func(svc *recovery.Service, ctx context.Context, userID string) recovery.Result) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svcs, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer svcs.close()

		userID := recoverUser
		if userID == "" {
			userID = cfg.DefaultUser
		}

		res := fn(svcs.recovery, cmd.Context(), userID)
		fmt.Println(res.Message)
		return nil
	}
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent decision",
	RunE: recoverAction(func(svc *recovery.Service, ctx context.Context, userID string) recovery.Result {
		return svc.UndoLast(ctx, userID)
	}),
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Mark the most recent decision as unwanted and forget its pattern",
	RunE: recoverAction(func(svc *recovery.Service, ctx context.Context, userID string) recovery.Result {
		return svc.Dismiss(ctx, userID)
	}),
}

var disableLearningCmd = &cobra.Command{
	Use:   "disable-learning",
	Short: "Stop preference learning for this session",
	RunE: recoverAction(func(svc *recovery.Service, ctx context.Context, userID string) recovery.Result {
		return svc.DisableLearning(ctx, userID)
	}),
}

var enableLearningCmd = &cobra.Command{
	Use:   "enable-learning",
	Short: "Resume preference learning",
	RunE: recoverAction(func(svc *recovery.Service, ctx context.Context, userID string) recovery.Result {
		return svc.EnableLearning(ctx, userID)
	}),
}

var resetAllCmd = &cobra.Command{
	Use:   "reset-all",
	Short: "Forget all learned preferences, history and outcomes",
	RunE: recoverAction(func(svc *recovery.Service, ctx context.Context, userID string) recovery.Result {
		return svc.ResetAll(ctx, userID)
	}),
}

func init() {
	recoverCmd.PersistentFlags().StringVar(&recoverUser, "user", "", "acting user id (defaults to config default_user)")
	recoverCmd.AddCommand(undoCmd, dismissCmd, disableLearningCmd, enableLearningCmd, resetAllCmd)
	rootCmd.AddCommand(recoverCmd)
}
