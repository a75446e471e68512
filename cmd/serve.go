package cmd

import (
	"github.com/spf13/cobra"

	"github.com/longkt99/scribe/internal/server"
)

var serveAllowAll bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scribe decision server",
	Long:  `Starts the HTTP server exposing the decision, feedback, recovery, preference, outcome and audit endpoints.`,
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

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: serveAllowAll}, server.Deps{
			Engine:      svcs.engine,
			Recovery:    svcs.recovery,
			Outcomes:    svcs.outcomes,
			Preferences: svcs.prefs,
			Audit:       svcs.audit,
		})
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
