package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/identity"
)

var (
	logoutToken    string
	logoutRefresh  string
	logoutClientID string
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate a session at the identity provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		client := identity.NewClient(cfg)
		if err := client.Logout(cmd.Context(), logoutToken, logoutRefresh, logoutClientID, ""); err != nil {
			return fmt.Errorf("invalidating session: %w", err)
		}

		logSuccess("session invalidated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)

	logoutCmd.Flags().StringVar(&logoutToken, "token", "", "Access token of the session")
	logoutCmd.Flags().StringVar(&logoutRefresh, "refresh-token", "", "Refresh token of the session")
	logoutCmd.Flags().StringVar(&logoutClientID, "client", "", "OAuth client id (default fileStorage)")

	_ = logoutCmd.MarkFlagRequired("refresh-token")
}
