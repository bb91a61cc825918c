package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/identity"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami <token>",
	Short: "Validate a bearer token and print its principal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		client := identity.NewClient(cfg)
		principal, ok := client.Validate(cmd.Context(), args[0])
		if !ok {
			log.Error().Msgf("%s session is not valid", redCross)
			return fmt.Errorf("invalid session")
		}

		logSuccess("valid session for principal %s", bold(string(principal)))
		fmt.Println(string(principal))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
