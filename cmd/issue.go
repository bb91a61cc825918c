package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/identity"
)

var (
	issueUsername  string
	issuePassword  string
	issueClientID  string
	issueGrantType string
	issueScope     string
	issueKeep      bool
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a session token via a credential grant",
	Long: `Performs a credential grant against the identity provider's token endpoint
and prints the resulting access token. Unless --keep is given, the session is
invalidated again before the command exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		session := identity.NewSession(identity.NewClient(cfg))
		if err := session.IssueToken(cmd.Context(), identity.Credentials{
			Username:  issueUsername,
			Password:  issuePassword,
			ClientID:  issueClientID,
			GrantType: issueGrantType,
			Scope:     issueScope,
		}); err != nil {
			return err
		}
		if !issueKeep {
			defer session.Close()
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stderr)
		tw.AppendRow(table.Row{"Subject", session.Subject})
		if !session.ExpiresAt.IsZero() {
			tw.AppendRow(table.Row{"Expires", session.ExpiresAt.Format(time.RFC3339)})
		}
		tw.AppendRow(table.Row{"Token", truncate(session.Token(), 40)})
		tw.Render()

		logSuccess("session issued for %s", bold(issueUsername))

		// full token on stdout for piping
		fmt.Println(session.Token())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)

	issueCmd.Flags().StringVarP(&issueUsername, "username", "u", "", "Username for the credential grant")
	issueCmd.Flags().StringVarP(&issuePassword, "password", "p", "", "Password for the credential grant")
	issueCmd.Flags().StringVar(&issueClientID, "client", "", "OAuth client id (default fileStorage)")
	issueCmd.Flags().StringVar(&issueGrantType, "grant-type", "", "Grant type (default password)")
	issueCmd.Flags().StringVar(&issueScope, "scope", "", "Scope (default openid)")
	issueCmd.Flags().BoolVar(&issueKeep, "keep", false, "Keep the session alive instead of invalidating it on exit")

	_ = issueCmd.MarkFlagRequired("username")
	_ = issueCmd.MarkFlagRequired("password")
}
