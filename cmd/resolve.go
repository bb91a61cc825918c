package cmd

import (
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/TebanMT/POC-SENTRY/internal/broker"
	"github.com/TebanMT/POC-SENTRY/internal/config"
	"github.com/TebanMT/POC-SENTRY/internal/core"
	"github.com/TebanMT/POC-SENTRY/internal/store"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <backend-kind> [principal]",
	Short: "Resolve the downstream credential for a principal",
	Long: `Resolves the credential a wrapped handler would receive for the given
backend kind (rest, soap, checks, search, reporting, file-storage). The
principal may be omitted for environment-backed kinds.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := core.ParseBackendKind(args[0])
		if kind == core.BackendUnknown {
			return fmt.Errorf("unknown backend kind %q", args[0])
		}
		principal := core.Anonymous
		if len(args) > 1 {
			principal = core.Principal(args[1])
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading AWS config: %w", err)
		}
		credStore := store.NewDynamo(dynamodb.NewFromConfig(awsCfg), cfg.SessionTable)

		credential, err := broker.New(credStore, cfg).Resolve(cmd.Context(), kind, principal)
		if err != nil {
			return err
		}

		renderCredential(credential)
		logSuccess("resolved %s credential", bold(kind.String()))
		return nil
	},
}

func renderCredential(credential core.Credential) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Field", "Value"})

	switch c := credential.(type) {
	case core.BearerCredential:
		tw.AppendRow(table.Row{"Token", truncate(c.Token, 40)})
	case core.SOAPSession:
		tw.AppendRows([]table.Row{
			{"IdUser", c.UserID},
			{"SessionGuid", c.SessionGUID},
			{"Culture", c.Culture},
			{"IP", c.IP},
			{"DateOfCreation", c.DateOfCreation},
			{"LastChange", c.LastChange},
		})
	case core.ChecksCredential:
		tw.AppendRows([]table.Row{
			{"Token", truncate(c.Token, 40)},
			{"IdUser", c.UserID},
			{"SessionGuid", c.SessionGUID},
			{"Username", c.Username},
			{"PCName", c.PCName},
			{"PCIdentifier", c.PCIdentifier},
			{"PCSerial", c.PCSerial},
		})
	case core.ServiceCredential:
		tw.AppendRows([]table.Row{
			{"User", c.User},
			{"Password", "********"},
		})
	}
	tw.Render()
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
