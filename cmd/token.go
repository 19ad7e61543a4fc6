package cmd

import (
	"fmt"

	"userapi/internal/config"
	"userapi/internal/services"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the write routes",
	Long: `Issue a bearer token signed with JWT_SECRET. Usage:

	JWT_SECRET=... userapi token --subject deploy-bot
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		subject, err := cmd.Flags().GetString("subject")
		if err != nil {
			return err
		}
		if subject == "" {
			return fmt.Errorf("--subject must not be empty")
		}

		token, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL).IssueToken(subject)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("subject", "operator", "token subject")
}
