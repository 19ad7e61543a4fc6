package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// v holds configuration shared by all commands. Flags bound here take
// precedence over environment variables.
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "userapi",
	Short: "HTTP service for the users resource",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db-driver", "", "database driver: sqlite, postgres or memory (env DATABASE_DRIVER)")
	flags.String("db-dsn", "", "database DSN (env DATABASE_DSN)")

	bindFlag("DATABASE_DRIVER", flags.Lookup("db-driver"))
	bindFlag("DATABASE_DSN", flags.Lookup("db-dsn"))
}
