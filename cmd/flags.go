package cmd

import (
	"github.com/spf13/pflag"
)

// bindFlag binds a flag to a config key. Unset flags fall through to the
// environment and defaults.
func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
