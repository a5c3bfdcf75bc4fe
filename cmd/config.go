package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultTimeoutSeconds = 10
	defaultMaxRedirects   = 5
	defaultConcurrency    = 1
	defaultRateLimit      = 1
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Scan ScanRuntimeConfig
}

// ScanRuntimeConfig consolidates flag-driven settings for scan commands.
type ScanRuntimeConfig struct {
	Concurrency     int
	RateLimit       int
	TimeoutSecs     int
	MaxRedirects    int
	UserAgent       string
	ProgressEnabled bool
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Scan: ScanRuntimeConfig{
			Concurrency:     defaultConcurrency,
			RateLimit:       defaultRateLimit,
			TimeoutSecs:     defaultTimeoutSeconds,
			MaxRedirects:    defaultMaxRedirects,
			ProgressEnabled: false,
		},
	}
}

// applyConfigDefaults merges config file defaults into the runtime config when
// the user did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	if viper.IsSet("defaults.timeout_secs") {
		applyIntDefault(scanCmd.PersistentFlags(), "timeout", viper.GetInt("defaults.timeout_secs"), func(v int) {
			cliConfig.Scan.TimeoutSecs = v
		})
	}

	if viper.IsSet("defaults.max_redirects") {
		applyIntDefault(scanCmd.PersistentFlags(), "max-redirects", viper.GetInt("defaults.max_redirects"), func(v int) {
			cliConfig.Scan.MaxRedirects = v
		})
	}

	if viper.IsSet("defaults.user_agent") {
		// Flag is bound to cliConfig with StringVar, so setting the flag
		// value updates the runtime config too.
		setStringFlagIfUnset(scanCmd.PersistentFlags(), "user-agent", viper.GetString("defaults.user_agent"))
	}

	if viper.IsSet("defaults.progress") {
		applyBoolDefault(scanCmd.PersistentFlags(), "progress", viper.GetBool("defaults.progress"), func(v bool) {
			cliConfig.Scan.ProgressEnabled = v
		})
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}
