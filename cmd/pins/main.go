package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var cfgFile string

func main() {
	cobra.OnInitialize(initConfig)
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pins",
		Short:         "Compile and interpret PINS programs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			processGlobalFlags()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pins.yaml)")
	flags.StringP("code", "c", "", "Code to compile")
	flags.Bool("stdin", false, "Read code from stdin")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.StringP("output", "o", "text", "Output format (text, json)")
	flags.Bool("no-bounds-checks", false, "Disable array bounds checks")
	for _, name := range []string{"code", "stdin", "no-color", "log-level", "output", "no-bounds-checks"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
	root.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newRunCmd(),
		newIRCmd(),
		newFramesCmd(),
		newCheckCmd(),
		newTestCmd(),
		newVersionCmd(),
	)
	return root
}

// initConfig reads in the config file and PINS_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".pins")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("pins")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fatal(fmt.Errorf("reading config: %w", err))
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]any{
				"version": version,
				"commit":  commit,
				"date":    date,
			}
			if strings.ToLower(viper.GetString("output")) == "json" {
				output, err := formatJSON(info)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pins %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
}
