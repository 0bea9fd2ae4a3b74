package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/pinslang/pins"
	pinstest "github.com/pinslang/pins/testing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [patterns...]",
		Short: "Run test functions in *_test.pins files",
		Long: `Run test functions in *_test.pins files.

Every top-level function whose name starts with "test", takes no parameters
and returns logical is a test. A test passes when it returns true.

Patterns may be files, directories, globs, or directories ending in "..."
to search recursively.`,
		Example: `  pins test
  pins test ./examples/...
  pins test --run Static -v examples`,
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &pinstest.Config{
				Patterns:   args,
				RunPattern: viper.GetString("run"),
				Options: []pins.Option{
					pins.WithBoundsChecks(!viper.GetBool("no-bounds-checks")),
				},
			}
			if maxDepth := viper.GetInt("max-depth"); maxDepth > 0 {
				cfg.Options = append(cfg.Options, pins.WithMaxDepth(maxDepth))
			}
			summary, err := pinstest.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			output := pinstest.NewOutput(pinstest.OutputConfig{
				Writer:   cmd.OutOrStdout(),
				Verbose:  viper.GetBool("verbose"),
				UseColor: !color.NoColor,
			})
			output.PrintResults(summary)
			if !summary.Success() {
				return errors.New("tests failed")
			}
			return nil
		},
	}
	cmd.Flags().String("run", "", "Run only tests matching this regular expression")
	cmd.Flags().BoolP("verbose", "v", false, "Show output of passing tests")
	cmd.Flags().Int("max-depth", 0, "Maximum call depth (0 for the default)")
	return cmd
}
