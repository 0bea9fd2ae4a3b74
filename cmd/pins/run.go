package main

import (
	"fmt"

	"github.com/pinslang/pins"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file] [args...]",
		Short: "Compile and run a program",
		Long: `Compile and run a program, printing the result of its entry function.

Arguments after the file are passed to the entry function. Integers and
logicals (true, false) are recognized, anything else is passed as a string.`,
		Example: `  pins run fact.pins
  pins run --entry fact fact.pins 6
  pins run -c "fun main() : integer = 6 * 7"`,
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), viper.GetBool("trace"))
			if err != nil {
				return err
			}
			prog, err := pins.Compile(src.code, compileOptions(src)...)
			if err != nil {
				return err
			}
			logger.Debug().
				Str("file", src.filename).
				Strs("functions", prog.FunctionNames()).
				Msg("compiled")

			opts := []pins.Option{
				pins.WithEntry(viper.GetString("entry")),
				pins.WithArgs(parseArgs(src.args)...),
				pins.WithStdin(cmd.InOrStdin()),
				pins.WithStdout(cmd.OutOrStdout()),
				pins.WithLogger(logger),
			}
			if maxDepth := viper.GetInt("max-depth"); maxDepth > 0 {
				opts = append(opts, pins.WithMaxDepth(maxDepth))
			}
			if stackOrigin := viper.GetInt("stack-origin"); stackOrigin > 0 {
				opts = append(opts, pins.WithStackOrigin(stackOrigin))
			}
			result, err := pins.Run(cmd.Context(), prog, opts...)
			if err != nil {
				return err
			}
			output, err := formatOutput(result)
			if err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}
			return nil
		},
	}
	cmd.Flags().String("entry", pins.DefaultEntry, "Entry function")
	cmd.Flags().Int("max-depth", 0, "Maximum call depth (0 for the default)")
	cmd.Flags().Int("stack-origin", 0, "Initial stack pointer (0 for the default)")
	cmd.Flags().Bool("trace", false, "Log every call, return and store")
	return cmd
}
