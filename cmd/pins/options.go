package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pinslang/pins"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// source is the program text selected by the global flags or the first
// positional argument.
type source struct {
	code     string
	filename string
	args     []string
}

// getSource reads the program from --code, --stdin or a file argument.
// Positional arguments that follow the program are returned in args.
func getSource(cmd *cobra.Command, args []string) (*source, error) {
	codeFlag := viper.GetString("code")
	stdinFlag := viper.GetBool("stdin")

	var count int
	if codeFlag != "" {
		count++
	}
	if stdinFlag {
		count++
	}
	if count > 1 {
		return nil, errors.New("multiple input sources specified")
	}

	switch {
	case codeFlag != "":
		return &source{code: codeFlag, filename: "<code>", args: args}, nil
	case stdinFlag:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return &source{code: string(data), filename: "<stdin>", args: args}, nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		return &source{code: string(data), filename: args[0], args: args[1:]}, nil
	default:
		return nil, errors.New("no input provided")
	}
}

// bindFlags binds the local flags of the command being executed to viper
// keys, so they can also be set from the config file or PINS_* variables.
// Binding at execution time keeps commands that share a flag name apart.
func bindFlags(cmd *cobra.Command, args []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// compileOptions returns the compile options shared by every subcommand.
func compileOptions(src *source) []pins.Option {
	return []pins.Option{
		pins.WithFilename(src.filename),
		pins.WithBoundsChecks(!viper.GetBool("no-bounds-checks")),
	}
}

// parseArgs converts command line arguments to entry arguments. Integers
// and logicals are recognized, everything else is passed as a string.
func parseArgs(args []string) []any {
	values := make([]any, 0, len(args))
	for _, arg := range args {
		if i, err := strconv.Atoi(arg); err == nil {
			values = append(values, i)
		} else if b, err := strconv.ParseBool(arg); err == nil {
			values = append(values, b)
		} else {
			values = append(values, arg)
		}
	}
	return values
}

// newLogger writes human readable log lines to w at the configured level.
func newLogger(w io.Writer, trace bool) (zerolog.Logger, error) {
	level := zerolog.TraceLevel
	if !trace {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
		}
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
