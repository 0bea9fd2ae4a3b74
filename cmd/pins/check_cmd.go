package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/parser"
	"github.com/pinslang/pins/semantic"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse and type check programs without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sources []*source
			if len(args) == 0 {
				src, err := getSource(cmd, args)
				if err != nil {
					return err
				}
				sources = append(sources, src)
			}
			for _, name := range args {
				data, err := os.ReadFile(name)
				if err != nil {
					return err
				}
				sources = append(sources, &source{code: string(data), filename: name})
			}

			var result *multierror.Error
			for _, src := range sources {
				if err := check(cmd, src); err != nil {
					result = multierror.Append(result, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", src.filename)
			}
			if err := result.ErrorOrNil(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errors.FriendlyErrorMessage(err, !color.NoColor))
				return fmt.Errorf("%d error(s) found", len(result.Errors))
			}
			return nil
		},
	}
}

func check(cmd *cobra.Command, src *source) error {
	tree, err := parser.Parse(cmd.Context(), src.code, parser.WithFilename(src.filename))
	if err != nil {
		return err
	}
	_, err = semantic.Check(tree, semantic.WithSource(src.code))
	return err
}
