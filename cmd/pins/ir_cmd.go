package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pinslang/pins"
	"github.com/pinslang/pins/dis"
	"github.com/pinslang/pins/ir"
	"github.com/spf13/cobra"
)

func newIRCmd() *cobra.Command {
	var (
		linear   bool
		function string
	)
	cmd := &cobra.Command{
		Use:   "ir [file]",
		Short: "Print the intermediate representation of a program",
		Long: `Print the intermediate representation of a program.

By default the generated tree of every chunk is printed. With --linear the
canonical statement lists are shown as instruction tables.`,
		Example: `  pins ir fact.pins
  pins ir --linear --func fact fact.pins`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			prog, err := pins.Compile(src.code, compileOptions(src)...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if function == "" {
				if linear {
					return dis.Program(prog.Code(), out)
				}
				return ir.FprintProgram(out, prog.Code(), false)
			}
			chunk, ok := prog.Code().Function(function)
			if !ok {
				return fmt.Errorf("function %q not found", function)
			}
			fmt.Fprintln(out, color.New(color.Bold).Sprint(chunk.Frame))
			if !linear {
				return ir.Fprint(out, chunk.Body)
			}
			instructions, err := dis.Disassemble(chunk)
			if err != nil {
				return err
			}
			dis.Print(instructions, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&linear, "linear", false, "Print canonical linear code")
	cmd.Flags().StringVar(&function, "func", "", "Only print this function")
	return cmd
}

func newFramesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frames [file]",
		Short: "Print the frame layout of every function",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			prog, err := pins.Compile(src.code, compileOptions(src)...)
			if err != nil {
				return err
			}
			dis.Frames(prog.Layout(), cmd.OutOrStdout())
			return nil
		},
	}
}
