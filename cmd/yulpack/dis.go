package main

import (
	"github.com/deepnoodle-ai/yulpack/dis"
	"github.com/deepnoodle-ai/yulpack/section"
	"github.com/spf13/cobra"
)

func (a *app) disCmd() *cobra.Command {
	var (
		code  string
		shift int
	)
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble bytecode from a hex file, stdin (-) or --code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bytecode, err := readCode(code, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			length := 0
			if shift != 0 {
				if err := section.ValidShift(shift); err != nil {
					return err
				}
				length = 1 << shift
			}
			return dis.Print(dis.Disassemble(bytecode), a.stdout, length)
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "bytecode as hex")
	cmd.Flags().IntVar(&shift, "section-shift", 0, "mark section starts for sections of 1<<shift bytes")
	return cmd
}
