package main

import (
	"fmt"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/initcode"
	"github.com/spf13/cobra"
)

func (a *app) wrapCmd() *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "wrap [file]",
		Short: "Print initcode that deploys a runtime as is",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime, err := readCode(code, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			wrapped, err := initcode.Wrap(runtime)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, hexutil.Encode(wrapped))
			return err
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "runtime as hex")
	return cmd
}
