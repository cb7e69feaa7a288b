package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/yulpack"
	"github.com/deepnoodle-ai/yulpack/report"
	"github.com/spf13/cobra"
)

const singleUsage = "Usage: yulpack single <file.yul>"

func (a *app) singleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "single <file.yul>",
		Short: "Compile one module with and without PUSH0",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || !strings.EqualFold(filepath.Ext(args[0]), ".yul") {
				fmt.Fprintln(a.stderr, singleUsage)
				return nil
			}
			ctx := cmd.Context()
			compiler, err := a.compiler(ctx)
			if err != nil {
				return err
			}
			res, err := yulpack.Single(ctx, args[0], yulpack.WithCompiler(compiler))
			if err != nil {
				return err
			}
			artifacts := []struct {
				name    string
				code    []byte
				withLen bool
			}{
				{"Initcode with PUSH0", res.InitcodeWithPush0, false},
				{"Initcode without PUSH0", res.InitcodeWithoutPush0, false},
				{"Runtime with PUSH0", res.RuntimeWithPush0, true},
				{"Runtime without PUSH0", res.RuntimeWithoutPush0, true},
			}
			for _, art := range artifacts {
				if err := report.Hex(a.stdout, art.name, art.code, art.withLen); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
