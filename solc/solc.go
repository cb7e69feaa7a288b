// Package solc finds and invokes the Solidity compiler in strict assembly
// mode.
package solc

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/process"
	"github.com/rs/zerolog/log"
)

// Compiler compiles Yul sources with a resolved solc binary.
type Compiler struct {
	Path   string
	Runner process.Runner
}

// New returns a Compiler for the solc binary at path.
func New(path string, runner process.Runner) *Compiler {
	if runner == nil {
		runner = process.Exec{}
	}
	return &Compiler{Path: path, Runner: runner}
}

// Args returns the solc arguments used to compile path for evmVersion.
func Args(path, evmVersion string) []string {
	return []string{
		path,
		"--bin",
		"--optimize-runs=1",
		"--strict-assembly",
		"--evm-version=" + evmVersion,
	}
}

// Compile compiles the Yul source at path and returns the bytecode as hex.
// solc prints the binary representation last, so the last hex run of its
// output is taken.
func (c *Compiler) Compile(ctx context.Context, path, evmVersion string) (string, error) {
	out, err := c.Runner.Run(ctx, c.Path, Args(path, evmVersion)...)
	if err != nil {
		return "", fmt.Errorf("compile %s: %w", path, err)
	}
	bin := hexutil.LastRun(out)
	if bin == "" {
		return "", fmt.Errorf("compile %s: no bytecode in compiler output", path)
	}
	log.Debug().Str("source", path).Str("evm", evmVersion).Int("bytes", hexutil.Len(bin)).Msg("compiled")
	return bin, nil
}
