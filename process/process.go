// Package process runs external tools such as solc, forge and cast.
package process

import (
	"bufio"
	"bytes"
	"context"
	goerrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/deepnoodle-ai/yulpack/errors"
	"github.com/rs/zerolog/log"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Exec runs commands on the host with os/exec.
type Exec struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Run executes name with args. Standard error is logged line by line. A
// non-zero exit status yields an *errors.ExternalProcessError carrying the
// captured standard error.
func (e Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	log.Debug().Str("command", name).Strs("args", args).Msg("running")
	err := cmd.Run()
	dt := time.Since(start)

	scanner := bufio.NewScanner(bytes.NewReader(stderr.Bytes()))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Warn().Str("command", name).Msg(line)
		}
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if goerrors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &errors.ExternalProcessError{
			Command:  name,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	log.Debug().Str("command", name).Dur("duration", dt).Int("stdout_bytes", stdout.Len()).Msg("finished")
	return stdout.String(), nil
}

// Func adapts a function to the Runner interface.
type Func func(ctx context.Context, name string, args ...string) (string, error)

// Run calls f.
func (f Func) Run(ctx context.Context, name string, args ...string) (string, error) {
	return f(ctx, name, args...)
}
