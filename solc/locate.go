package solc

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/deepnoodle-ai/yulpack/errors"
	"github.com/deepnoodle-ai/yulpack/process"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
)

// DefaultMinVersion is the oldest solc release accepted by Locator.
const DefaultMinVersion = "0.8.28"

var digits = regexp.MustCompile(`\d+`)

// Locator finds a solc binary installed by svm (directly or through forge).
// The result of Resolve is meant to be computed once per run and passed to
// New.
type Locator struct {
	Runner      process.Runner
	MinVersion  string
	Home        string
	XDGDataHome string
	LookPath    func(file string) (string, error)
}

// Resolve returns the path of the newest installed solc that satisfies
// MinVersion. When none is installed it asks forge to install MinVersion
// and searches again, then falls back to solc on PATH.
func (l *Locator) Resolve(ctx context.Context) (string, error) {
	minVersion := l.MinVersion
	if minVersion == "" {
		minVersion = DefaultMinVersion
	}
	dirs := l.svmDirs()
	if p := findInstalled(dirs, minVersion); p != "" {
		return p, nil
	}

	runner := l.Runner
	if runner == nil {
		runner = process.Exec{}
	}
	if _, err := runner.Run(ctx, "forge", "build", "--use="+minVersion); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// Not fatal: solc may still be found on PATH.
		log.Warn().Err(err).Msg("forge could not install solc")
	}
	if p := findInstalled(dirs, minVersion); p != "" {
		return p, nil
	}

	lookPath := l.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if p, err := lookPath("solc"); err == nil {
		log.Debug().Str("path", p).Msg("using solc from PATH")
		return p, nil
	}
	return "", &errors.CompilerNotFoundError{
		MinVersion: minVersion,
		Searched:   append(dirs, "PATH"),
	}
}

func (l *Locator) svmDirs() []string {
	home := l.Home
	if home == "" {
		home, _ = homedir.Dir()
	}
	xdg := l.XDGDataHome
	if xdg == "" {
		xdg = os.Getenv("XDG_DATA_HOME")
	}
	if xdg == "" && home != "" {
		xdg = filepath.Join(home, ".local", "share")
	}
	var dirs []string
	if home != "" {
		dirs = append(dirs, filepath.Join(home, ".svm"))
	}
	if xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "svm"))
	}
	return dirs
}

// findInstalled searches svm directories laid out as <dir>/<version>/<binary>
// and returns the binary of the highest version not older than minVersion.
// Every directory is searched; an existing directory without a suitable
// release does not stop the search.
func findInstalled(dirs []string, minVersion string) string {
	threshold := versionScore(minVersion)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		var best string
		var bestScore int
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			score := versionScore(entry.Name())
			if score < threshold || score <= bestScore {
				continue
			}
			files, err := os.ReadDir(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			for _, f := range files {
				if f.Type().IsRegular() {
					best = filepath.Join(dir, entry.Name(), f.Name())
					bestScore = score
					break
				}
			}
		}
		if best != "" {
			log.Debug().Str("path", best).Msg("found solc")
			return best
		}
	}
	return ""
}

// versionScore orders "major.minor.patch" strings numerically. Missing
// components count as zero.
func versionScore(s string) int {
	parts := digits.FindAllString(s, 3)
	if len(parts) == 0 {
		return 0
	}
	score := 0
	for i := 0; i < 3; i++ {
		score *= 1000
		if i < len(parts) {
			n, _ := strconv.Atoi(parts[i])
			score += n
		}
	}
	return score
}
