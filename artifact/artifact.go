// Package artifact persists build outputs as hex text files, either in a
// local directory or in an S3 bucket.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/rs/zerolog/log"
)

// Names of the persisted artifacts.
const (
	RuntimeWithPush0    = "runtime_with_push0.txt"
	RuntimeWithoutPush0 = "runtime_without_push0.txt"
	Initcode            = "initcode.txt"
)

// Store receives named artifacts.
type Store interface {
	Put(ctx context.Context, name, data string) error
	// Location describes where artifacts end up, for messages.
	Location() string
}

// Set is the output of one build.
type Set struct {
	RuntimeWithPush0    []byte
	RuntimeWithoutPush0 []byte
	Initcode            []byte
}

// Save writes every artifact of set to store as hex without a 0x prefix.
func Save(ctx context.Context, store Store, set Set) error {
	files := []struct {
		name string
		data []byte
	}{
		{RuntimeWithPush0, set.RuntimeWithPush0},
		{RuntimeWithoutPush0, set.RuntimeWithoutPush0},
		{Initcode, set.Initcode},
	}
	for _, f := range files {
		if err := store.Put(ctx, f.name, hexutil.Encode(f.data)); err != nil {
			return fmt.Errorf("save %s: %w", f.name, err)
		}
	}
	log.Info().Str("location", store.Location()).Msg("artifacts saved")
	return nil
}

// Dir stores artifacts as files in a directory, creating it when needed.
type Dir string

// Put implements Store.
func (d Dir) Put(ctx context.Context, name, data string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(string(d), name), []byte(data), 0o644)
}

// Location implements Store.
func (d Dir) Location() string {
	return string(d)
}

// Open returns the store for uri: an S3 store for "s3://bucket/prefix",
// a directory otherwise.
func Open(ctx context.Context, uri string) (Store, error) {
	if rest, ok := strings.CutPrefix(uri, "s3://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid s3 location %q: missing bucket", uri)
		}
		return NewS3(ctx, bucket, prefix)
	}
	if uri == "" {
		return nil, fmt.Errorf("empty output location")
	}
	return Dir(uri), nil
}
