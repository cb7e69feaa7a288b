// Package yulpack packs independently compiled Yul modules into a single
// EVM runtime and wraps the runtimes built with and without PUSH0 into one
// initcode that deploys whichever the chain supports.
//
// Each module occupies a fixed-size section of the runtime. Section 0 holds
// a dispatcher that jumps to section n when the first calldata byte is n.
package yulpack

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/yulpack/artifact"
	"github.com/deepnoodle-ai/yulpack/combiner"
	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/initcode"
	"github.com/deepnoodle-ai/yulpack/section"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Result is the output of a successful build. Digest is the 0x-prefixed
// keccak256 of Initcode.
type Result struct {
	SectionLength       int
	RuntimeWithPush0    []byte
	RuntimeWithoutPush0 []byte
	Initcode            []byte
	Digest              string
	StatsWithPush0      []section.Stat
	StatsWithoutPush0   []section.Stat
}

// Artifacts returns the persisted form of the result.
func (r *Result) Artifacts() artifact.Set {
	return artifact.Set{
		RuntimeWithPush0:    r.RuntimeWithPush0,
		RuntimeWithoutPush0: r.RuntimeWithoutPush0,
		Initcode:            r.Initcode,
	}
}

// Build compiles sources into both runtimes, composes the conditional
// initcode and hashes it. Artifacts are written to the configured store only
// once everything succeeded.
func Build(ctx context.Context, sources []string, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no modules to build")
	}

	cb := combiner.New(o.compiler, o.combinerOpts()...)
	pair, err := cb.BuildAll(ctx, combiner.Modules(sources))
	if err != nil {
		return nil, err
	}

	composer := &initcode.Composer{
		Compiler: o.compiler,
		StubPath: o.stubPath,
		WorkDir:  o.workDir,
	}
	payload, err := composer.Compose(ctx, pair.WithPush0.Runtime, pair.WithoutPush0.Runtime)
	if err != nil {
		return nil, err
	}
	sum, err := o.digester.Digest(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("digest: %w", err)
	}

	result := &Result{
		SectionLength:       cb.SectionLength(),
		RuntimeWithPush0:    pair.WithPush0.Runtime,
		RuntimeWithoutPush0: pair.WithoutPush0.Runtime,
		Initcode:            payload,
		Digest:              sum,
		StatsWithPush0:      pair.WithPush0.Stats,
		StatsWithoutPush0:   pair.WithoutPush0.Stats,
	}
	if o.store != nil {
		if err := artifact.Save(ctx, o.store, result.Artifacts()); err != nil {
			return nil, err
		}
	}
	log.Info().
		Int("modules", len(sources)).
		Int("initcode_bytes", len(payload)).
		Str("digest", sum).
		Msg("build complete")
	return result, nil
}

// SingleResult holds one module compiled for both variants as is, without
// sections or watermarks.
type SingleResult struct {
	InitcodeWithPush0    []byte
	InitcodeWithoutPush0 []byte
	RuntimeWithPush0     []byte
	RuntimeWithoutPush0  []byte
}

// Single compiles the module at source for both variants.
func Single(ctx context.Context, source string, opts ...Option) (*SingleResult, error) {
	o := collectOptions(opts...)
	if o.compiler == nil {
		return nil, fmt.Errorf("no compiler configured")
	}
	var codes [2][]byte
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range combiner.Variants {
		g.Go(func() error {
			bin, err := o.compiler.Compile(gctx, source, v.EVMVersion())
			if err != nil {
				return err
			}
			code, err := hexutil.Decode(bin)
			if err != nil {
				return fmt.Errorf("%s: compiler output: %w", source, err)
			}
			codes[i] = code
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &SingleResult{InitcodeWithPush0: codes[0], InitcodeWithoutPush0: codes[1]}
	var ok bool
	if res.RuntimeWithPush0, ok = initcode.RuntimeOf(codes[0]); !ok {
		return nil, fmt.Errorf("%s: no runtime object in compiler output", source)
	}
	if res.RuntimeWithoutPush0, ok = initcode.RuntimeOf(codes[1]); !ok {
		return nil, fmt.Errorf("%s: no runtime object in compiler output", source)
	}
	return res, nil
}
