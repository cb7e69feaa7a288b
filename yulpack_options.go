package yulpack

import (
	"fmt"

	"github.com/deepnoodle-ai/yulpack/artifact"
	"github.com/deepnoodle-ai/yulpack/combiner"
	"github.com/deepnoodle-ai/yulpack/digest"
	"github.com/deepnoodle-ai/yulpack/section"
)

// Option configures a build.
type Option func(*options)

type options struct {
	compiler     combiner.Compiler
	sectionShift int
	hasShift     bool
	seed         uint64
	hasSeed      bool
	jobs         int
	stubPath     string
	digester     digest.Digester
	store        artifact.Store
	workDir      string
}

func collectOptions(opts ...Option) *options {
	o := &options{digester: digest.Keccak256{}}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) combinerOpts() []combiner.Option {
	var opts []combiner.Option
	if o.hasShift {
		opts = append(opts, combiner.WithSectionShift(o.sectionShift))
	}
	if o.hasSeed {
		opts = append(opts, combiner.WithSeed(o.seed))
	}
	if o.jobs > 0 {
		opts = append(opts, combiner.WithJobs(o.jobs))
	}
	if o.workDir != "" {
		opts = append(opts, combiner.WithWorkDir(o.workDir))
	}
	return opts
}

// WithCompiler sets the Yul compiler. Required.
func WithCompiler(c combiner.Compiler) Option {
	return func(o *options) {
		o.compiler = c
	}
}

// WithSectionShift sets the section length to 1<<shift bytes. The default
// is 64-byte sections. Shifts outside [section.MinShift, section.MaxShift]
// make Build fail.
func WithSectionShift(shift int) Option {
	return func(o *options) {
		o.sectionShift = shift
		o.hasShift = true
	}
}

func (o *options) validate() error {
	if o.compiler == nil {
		return fmt.Errorf("no compiler configured")
	}
	if o.hasShift {
		if err := section.ValidShift(o.sectionShift); err != nil {
			return err
		}
	}
	return nil
}

// WithSeed seeds watermark generation. The output does not depend on it.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithJobs limits concurrent compilations per variant.
func WithJobs(n int) Option {
	return func(o *options) {
		o.jobs = n
	}
}

// WithStubPath compiles the decision stub from path instead of the
// built-in source.
func WithStubPath(path string) Option {
	return func(o *options) {
		o.stubPath = path
	}
}

// WithDigester sets how the initcode digest is computed. Defaults to
// in-process keccak256.
func WithDigester(d digest.Digester) Option {
	return func(o *options) {
		if d != nil {
			o.digester = d
		}
	}
}

// WithStore persists artifacts to s after a successful build. Without a
// store nothing is written.
func WithStore(s artifact.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithWorkDir sets the directory for temporary patched sources.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}
