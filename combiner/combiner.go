// Package combiner builds the runtime of one variant: the dispatcher section
// followed by one section per module, in module order.
package combiner

import (
	"context"
	goerrors "errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/section"
	"github.com/deepnoodle-ai/yulpack/watermark"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Compiler compiles the Yul source at path for an EVM version and returns
// the bytecode as hex.
type Compiler interface {
	Compile(ctx context.Context, path, evmVersion string) (string, error)
}

// Module is one source file and the section it occupies. Section 0 belongs
// to the dispatcher, so modules start at 1.
type Module struct {
	Source  string
	Section int
}

// Modules assigns sections to sources in the given order.
func Modules(sources []string) []Module {
	modules := make([]Module, len(sources))
	for i, src := range sources {
		modules[i] = Module{Source: src, Section: i + 1}
	}
	return modules
}

// Output is the result of building one variant.
type Output struct {
	Runtime []byte
	Stats   []section.Stat
}

// Pair holds the outputs of both variants.
type Pair struct {
	WithPush0    Output
	WithoutPush0 Output
}

// Option configures a Combiner.
type Option func(*Combiner)

// WithSectionShift sets the section length to 1<<shift bytes.
func WithSectionShift(shift int) Option {
	return func(c *Combiner) {
		c.shift = shift
	}
}

// WithSeed seeds the watermark generator. Builds with different seeds
// produce identical runtimes; the seed only changes the temporary sources.
func WithSeed(seed uint64) Option {
	return func(c *Combiner) {
		c.seed = seed
	}
}

// WithJobs limits the number of concurrent compilations per variant.
func WithJobs(n int) Option {
	return func(c *Combiner) {
		c.jobs = n
	}
}

// WithWorkDir sets the directory that receives patched source copies.
func WithWorkDir(dir string) Option {
	return func(c *Combiner) {
		c.workDir = dir
	}
}

// Combiner builds runtimes from Yul modules.
type Combiner struct {
	compiler Compiler
	shift    int
	seed     uint64
	jobs     int
	workDir  string
}

// New returns a Combiner that compiles with c.
func New(c Compiler, opts ...Option) *Combiner {
	cb := &Combiner{
		compiler: c,
		shift:    section.DefaultShift,
		seed:     uint64(time.Now().UnixNano()),
		jobs:     runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(cb)
	}
	if cb.workDir == "" {
		cb.workDir = os.TempDir()
	}
	return cb
}

// SectionLength returns the section length in bytes, or 0 when the
// configured shift is out of range.
func (c *Combiner) SectionLength() int {
	if section.ValidShift(c.shift) != nil {
		return 0
	}
	return 1 << c.shift
}

// BuildAll builds both variants concurrently.
func (c *Combiner) BuildAll(ctx context.Context, modules []Module) (*Pair, error) {
	if err := section.ValidShift(c.shift); err != nil {
		return nil, err
	}
	var pair Pair
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := c.Build(gctx, modules, WithPush0)
		pair.WithPush0 = out
		return err
	})
	g.Go(func() error {
		out, err := c.Build(gctx, modules, WithoutPush0)
		pair.WithoutPush0 = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Build compiles every module for the variant and concatenates the padded
// dispatcher with the padded module bodies. Modules are compiled
// concurrently; the section order always follows the module order.
func (c *Combiner) Build(ctx context.Context, modules []Module, v Variant) (Output, error) {
	if err := section.ValidShift(c.shift); err != nil {
		return Output{}, err
	}
	asm := section.NewAssembler(c.shift)
	dispatcher, err := asm.Pad(section.Dispatcher(c.shift))
	if err != nil {
		return Output{}, err
	}

	bodies := make([][]byte, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	if c.jobs > 0 {
		g.SetLimit(c.jobs)
	}
	for i, m := range modules {
		g.Go(func() error {
			body, err := c.compileModule(gctx, m, v)
			if err != nil {
				return err
			}
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Output{}, err
	}

	code := make([]byte, 0, (len(modules)+1)*asm.Length())
	code = append(code, dispatcher...)
	for i, m := range modules {
		padded, err := asm.Record(m.Source, m.Section, bodies[i])
		if err != nil {
			return Output{}, err
		}
		code = append(code, padded...)
	}
	log.Debug().Str("variant", v.Name()).Int("bytes", len(code)).Msg("runtime built")
	return Output{Runtime: code, Stats: asm.Stats()}, nil
}

// compileModule returns the extracted, unpadded body of one module.
func (c *Combiner) compileModule(ctx context.Context, m Module, v Variant) (body []byte, err error) {
	src, err := os.ReadFile(m.Source)
	if err != nil {
		return nil, err
	}
	r := rand.New(rand.NewPCG(c.seed, uint64(v)<<32|uint64(m.Section)))
	patched, marker, err := watermark.Patch(string(src), m.Section, c.SectionLength(), r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Source, err)
	}

	tmp, err := c.writeTemp(patched)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.Remove(tmp); rmErr != nil && !goerrors.Is(rmErr, os.ErrNotExist) {
			err = multierror.Append(err, rmErr).ErrorOrNil()
		}
	}()

	bin, err := c.compiler.Compile(ctx, tmp, v.EVMVersion())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Source, err)
	}
	output, err := hexutil.Decode(bin)
	if err != nil {
		return nil, fmt.Errorf("%s: compiler output: %w", m.Source, err)
	}
	body, ok := watermark.Extract(output, marker)
	if !ok {
		return nil, fmt.Errorf("%s: watermark not found in compiler output", m.Source)
	}
	if v == WithPush0 {
		body = Push0Peephole(body)
	}
	log.Debug().
		Str("source", m.Source).
		Int("section", m.Section).
		Str("variant", v.Name()).
		Int("bytes", len(body)).
		Msg("extracted module body")
	return body, nil
}

func (c *Combiner) writeTemp(src string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	path := filepath.Join(c.workDir, "tmp_"+id.String()+".yul")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		return "", err
	}
	return path, nil
}
