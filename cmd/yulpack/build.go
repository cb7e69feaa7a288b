package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/yulpack"
	"github.com/deepnoodle-ai/yulpack/artifact"
	"github.com/deepnoodle-ai/yulpack/combiner"
	"github.com/deepnoodle-ai/yulpack/digest"
	"github.com/deepnoodle-ai/yulpack/hexutil"
	"github.com/deepnoodle-ai/yulpack/manifest"
	"github.com/deepnoodle-ai/yulpack/report"
	"github.com/deepnoodle-ai/yulpack/section"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type buildConfig struct {
	sources []string
	shift   int
	out     string
	stub    string
	digest  string
	seed    uint64
	hasSeed bool
	jobs    int
	output  string
}

// watchPaths returns the files whose changes trigger a rebuild.
func (c *buildConfig) watchPaths() []string {
	paths := append([]string(nil), c.sources...)
	if c.stub != "" {
		paths = append(paths, c.stub)
	}
	return paths
}

func (a *app) buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [sources...]",
		Short: "Build the combined runtimes and the conditional initcode",
		Long: `Build compiles every module with and without PUSH0, packs each variant
into one runtime and joins both behind initcode that picks the right one at
deployment. Sources are taken from the arguments or from a manifest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := a.buildConfig(cmd, args)
			if err != nil {
				return err
			}
			compiler, err := a.compiler(ctx)
			if err != nil {
				return err
			}
			err = a.runBuild(ctx, cfg, compiler)
			if !a.v.GetBool("watch") {
				return err
			}
			if err != nil {
				fmt.Fprintln(a.stderr, red(err.Error()))
			}
			return watch(ctx, cfg.watchPaths(), defaultDebounce, func() {
				if err := a.runBuild(ctx, cfg, compiler); err != nil {
					fmt.Fprintln(a.stderr, red(err.Error()))
				}
			})
		},
	}
	f := cmd.Flags()
	f.String("manifest", "", "build manifest (default "+manifest.DefaultPath+" when no sources are given)")
	f.Int("section-shift", section.DefaultShift, "section length as a power of two")
	f.String("out", "", "output directory or s3://bucket/prefix; nothing is written when empty")
	f.String("stub", "", "decision stub source (default: built-in)")
	f.String("digest", "keccak", "initcode digest: keccak or cast")
	f.Uint64("seed", 0, "watermark seed (default: random)")
	f.Int("jobs", 0, "concurrent compilations per variant (default: number of CPUs)")
	f.StringP("output", "o", "text", "output format: text or json")
	f.Bool("watch", false, "rebuild whenever a module or the stub changes")
	return cmd
}

// buildConfig merges flags, environment and config file values with the
// manifest. Explicitly set flags win over the manifest.
func (a *app) buildConfig(cmd *cobra.Command, args []string) (*buildConfig, error) {
	cfg := &buildConfig{
		sources: args,
		shift:   a.v.GetInt("section-shift"),
		out:     a.v.GetString("out"),
		stub:    a.v.GetString("stub"),
		digest:  a.v.GetString("digest"),
		seed:    a.v.GetUint64("seed"),
		hasSeed: a.v.IsSet("seed"),
		jobs:    a.v.GetInt("jobs"),
		output:  strings.ToLower(a.v.GetString("output")),
	}
	switch cfg.output {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown output format: %s", cfg.output)
	}

	path := a.v.GetString("manifest")
	if len(args) > 0 {
		if path != "" {
			return nil, fmt.Errorf("sources and --manifest are mutually exclusive")
		}
		return cfg, section.ValidShift(cfg.shift)
	}
	if path == "" {
		path = manifest.DefaultPath
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.sources = m.Modules
	changed := cmd.Flags().Changed
	if m.SectionShift != 0 && !changed("section-shift") {
		cfg.shift = m.SectionShift
	}
	if m.Output != "" && !changed("out") {
		cfg.out = m.Output
	}
	if m.Stub != "" && !changed("stub") {
		cfg.stub = m.Stub
	}
	if err := section.ValidShift(cfg.shift); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) runBuild(ctx context.Context, cfg *buildConfig, compiler combiner.Compiler) error {
	d, err := digest.New(cfg.digest, nil)
	if err != nil {
		return err
	}
	opts := []yulpack.Option{
		yulpack.WithCompiler(compiler),
		yulpack.WithSectionShift(cfg.shift),
		yulpack.WithJobs(cfg.jobs),
		yulpack.WithStubPath(cfg.stub),
		yulpack.WithDigester(d),
	}
	if cfg.hasSeed {
		opts = append(opts, yulpack.WithSeed(cfg.seed))
	}
	if cfg.out != "" {
		store, err := artifact.Open(ctx, cfg.out)
		if err != nil {
			return err
		}
		opts = append(opts, yulpack.WithStore(store))
	}
	res, err := yulpack.Build(ctx, cfg.sources, opts...)
	if err != nil {
		return err
	}
	log.Debug().Int("modules", len(cfg.sources)).Msg("printing build result")
	if cfg.output == "json" {
		return report.JSON(a.stdout, summary(res), !color.NoColor && isTerminal(a.stdout))
	}
	return a.printBuild(res)
}

func summary(res *yulpack.Result) report.Summary {
	return report.Summary{
		SectionLength:       res.SectionLength,
		RuntimeWithPush0:    hexutil.Encode(res.RuntimeWithPush0),
		RuntimeWithoutPush0: hexutil.Encode(res.RuntimeWithoutPush0),
		Initcode:            hexutil.Encode(res.Initcode),
		InitcodeHash:        res.Digest,
		StatsWithPush0:      res.StatsWithPush0,
		StatsWithoutPush0:   res.StatsWithoutPush0,
	}
}

func (a *app) printBuild(res *yulpack.Result) error {
	variants := []struct {
		v     combiner.Variant
		stats []section.Stat
		code  []byte
	}{
		{combiner.WithPush0, res.StatsWithPush0, res.RuntimeWithPush0},
		{combiner.WithoutPush0, res.StatsWithoutPush0, res.RuntimeWithoutPush0},
	}
	for _, v := range variants {
		if err := report.Stats(a.stdout, "Sections "+v.v.String(), v.stats, res.SectionLength); err != nil {
			return err
		}
	}
	for _, v := range variants {
		if err := report.Hex(a.stdout, "Runtime "+v.v.String(), v.code, true); err != nil {
			return err
		}
	}
	if err := report.Hex(a.stdout, "Initcode", res.Initcode, true); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.stdout, "Initcode hash: %s\n", res.Digest)
	return err
}
