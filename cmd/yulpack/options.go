package main

import (
	"context"
	goerrors "errors"
	"io"
	"strings"

	"github.com/deepnoodle-ai/yulpack/combiner"
	"github.com/deepnoodle-ai/yulpack/solc"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state of one CLI invocation.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	// compiler resolves the Yul compiler once per invocation.
	compiler func(ctx context.Context) (combiner.Compiler, error)
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}
	a.compiler = a.resolveCompiler
	return a
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yulpack",
		Short: "Pack Yul modules into a single dispatching EVM runtime",
		Long: `yulpack compiles Yul modules into fixed-size sections of one runtime.
The first calldata byte selects the section to jump to. Runtimes are built
with and without PUSH0 and joined behind initcode that deploys the variant
the chain supports.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default .yulpack.yaml in the working or home directory)")
	pf.String("solc", "", "solc binary; discovered through svm and PATH when empty")
	pf.String("min-solc", solc.DefaultMinVersion, "oldest solc version accepted during discovery")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.Bool("no-color", false, "disable colored output")

	cmd.AddCommand(
		a.buildCmd(),
		a.singleCmd(),
		a.disCmd(),
		a.wrapCmd(),
		a.versionCmd(),
	)
	return cmd
}

// setup binds the flags of the executing command, reads the config file and
// configures colours and logging.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix("YULPACK")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindEnv("no-color", "YULPACK_NO_COLOR", "NO_COLOR"); err != nil {
		return err
	}
	if err := a.readConfig(); err != nil {
		return err
	}
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	return setupLogging(a.stderr, a.v.GetString("log-level"))
}

func (a *app) readConfig() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		return a.v.ReadInConfig()
	}
	a.v.SetConfigName(".yulpack")
	a.v.SetConfigType("yaml")
	a.v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		a.v.AddConfigPath(home)
	}
	err := a.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !goerrors.As(err, &notFound) {
		return err
	}
	if err == nil {
		log.Debug().Str("file", a.v.ConfigFileUsed()).Msg("loaded config")
	}
	return nil
}

func (a *app) resolveCompiler(ctx context.Context) (combiner.Compiler, error) {
	if path := a.v.GetString("solc"); path != "" {
		return solc.New(path, nil), nil
	}
	loc := &solc.Locator{MinVersion: a.v.GetString("min-solc")}
	path, err := loc.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Str("solc", path).Msg("resolved compiler")
	return solc.New(path, nil), nil
}
