// Command pivotlai detects, summarizes and translates text, pivoting through
// an intermediate language when a pair has no direct translator.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ZaguanLabs/pivotlai"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = pivotlai.Version
	commit    = pivotlai.GitCommit
	buildDate = pivotlai.BuildDate
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs. Each run gets its own viper
// instance so tests do not share configuration.
type app struct {
	v      *viper.Viper
	logger *log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{
		v:      viper.New(),
		logger: log.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	a.logger.SetOutput(stderr)

	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.ExecuteContext(ctx)
}

func (a *app) newRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   pivotlai.Name,
		Short: pivotlai.Description,
		Long: `pivotlai translates text through an AI translation backend. When a
language pair has no direct translator it pivots through an intermediate
language (English by default), and returns the original text if every
route fails.

Examples:
  pivotlai translate --from es --to fr "Hola Mundo"
  pivotlai translate --to de --html index.html
  echo "Bonjour" | pivotlai detect
  pivotlai serve --addr :8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cfgFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pivotlai.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("backend", "openai", "translation backend: openai, gemini, lambda or mock")
	pf.String("pivot", pivotlai.DefaultPivot, "pivot language for indirect pairs")
	pf.Int("max-attempts", pivotlai.DefaultMaxAttempts, "pivot depth ceiling")
	pf.Int("cache-ttl", 3600, "hop cache TTL in seconds (0 keeps entries forever)")
	pf.String("redis-url", "", "share the hop cache through Redis (e.g., redis://localhost:6379)")
	pf.Int("rpm", 0, "limit backend translations per minute (0 for no limit)")

	for _, name := range []string{"log-level", "backend", "pivot", "max-attempts", "cache-ttl", "redis-url", "rpm"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), pf.Lookup(name))
	}

	root.AddCommand(
		a.newTranslateCommand(),
		a.newDetectCommand(),
		a.newSummarizeCommand(),
		a.newServeCommand(),
		a.newLanguagesCommand(),
		a.newCacheCommand(),
		a.newVersionCommand(),
	)

	return root
}

// initConfig loads .env, the config file and PIVOTLAI_* variables, then
// applies the log level.
func (a *app) initConfig(cfgFile string) error {
	// A missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName("." + pivotlai.Name)
	}

	a.v.SetEnvPrefix(strings.ToUpper(pivotlai.Name))
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	level, err := log.ParseLevel(a.v.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	a.logger.SetLevel(level)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.WithField("file", filepath.Base(used)).Debug("using config file")
	}
	return nil
}

// readInput returns the positional argument, the named file when fromFile is
// set, or stdin when no argument is given.
func (a *app) readInput(args []string, fromFile bool) (string, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	if !fromFile {
		return strings.Join(args, " "), "argument", nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), filepath.Base(args[0]), nil
}
