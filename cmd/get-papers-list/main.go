// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the get-papers-list CLI. It searches
// PubMed, keeps the papers with at least one pharmaceutical or biotech
// co-author, and writes them as a report.
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

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/httputil"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	appName   = "get-papers-list"
	envPrefix = "GET_PAPERS_LIST"
)

// flagKeys binds command-line flags to their configuration keys.
var flagKeys = map[string]string{
	"debug":      "debug",
	"email":      "pubmed.email",
	"api-key":    "pubmed.api_key",
	"batch-size": "pubmed.batch_size",
	"timeout":    "http.timeout",
	"rules":      "classifier.rules_file",
	"file":       "report.output",
	"format":     "report.format",
}

// app carries the state of one CLI invocation.
type app struct {
	v          *viper.Viper
	log        *logrus.Entry
	secretsDir string
	stdout     io.Writer
	stderr     io.Writer
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		v:          viper.New(),
		secretsDir: secrets.DefaultDir,
		stdout:     stdout,
		stderr:     stderr,
	}
}

// rootCommand builds the command tree for a.
func (a *app) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName + " QUERY",
		Short: "List PubMed papers with pharmaceutical or biotech co-authors",
		Long: `get-papers-list runs QUERY against PubMed (full PubMed query syntax is
supported), fetches the matching records, and reports the papers where at
least one author is affiliated with a pharmaceutical or biotech company.

The report has six columns: PubmedID, Title, Publication Date,
Non-academic Author(s), Company Affiliation(s), and Corresponding Author
Email. It goes to standard output unless --file is given; a file name
ending in .gz is gzip-compressed.

NCBI credentials are read from flags, GET_PAPERS_LIST_* environment
variables, a get-papers-list.yaml config file, or the .secrets/ directory
(ncbi-api-key, ncbi-email), in that order of precedence.`,
		Example: `  get-papers-list "cancer immunotherapy" -f results.csv
  get-papers-list "crispr AND 2023[dp]" --max 500 --format json`,
		Version:           version,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.run,
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	// Every positional word is a query, so no built-in subcommands.
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().String("config", "", "config file (default: ./get-papers-list.yaml or $XDG_CONFIG_HOME/get-papers-list/get-papers-list.yaml)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "print debug information during execution")

	flags := cmd.Flags()
	flags.StringP("file", "f", "", "write the report to this file instead of stdout")
	flags.IntP("max", "m", pubmed.DefaultMaxResults, "maximum number of search results to fetch")
	flags.String("format", "csv", "report format: csv, json, or yaml")
	flags.String("email", "", "contact email sent to NCBI with every request")
	flags.String("api-key", "", "NCBI API key")
	flags.String("rules", "", "YAML file overriding the affiliation keyword lists")
	flags.Int("batch-size", pubmed.DefaultBatchSize, "PubMed IDs per efetch request")
	flags.Duration("timeout", httputil.DefaultTimeout, "per-request timeout")

	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}
		_ = a.v.BindPFlag(key, f)
	}

	return cmd
}

// setup reads configuration, builds the logger, and loads credentials.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Root().PersistentFlags().GetString("config")
	if err := a.initConfig(cfgFile); err != nil {
		return err
	}

	a.log = newLogger(a.stderr, a.v.GetBool("debug")).WithField("run", uuid.NewString())
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("using config file")
	}

	s, err := secrets.Load(a.secretsDir, a.log)
	if err != nil {
		return err
	}
	if len(s) > 0 {
		a.log.WithField("secrets", s.Names()).Debug("loaded secrets")
	}
	// Secrets rank below every other configuration source.
	if v := s.APIKey(); v != "" {
		a.v.SetDefault("pubmed.api_key", v)
	}
	if v := s.Email(); v != "" {
		a.v.SetDefault("pubmed.email", v)
	}
	return nil
}

func (a *app) initConfig(cfgFile string) error {
	a.v.SetDefault("pubmed.base_url", pubmed.DefaultBaseURL)
	a.v.SetDefault("pubmed.tool", appName)
	a.v.SetDefault("http.user_agent", appName+"/"+version)

	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName(appName)
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		a.v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// newLogger writes text logs to w, keeping stdout free for the report.
func newLogger(w io.Writer, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// execute runs the CLI with args and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newApp(stdout, stderr).rootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
