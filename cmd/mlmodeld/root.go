package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mlmodeld/internal/config"
)

// options are the command-line values shared by serve and validate.
type options struct {
	configPath string
	cfg        config.Config
	corsCSV    string
}

func buildRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "mlmodeld",
		Short:         "In-memory registry of named, trainable ML models served over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("MLMODELD_CONFIG"), "Config file (.yaml|.yml|.json|.toml)")
	root.PersistentFlags().StringVar(&opts.cfg.CatalogDir, "catalog-dir", "", "Directory of model definitions to create at startup")
	root.PersistentFlags().StringVar(&opts.cfg.DefaultFramework, "default-framework", "", "Framework used when a model config names none")

	serve := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Example: "  mlmodeld serve --addr :8080 --catalog-dir ~/mlmodeld/catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	f := serve.Flags()
	f.StringVar(&opts.cfg.Addr, "addr", "", "HTTP listen address (defaults MLMODELD_ADDR or :8080)")
	f.StringVar(&opts.cfg.LogLevel, "log-level", "", "Log level: debug|info|warn|error (defaults MLMODELD_LOG_LEVEL or info)")
	f.StringVar(&opts.cfg.LogFormat, "log-format", "", "Log format: console|json")
	f.StringVar(&opts.cfg.LogFile, "log-file", "", "Write logs to this rotated file instead of stderr")
	f.StringVar(&opts.cfg.HTTPLog, "http-log", "", "Default per-request log level: off|error|info|debug")
	f.IntVar(&opts.cfg.InfoCacheSize, "info-cache-size", 0, "Fitted models whose diagnostics stay cached")
	f.Int64Var(&opts.cfg.MaxBodyBytes, "max-body-bytes", 0, "Maximum JSON request body size")
	f.Int64Var(&opts.cfg.RequestTimeoutSeconds, "request-timeout", 0, "Train/predict timeout in seconds")
	f.Float64Var(&opts.cfg.RateLimitRPS, "rate-limit-rps", 0, "Requests per second allowed on /models routes (0 disables)")
	f.IntVar(&opts.cfg.RateLimitBurst, "rate-limit-burst", 0, "Rate limiter burst size")
	f.StringVar(&opts.corsCSV, "cors-origins", os.Getenv("MLMODELD_CORS_ORIGINS"), "Comma-separated allowed CORS origins; enables CORS when set")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check the config file and the model catalog without serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return runValidate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	root.AddCommand(serve, validate)
	return root
}

// resolve builds the effective config: file values, then flags the user set,
// then environment defaults, then package defaults.
func (o *options) resolve(flags *pflag.FlagSet) (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "catalog-dir":
			cfg.CatalogDir = o.cfg.CatalogDir
		case "default-framework":
			cfg.DefaultFramework = o.cfg.DefaultFramework
		case "addr":
			cfg.Addr = o.cfg.Addr
		case "log-level":
			cfg.LogLevel = o.cfg.LogLevel
		case "log-format":
			cfg.LogFormat = o.cfg.LogFormat
		case "log-file":
			cfg.LogFile = o.cfg.LogFile
		case "http-log":
			cfg.HTTPLog = o.cfg.HTTPLog
		case "info-cache-size":
			cfg.InfoCacheSize = o.cfg.InfoCacheSize
		case "max-body-bytes":
			cfg.MaxBodyBytes = o.cfg.MaxBodyBytes
		case "request-timeout":
			cfg.RequestTimeoutSeconds = o.cfg.RequestTimeoutSeconds
		case "rate-limit-rps":
			cfg.RateLimitRPS = o.cfg.RateLimitRPS
		case "rate-limit-burst":
			cfg.RateLimitBurst = o.cfg.RateLimitBurst
		}
	})
	if origins := splitCSV(o.corsCSV); len(origins) > 0 {
		cfg.CORS.Enabled = true
		cfg.CORS.Origins = origins
	}
	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("MLMODELD_ADDR")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("MLMODELD_LOG_LEVEL")
	}
	cfg = cfg.WithDefaults()
	return cfg, cfg.Validate()
}

// splitCSV splits a comma-separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
