package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/authzkit/authzkit/pkg/rbac"
	"github.com/authzkit/authzkit/pkg/rolesource"
)

var version = "dev" // Set during build.

// Config is populated from the environment; flags override it.
type Config struct {
	RolesFile string `env:"AUTHZKIT_ROLES_FILE"`
	RedisURL  string `env:"AUTHZKIT_REDIS_URL"`
	RedisKey  string `env:"AUTHZKIT_REDIS_KEY" envDefault:"authz:roles"`
	LogLevel  string `env:"AUTHZKIT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"AUTHZKIT_LOG_FORMAT" envDefault:"text"`
}

var (
	cfg        Config
	rolesFile  string
	outputJSON bool
	logger     *slog.Logger
)

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

var rootCmd = &cobra.Command{
	Use:           "authzkit",
	Short:         "Role hierarchy tooling for the authzkit RBAC engine",
	SilenceUsage:  true,
	SilenceErrors: false,
	Long: `authzkit inspects and resolves role hierarchies: validating the
inheritance graph, computing effective permission sets, measuring structural
health and rendering the hierarchy as a tree.

Role data comes from a YAML/JSON document (--roles or AUTHZKIT_ROLES_FILE)
or from a Redis hash (AUTHZKIT_REDIS_URL + AUTHZKIT_REDIS_KEY).`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The .env file is optional.
		_ = godotenv.Load()
		if err := env.Parse(&cfg); err != nil {
			return fmt.Errorf("parse environment: %w", err)
		}
		logger = newLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rolesFile, "roles", "r", "", "path to a YAML/JSON role document")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "emit JSON instead of text")
}

func newLogger(cfg Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// loadRoles builds the configured role source and loads it. A --roles flag
// wins over the environment; Redis is the fallback when no file is set.
func loadRoles(ctx context.Context) ([]rbac.Role, error) {
	source, err := buildSource()
	if err != nil {
		return nil, err
	}

	roles, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	logger.Debug("roles loaded", "count", len(roles))
	return roles, nil
}

func buildSource() (rolesource.Source, error) {
	path := rolesFile
	if path == "" {
		path = cfg.RolesFile
	}
	if path != "" {
		return rolesource.NewFileSource(path), nil
	}

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse AUTHZKIT_REDIS_URL: %w", err)
		}
		return rolesource.NewRedisSource(redis.NewClient(opt), cfg.RedisKey), nil
	}

	return nil, fmt.Errorf("no role source configured (use --roles or AUTHZKIT_ROLES_FILE / AUTHZKIT_REDIS_URL)")
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
