package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vidsum/internal/config"
	"vidsum/internal/logging"
	"vidsum/internal/services"
)

type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configFrom string
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// loadEnvFile reads the .env file into the process environment. Variables
// already set win over the file.
func (c *commandContext) loadEnvFile() error {
	path := strings.TrimSpace(c.flags.envFile)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.ApplyOverrides(config.Overrides{
			LogLevel:  c.flags.logLevel,
			LogFormat: c.flags.logFormat,
		}); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configFrom = path
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg, w)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// formatCommandError prefixes pipeline errors with their severity.
func formatCommandError(err error) string {
	switch services.SeverityOf(err) {
	case services.SeverityFatal:
		return "fatal: " + err.Error()
	case services.SeverityAborting:
		return "aborted: " + err.Error()
	default:
		return err.Error()
	}
}
