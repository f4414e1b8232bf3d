package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reelcat/internal/catalog"
	"reelcat/internal/config"
	"reelcat/internal/logging"
	"reelcat/internal/settings"
)

type commandContext struct {
	configFlag  *string
	catalogFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	settingsPath string
}

func newCommandContext(configFlag, catalogFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		catalogFlag:  catalogFlag,
		settingsPath: settings.DefaultPath(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil || cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// catalogPath resolves the catalog database location: the --catalog flag
// wins, then the configured path.
func (c *commandContext) catalogPath() (string, error) {
	if c.catalogFlag != nil {
		if override := strings.TrimSpace(*c.catalogFlag); override != "" {
			expanded, err := config.ExpandPath(override)
			if err != nil {
				return "", err
			}
			return expanded, nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.CatalogPath, nil
}

// withStore opens the catalog, runs fn, and records the catalog path in the
// session settings on success.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(ctx context.Context, store *catalog.Store) error) error {
	path, err := c.catalogPath()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := catalog.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := fn(ctx, store); err != nil {
		return err
	}
	settings.RememberCatalog(c.settingsPath, path)
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
