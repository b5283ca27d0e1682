package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fidelity/internal/config"
	"fidelity/internal/integrity"
	"fidelity/internal/library"
	"fidelity/internal/logging"
	"fidelity/internal/verify"
)

type commandContext struct {
	configFlag *string
	quietFlag  *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, quietFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		quietFlag:  quietFlag,
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) quiet() bool {
	return c.quietFlag != nil && *c.quietFlag
}

// withVerifier wires the storage, checker registry, and logging behind a
// ready Verifier. Mutating workflows take the library lock first so two
// processes never write the catalog at once.
func (c *commandContext) withVerifier(cmd *cobra.Command, lock bool, fn func(ctx context.Context, v *verify.Verifier, store *library.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	if lock {
		release, err := library.AcquireLock(cfg)
		if err != nil {
			return err
		}
		defer release()
	}

	store, err := library.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := integrity.NewRegistry(cfg.Tools)
	v := verify.New(cfg, store, registry, logger,
		verify.WithQuiet(c.quiet()),
		verify.WithOutput(cmd.OutOrStdout()),
		verify.WithPrompter(newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())),
	)
	return fn(cmd.Context(), v, store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
