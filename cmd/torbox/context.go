package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/slipstream/torbox"
	"github.com/slipstream/torbox/internal/config"
	"github.com/slipstream/torbox/internal/logger"
)

type commandContext struct {
	configFlag *string
	outputFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	clientOnce sync.Once
	client     *torbox.Client
	log        *logger.Logger
	clientErr  error
}

func newCommandContext(configFlag, outputFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		outputFlag: outputFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureClient() (*torbox.Client, error) {
	c.clientOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.clientErr = err
			return
		}

		c.log = logger.New(logger.Config{
			Level:      cfg.Logging.Level,
			Format:     cfg.Logging.Format,
			Path:       cfg.Logging.Path,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		})

		client := torbox.New(
			torbox.WithAPIURL(cfg.API.BaseURL),
			torbox.WithAuthURL(cfg.API.AuthURL),
			torbox.WithRetryCount(cfg.API.RetryCount),
			torbox.WithTimeout(cfg.API.TimeoutDuration()),
			torbox.WithLogger(c.log.Logger),
		)

		switch {
		case cfg.HasOAuth():
			client.UseOAuthAuthentication(torbox.OAuthCredentials{
				ClientID:     cfg.OAuth.ClientID,
				ClientSecret: cfg.OAuth.ClientSecret,
				AccessToken:  cfg.OAuth.AccessToken,
				RefreshToken: cfg.OAuth.RefreshToken,
			})
		case cfg.API.Key != "":
			if err := client.UseAPIAuthentication(cfg.API.Key); err != nil {
				c.clientErr = err
				return
			}
		default:
			c.log.Warn().Msg("No API key or OAuth token configured; authenticated calls will fail")
		}

		c.client = client
	})
	return c.client, c.clientErr
}

func (c *commandContext) withClient(fn func(*torbox.Client) error) error {
	client, err := c.ensureClient()
	if err != nil {
		return err
	}
	return fn(client)
}

func (c *commandContext) format() outputFormat {
	if c.outputFlag == nil {
		return outputTable
	}
	f, err := parseOutputFormat(*c.outputFlag)
	if err != nil {
		return outputTable
	}
	return f
}

func (c *commandContext) close() error {
	if c.log != nil {
		return c.log.Close()
	}
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

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
