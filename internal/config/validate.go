package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateClustering(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAPI() error {
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	switch c.Workflow.DefaultTimeline {
	case "normal", "breaking_news", "emergency":
	default:
		return fmt.Errorf("workflow.default_timeline must be normal, breaking_news or emergency (got %q)", c.Workflow.DefaultTimeline)
	}
	if _, err := time.Parse("15:04", c.Workflow.DefaultTXTime); err != nil {
		return fmt.Errorf("workflow.default_tx_time must be HH:MM (got %q)", c.Workflow.DefaultTXTime)
	}
	return nil
}

func (c *Config) validateClustering() error {
	if c.Clustering.LookbackDays > maxClusteringLookbackDays {
		return fmt.Errorf("clustering.lookback_days must be at most %d", maxClusteringLookbackDays)
	}
	if c.Clustering.MaxProposals > maxProposalsPerGeneration {
		return fmt.Errorf("clustering.max_proposals must be at most %d", maxProposalsPerGeneration)
	}
	return nil
}

func (c *Config) validateLLM() error {
	parsed, err := url.Parse(c.LLM.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("llm.base_url must be an absolute URL (got %q)", c.LLM.BaseURL)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("notifications.ntfy_topic must be a full URL such as https://ntfy.sh/my-topic")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}
