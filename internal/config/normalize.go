package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	if err := c.normalizeWorkflow(); err != nil {
		return err
	}
	c.normalizeClustering()
	c.normalizeLLM()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.Token == "" {
		if value, ok := os.LookupEnv("CONTENTOPS_API_TOKEN"); ok {
			c.API.Token = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeWorkflow() error {
	c.Workflow.DefaultTimeline = strings.ToLower(strings.TrimSpace(c.Workflow.DefaultTimeline))
	if c.Workflow.DefaultTimeline == "" {
		c.Workflow.DefaultTimeline = defaultTimeline
	}
	c.Workflow.DefaultTXTime = strings.TrimSpace(c.Workflow.DefaultTXTime)
	if c.Workflow.DefaultTXTime == "" {
		c.Workflow.DefaultTXTime = defaultTXTime
	}
	if catalog := strings.TrimSpace(c.Workflow.TemplateCatalog); catalog != "" {
		expanded, err := expandPath(catalog)
		if err != nil {
			return fmt.Errorf("workflow.template_catalog: %w", err)
		}
		c.Workflow.TemplateCatalog = expanded
	}
	return nil
}

func (c *Config) normalizeClustering() {
	if c.Clustering.LookbackDays <= 0 {
		c.Clustering.LookbackDays = defaultLookbackDays
	}
	// Zero disables the preview cache.
	if c.Clustering.CacheTTLSeconds < 0 {
		c.Clustering.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	if c.Clustering.MaxProposals <= 0 {
		c.Clustering.MaxProposals = defaultMaxProposals
	}
	if c.Clustering.MaxStories <= 0 {
		c.Clustering.MaxStories = defaultMaxStories
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		for _, key := range []string{"CONTENTOPS_LLM_API_KEY", "OPENROUTER_API_KEY"} {
			if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
				c.LLM.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
