package config

const (
	defaultConfigPath         = "~/.config/contentops/config.toml"
	defaultDataDir            = "~/.local/share/contentops"
	defaultLogDir             = "~/.local/share/contentops/logs"
	defaultAPIBind            = "127.0.0.1:7610"
	defaultTimeline           = "normal"
	defaultTXTime             = "19:00"
	defaultLookbackDays       = 7
	defaultCacheTTLSeconds    = 300
	defaultMaxProposals       = 5
	defaultMaxStories         = 200
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "google/gemini-3-flash-preview"
	defaultLLMTitle           = "contentops"
	defaultLLMTimeoutSeconds  = 60
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	maxClusteringLookbackDays = 90
	maxProposalsPerGeneration = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Workflow: Workflow{
			DefaultTimeline: defaultTimeline,
			DefaultTXTime:   defaultTXTime,
		},
		Clustering: Clustering{
			LookbackDays:    defaultLookbackDays,
			CacheTTLSeconds: defaultCacheTTLSeconds,
			MaxProposals:    defaultMaxProposals,
			MaxStories:      defaultMaxStories,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Approvals:      true,
			ClientFeedback: true,
			Proposals:      true,
			Scheduling:     true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
