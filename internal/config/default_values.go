package config

const (
	BackendGPT    = "gpt"
	BackendClaude = "claude"

	DefaultOpenAIModel      = "gpt-3.5-turbo"
	DefaultAnthropicModel   = "claude-2"
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultBackendTimeoutMS = 60000
	DefaultMaxTokens        = 150

	DefaultMaxContextLength = 4096
	DefaultHistoryLimit     = 20

	DefaultPort              = 3000
	DefaultShutdownTimeoutMS = 10000
)
