package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Task       TaskConfig       `mapstructure:"task"       validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"omitempty,gte=4,lte=31"`
}

// GenerationConfig contains settings for the text, image, and thumbnail
// generation backends the pipeline calls into.
type GenerationConfig struct {
	// TextBackend selects which text generation client to use.
	TextBackend string `mapstructure:"text_backend" validate:"required,oneof=t5 gemini"`

	// T5URL is the base URL of the local T5 inference server.
	T5URL string `mapstructure:"t5_url" validate:"required_if=TextBackend t5,omitempty,url"`

	// GeminiAPIKey and GeminiModelName configure the Gemini text backend.
	GeminiAPIKey    string `mapstructure:"gemini_api_key"    validate:"required_if=TextBackend gemini"`
	GeminiModelName string `mapstructure:"gemini_model_name" validate:"required_if=TextBackend gemini"`

	// StableDiffusionURL is the base URL of the Stable Diffusion web API.
	StableDiffusionURL string `mapstructure:"stable_diffusion_url" validate:"required,url"`

	// ImageOutputDir is where generated images are written.
	ImageOutputDir string `mapstructure:"image_output_dir" validate:"required"`

	// BrochureOutputDir is where the thumbnail renderer writes its output.
	BrochureOutputDir string `mapstructure:"brochure_output_dir" validate:"required"`

	// PythonBinary and RendererModule identify the external thumbnail
	// rendering process ("python -m <module>").
	PythonBinary   string `mapstructure:"python_binary"   validate:"required"`
	RendererModule string `mapstructure:"renderer_module" validate:"required"`

	// RequestTimeoutSeconds bounds each call to a generation backend.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`

	// MaxRetries and RetryDelaySeconds control backoff for transient
	// backend failures.
	MaxRetries        int `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gt=0"`
}
