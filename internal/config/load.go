package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file and use the BROCHURE_ prefix
// with underscores for nesting (e.g. BROCHURE_SERVER_PORT).
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BROCHURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for settings that have a sensible
// out-of-the-box value. Secrets and backend URLs have no defaults and must
// be provided explicitly.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Registered empty so viper's AutomaticEnv can see the keys; validation
	// rejects the config if they are left unset.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.bcrypt_cost", 0)
	v.SetDefault("generation.gemini_api_key", "")
	v.SetDefault("generation.gemini_model_name", "")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)

	v.SetDefault("generation.text_backend", "t5")
	v.SetDefault("generation.t5_url", "http://127.0.0.1:8005")
	v.SetDefault("generation.stable_diffusion_url", "http://127.0.0.1:7860")
	v.SetDefault("generation.image_output_dir", "generated_images")
	v.SetDefault("generation.brochure_output_dir", "generated_brochures")
	v.SetDefault("generation.python_binary", "python")
	v.SetDefault("generation.renderer_module", "models.generate_single_page_brochure")
	v.SetDefault("generation.request_timeout_seconds", 120)
	v.SetDefault("generation.max_retries", 3)
	v.SetDefault("generation.retry_delay_seconds", 2)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
}
