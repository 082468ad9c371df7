package config

import "github.com/spf13/viper"

// Config holds the application configuration, loaded from the environment
// (optionally seeded from an app.env file).
type Config struct {
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	SweepSecret    string `mapstructure:"SWEEP_SECRET"`
	TopOffersLimit int    `mapstructure:"TOP_OFFERS_LIMIT"`
	AdminEmails    string `mapstructure:"ADMIN_EMAILS"` // comma-separated
	AppURL         string `mapstructure:"APP_URL"`

	MailProvider string `mapstructure:"MAIL_PROVIDER"` // empty for SMTP, "plunk" for the Plunk API
	MailReplyTo  string `mapstructure:"MAIL_REPLY_TO"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
	PlunkAPIKey  string `mapstructure:"PLUNK_API_KEY"`
	PlunkFrom    string `mapstructure:"PLUNK_FROM"`
	PlunkAPIURL  string `mapstructure:"PLUNK_API_URL"`
}

// App is the loaded configuration, set once by Load at startup.
var App Config

// Load reads configuration from path/app.env if present, with environment
// variables taking precedence, and stores the result in App.
func Load(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("TOP_OFFERS_LIMIT", 3)
	viper.SetDefault("APP_URL", "http://localhost:3000")
	viper.SetDefault("PLUNK_API_URL", "https://api.useplunk.com/v1/send")

	// AutomaticEnv only resolves keys viper already knows about, so bind the
	// ones without defaults explicitly.
	for _, key := range []string{
		"DATABASE_URL", "JWT_SECRET", "SWEEP_SECRET", "ADMIN_EMAILS",
		"MAIL_PROVIDER", "MAIL_REPLY_TO",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM",
		"PLUNK_API_KEY", "PLUNK_FROM",
	} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars carry the config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	App = cfg
	return cfg, nil
}
