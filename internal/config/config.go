package config

import "github.com/spf13/viper"

// Config holds the storefront configuration, loaded from environment
// variables with sensible development defaults.
type Config struct {
	AppPort       string
	BaseURL       string
	DBDriver      string
	DatabaseDSN   string
	SecretKey     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RabbitMQURL   string
	TemplateDir   string
	OrderPageSize int
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SECRET_KEY", "dev-secret-key")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("TEMPLATE_DIR", "./web/templates")
	viper.SetDefault("ORDER_PAGE_SIZE", 5)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 25)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "noreply@freshmart.local")
	viper.AutomaticEnv() // Load environment variables

	return &Config{
		AppPort:       viper.GetString("APP_PORT"),
		BaseURL:       viper.GetString("BASE_URL"),
		DBDriver:      viper.GetString("DB_DRIVER"),
		DatabaseDSN:   viper.GetString("DATABASE_DSN"),
		SecretKey:     viper.GetString("SECRET_KEY"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),
		RabbitMQURL:   viper.GetString("RABBITMQ_URL"),
		TemplateDir:   viper.GetString("TEMPLATE_DIR"),
		OrderPageSize: viper.GetInt("ORDER_PAGE_SIZE"),
		SMTPHost:      viper.GetString("SMTP_HOST"),
		SMTPPort:      viper.GetInt("SMTP_PORT"),
		SMTPUsername:  viper.GetString("SMTP_USERNAME"),
		SMTPPassword:  viper.GetString("SMTP_PASSWORD"),
		SMTPFrom:      viper.GetString("SMTP_FROM"),
	}
}
