package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	StaticPath     string        `mapstructure:"static_path"`
	DataDir        string        `mapstructure:"data_dir"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	Secret         string        `mapstructure:"secret"`
	AIAPIKey       string        `mapstructure:"ai_api_key"`
	AIModel        string        `mapstructure:"ai_model"`
	AITimeout      time.Duration `mapstructure:"ai_timeout"`
	FileTTL        time.Duration `mapstructure:"file_ttl"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5000)
	v.SetDefault("static_path", "./public")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("allowed_origins", []string{
		"http://localhost:5000",
		"http://127.0.0.1:5500",
		"http://localhost:5500",
	})
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ai_model", "llama-3.1-8b-instant")
	v.SetDefault("ai_timeout", "30s")
	v.SetDefault("file_ttl", "24h")
	v.SetDefault("sweep_interval", "1h")

	// The AI key never lives in a config file.
	v.SetDefault("ai_api_key", os.Getenv("GROQ_API_KEY"))

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Static: %s\n", cfg.Mode, cfg.Port, cfg.StaticPath)
	return &cfg, nil
}
