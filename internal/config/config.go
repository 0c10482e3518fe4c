// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Portal
	PortalLoginURL string `yaml:"portal_login_url"`
	PortalHomePath string `yaml:"portal_home_path"`
	PortalUsername string `yaml:"portal_username" env:"PORTAL_USERNAME"`
	PortalPassword string `yaml:"-" env:"PORTAL_PASSWORD"`
	//Mailer (single operator identity, no per-subscriber credentials)
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	SMTPUser string `yaml:"-" env:"SMTP_USER"`
	SMTPPass string `yaml:"-" env:"SMTP_PASS"`
	MailFrom string `yaml:"mail_from"`
	//Schedule
	IntervalHours    int `yaml:"interval_hours"`
	CycleTimeoutMins int `yaml:"cycle_timeout_mins"`
	//Paths
	DataPath string `yaml:"data_path"`
	LogsPath string `yaml:"logs_path"`
	//Operator alerts (optional)
	TelegramToken      string `yaml:"-" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID     int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	AlertAfterFailures int    `yaml:"alert_after_failures"`
	//API
	Port string `yaml:"port" env:"PORT"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if user := os.Getenv("PORTAL_USERNAME"); user != "" {
		cfg.PortalUsername = user
	}
	cfg.PortalPassword = os.Getenv("PORTAL_PASSWORD")
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPass = os.Getenv("SMTP_PASS")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	//Set default values if not set
	if cfg.PortalLoginURL == "" {
		cfg.PortalLoginURL = "https://tp.bitmesra.co.in/login.html"
	}

	if cfg.PortalHomePath == "" {
		cfg.PortalHomePath = "index.html"
	}

	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}

	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}

	if cfg.IntervalHours == 0 {
		cfg.IntervalHours = 1
	}

	if cfg.CycleTimeoutMins == 0 {
		cfg.CycleTimeoutMins = 10
	}

	if cfg.DataPath == "" {
		cfg.DataPath = "data"
	}

	if cfg.LogsPath == "" {
		cfg.LogsPath = "logs"
	}

	if cfg.AlertAfterFailures == 0 {
		cfg.AlertAfterFailures = 5
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}

	//Validate required fields (portal creds are checked by the watcher,
	//the API server runs without them)
	if cfg.SMTPUser == "" {
		log.Fatal("SMTP_USER is required")
	}

	if cfg.SMTPPass == "" {
		log.Fatal("SMTP_PASS is required")
	}

	return cfg
}
