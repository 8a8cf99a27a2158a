package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level nightpulse configuration.
type Config struct {
	DataDir         string   `mapstructure:"data_dir"`
	HealthExportDir string   `mapstructure:"health_export_dir"`
	UserName        string   `mapstructure:"user_name"`
	ScanDays        int      `mapstructure:"scan_days"`
	ActiveHours     Hours    `mapstructure:"active_hours"`
	Log             Log      `mapstructure:"log"`
	Channels        Channels `mapstructure:"channels"`
}

// Hours is the local-time window within which the delivery cycle may run.
type Hours struct {
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
}

// Log defines logging preferences.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Channels collects per-channel delivery settings. Loaded once per cycle
// and passed by value so a mid-cycle config edit cannot race the scan.
type Channels struct {
	Email    EmailChannel    `mapstructure:"email"`
	Telegram TelegramChannel `mapstructure:"telegram"`
	Manual   ManualChannel   `mapstructure:"manual"`
}

// EmailChannel configures SMTP delivery.
type EmailChannel struct {
	Enabled    bool   `mapstructure:"enabled"`
	Recipients string `mapstructure:"recipients"` // comma-separated
	From       string `mapstructure:"from"`
	SMTPHost   string `mapstructure:"smtp_host"`
	SMTPPort   int    `mapstructure:"smtp_port"`
	SMTPUser   string `mapstructure:"smtp_user"`
}

// TelegramChannel configures Telegram bot delivery. The bot token is a
// secret and resolved separately; see TelegramBotToken.
type TelegramChannel struct {
	Enabled bool   `mapstructure:"enabled"`
	ChatID  string `mapstructure:"chat_id"`
}

// ManualChannel configures the local share channel and its daily reminder.
type ManualChannel struct {
	Enabled      bool   `mapstructure:"enabled"`
	ReminderTime string `mapstructure:"reminder_time"` // "HH:MM"
	ShareDir     string `mapstructure:"share_dir"`
}

// RecipientList splits the comma-separated recipients, dropping blanks.
func (e EmailChannel) RecipientList() []string {
	var out []string
	for _, r := range strings.Split(e.Recipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("health_export_dir", DefaultHealthExportDir)
	v.SetDefault("user_name", "")
	v.SetDefault("scan_days", DefaultScanDays)
	v.SetDefault("active_hours.start", DefaultActiveHours.Start)
	v.SetDefault("active_hours.end", DefaultActiveHours.End)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.format", DefaultLog.Format)
	v.SetDefault("channels.email.enabled", false)
	v.SetDefault("channels.email.recipients", "")
	v.SetDefault("channels.email.from", "")
	v.SetDefault("channels.email.smtp_host", "")
	v.SetDefault("channels.email.smtp_port", DefaultSMTPPort)
	v.SetDefault("channels.email.smtp_user", "")
	v.SetDefault("channels.telegram.enabled", false)
	v.SetDefault("channels.telegram.chat_id", "")
	v.SetDefault("channels.manual.enabled", false)
	v.SetDefault("channels.manual.reminder_time", DefaultReminderTime)
	v.SetDefault("channels.manual.share_dir", DefaultShareDir)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.HealthExportDir = expandPath(cfg.HealthExportDir)
	cfg.Channels.Manual.ShareDir = expandPath(cfg.Channels.Manual.ShareDir)

	return &cfg, nil
}

// DBPath returns the full path to the SQLite database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DefaultDBName)
}

// ChartDir returns the scratch directory for generated chart images.
func (c *Config) ChartDir() string {
	return filepath.Join(c.DataDir, "charts")
}

// TelegramBotToken resolves the bot token: a Docker secret file first,
// then the environment.
func TelegramBotToken() string {
	return secret("/run/secrets/telegram_bot_token", "TELEGRAM_BOT_TOKEN")
}

// SMTPPassword resolves the SMTP password the same way.
func SMTPPassword() string {
	return secret("/run/secrets/smtp_password", "NIGHTPULSE_SMTP_PASSWORD")
}

func secret(path, envVar string) string {
	if data, err := os.ReadFile(path); err == nil {
		if s := strings.TrimSpace(string(data)); s != "" {
			return s
		}
	}
	return strings.TrimSpace(os.Getenv(envVar))
}
