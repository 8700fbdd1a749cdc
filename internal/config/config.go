// Package config manages application configuration from default values,
// an optional config.yaml file, and BOT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components
// of the bot: logging, Telegram transport, the external analyzer, the usage
// counters, the request journal, and scheduled tasks.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// TelegramConfig holds the bot token, the administrator identity, and the
// user-facing texts. The administrator is the only user allowed to read the
// usage statistics and is the destination for relayed feedback.
type TelegramConfig struct {
	Token       string   `mapstructure:"token"    validate:"required"`
	AdminUserID int64    `mapstructure:"admin_id" validate:"required,gt=0"`
	Messages    Messages `mapstructure:"messages"`
	Buttons     Buttons  `mapstructure:"buttons"`
}

// Messages defines the configurable reply texts. Welcome and ResultHeader are
// format strings with a single %s verb (sender name and submitted domain).
type Messages struct {
	Welcome       string `mapstructure:"welcome"        validate:"required"`
	DomainPrompt  string `mapstructure:"domain_prompt"  validate:"required"`
	FeedbackAck   string `mapstructure:"feedback_ack"   validate:"required"`
	StatsDenied   string `mapstructure:"stats_denied"   validate:"required"`
	Unauthorized  string `mapstructure:"unauthorized"   validate:"required"`
	InvalidDomain string `mapstructure:"invalid_domain" validate:"required"`
	Working       string `mapstructure:"working"        validate:"required"`
	ResultHeader  string `mapstructure:"result_header"  validate:"required"`
	GeneralError  string `mapstructure:"general_error"  validate:"required"`
}

// Buttons defines the main keyboard labels. The labels double as the literal
// match targets for intent classification, so keyboard construction and the
// router always agree on them.
type Buttons struct {
	CheckDomain string `mapstructure:"check_domain" validate:"required"`
	Feedback    string `mapstructure:"feedback"     validate:"required"`
	Stats       string `mapstructure:"stats"        validate:"required"`
}

// AnalyzerConfig describes the external permutation scanner invocation.
type AnalyzerConfig struct {
	Command          string        `mapstructure:"command"           validate:"required"`
	PermutationLimit int           `mapstructure:"permutation_limit" validate:"min=1"`
	Timeout          time.Duration `mapstructure:"timeout"           validate:"min=1s,max=30m"`
}

// StatsConfig locates the flat usage-counter file.
type StatsConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// DatabaseConfig locates the request journal and controls its retention.
type DatabaseConfig struct {
	Path          string `mapstructure:"path"           validate:"required"`
	RetentionDays int    `mapstructure:"retention_days" validate:"min=1"`
}

// TaskConfig enables a named scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file (optional)
// 3. BOT_* environment variables
func Load() (*Config, error) {
	setDefaults()

	if err := readConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// readConfig initializes viper; a missing config file is not an error.
func readConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	viper.SetDefault("telegram.messages.welcome", "Привет, <b>%s</b>! Выберите действие:")
	viper.SetDefault("telegram.messages.domain_prompt", "Введите доменное имя для анализа:")
	viper.SetDefault("telegram.messages.feedback_ack", "Спасибо за вашу обратную связь!")
	viper.SetDefault("telegram.messages.stats_denied", "У вас нет прав для просмотра статистики.")
	viper.SetDefault("telegram.messages.unauthorized", "У вас нет прав для выполнения этой команды.")
	viper.SetDefault("telegram.messages.invalid_domain", "Пожалуйста, введите корректное доменное имя.")
	viper.SetDefault("telegram.messages.working", "Выполняю поиск, пожалуйста, подождите...")
	viper.SetDefault("telegram.messages.result_header", "Результат анализа для: <b>%s</b>:")
	viper.SetDefault("telegram.messages.general_error", "Произошла ошибка. Пожалуйста, попробуйте позже.")

	viper.SetDefault("telegram.buttons.check_domain", "Проверить домен")
	viper.SetDefault("telegram.buttons.feedback", "Обратная связь")
	viper.SetDefault("telegram.buttons.stats", "Статистика использования")

	viper.SetDefault("analyzer.command", "dnstwist")
	viper.SetDefault("analyzer.permutation_limit", 5000)
	viper.SetDefault("analyzer.timeout", 5*time.Minute)

	viper.SetDefault("stats.path", "stats.json")

	viper.SetDefault("database.path", "journal.db")
	viper.SetDefault("database.retention_days", 90)

	viper.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"journal_cleanup": {Enabled: true, Schedule: "0 0 4 * * *"},
	})
}
