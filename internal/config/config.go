package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Discord DiscordConfig
	GitHub  GitHubConfig
	Holiday HolidayConfig
	Links   LinksConfig
	UserMap map[string]string

	Location *time.Location
	HTTPAddr string
	LogLevel slog.Level
}

type DiscordConfig struct {
	Token string
}

type GitHubConfig struct {
	Token         string
	Org           string
	ProjectNumber int
	APIURL        string
}

type HolidayConfig struct {
	APIKey string
	APIURL string
}

// LinksConfig holds the deep links the bot hands out.
type LinksConfig struct {
	DailyScrum       string
	WeeklyPlanning   string
	WeeklyRetrospect string
	Notice           string
	Service          string
	Feedback         string
}

// LoadFromEnv reads .env (when present) and the process environment.
func LoadFromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return Load(v, ".env")
}

// Load reads configuration through v, after loading envFiles into the
// environment. Missing env files are ignored; values already set in the
// environment win over the files.
func Load(v *viper.Viper, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Debug("env file not loaded", "file", f, "error", err)
		}
	}

	cfg := &Config{
		Discord: DiscordConfig{
			Token: v.GetString("BOT_TOKEN"),
		},
		GitHub: GitHubConfig{
			Token:  v.GetString("GITHUB_TOKEN"),
			Org:    v.GetString("GITHUB_ORG"),
			APIURL: v.GetString("GITHUB_API_URL"),
		},
		Holiday: HolidayConfig{
			APIKey: v.GetString("API_KEY"),
			APIURL: v.GetString("HOLIDAY_API_URL"),
		},
		Links: LinksConfig{
			DailyScrum:       v.GetString("DAILY_SCRUM"),
			WeeklyPlanning:   v.GetString("WEEK_PLANNING"),
			WeeklyRetrospect: v.GetString("WEEK_RETROSPECT"),
			Notice:           v.GetString("NOTION"),
			Service:          v.GetString("SERVICE"),
			Feedback:         v.GetString("FEEDBACK"),
		},
		HTTPAddr: getOrDefault(v, "HTTP_ADDR", ":8080"),
		UserMap:  map[string]string{},
	}

	var errs []error

	if raw := strings.TrimSpace(v.GetString("GITHUB_PROJECT_ID")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("GITHUB_PROJECT_ID must be a project number: %w", err))
		}
		cfg.GitHub.ProjectNumber = n
	}

	if raw := strings.TrimSpace(v.GetString("USER_MAP")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.UserMap); err != nil {
			errs = append(errs, fmt.Errorf("USER_MAP is not a JSON object of login to user id: %w", err))
		}
	}

	loc, err := time.LoadLocation(getOrDefault(v, "TZ_NAME", "Asia/Seoul"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TZ_NAME: %w", err))
		loc = time.Local
	}
	cfg.Location = loc

	if err := cfg.LogLevel.UnmarshalText([]byte(getOrDefault(v, "LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks what every command needs: access to the project board.
func (c *Config) Validate() error {
	var missing []string
	if c.GitHub.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.GitHub.Org == "" {
		missing = append(missing, "GITHUB_ORG")
	}
	if c.GitHub.ProjectNumber <= 0 {
		missing = append(missing, "GITHUB_PROJECT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if len(c.UserMap) == 0 {
		slog.Warn("USER_MAP is empty; nobody will be checked")
	}
	return nil
}

// ValidateBot additionally requires the chat credentials.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Discord.Token == "" {
		return fmt.Errorf("missing required configuration: BOT_TOKEN")
	}
	return nil
}

func getOrDefault(v *viper.Viper, key, defaultValue string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}
