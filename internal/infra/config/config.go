package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/domain/model"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"

	SourceFiles    = "files"
	SourcePostgres = "postgres"
)

// DefaultPath путь к конфигурации, если CONFIG_PATH не задан
const DefaultPath = "configs/values_example.yaml"

// Specialization направление тестирования, показывается в главном меню
type Specialization struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
}

// LevelConfig параметры одного уровня сложности
type LevelConfig struct {
	Questions       int `yaml:"questions"`
	DurationMinutes int `yaml:"duration_minutes"`
}

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	TelegramBot struct {
		Token        string        `yaml:"token"`
		Mode         string        `yaml:"mode"`
		WebhookURL   string        `yaml:"webhook_url"`
		ListenAddr   string        `yaml:"listen_addr"`
		PollInterval time.Duration `yaml:"poll_interval"`
		Debug        bool          `yaml:"debug"`
	} `yaml:"telegram_bot"`
	Questions struct {
		Source string `yaml:"source"`
		Dir    string `yaml:"dir"`
	} `yaml:"questions"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
	} `yaml:"database"`
	Stats struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"stats"`
	Specializations []Specialization       `yaml:"specializations"`
	Difficulties    map[string]LevelConfig `yaml:"difficulties"`
	Certificate     struct {
		FontDir string `yaml:"font_dir"`
	} `yaml:"certificate"`
	Events struct {
		AMQPURL  string `yaml:"amqp_url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"events"`
}

// LoadConfig читает .env (если он есть), YAML файл и применяет переопределения из окружения
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	if filename == "" {
		filename = DefaultPath
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			fmt.Println("f.Close() failed ", err)
		}
	}(f)

	config := &Config{}
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	config.applyEnv()
	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramBot.Token = token
	}
	if mode := os.Getenv("BOT_MODE"); mode != "" {
		c.TelegramBot.Mode = mode
	}
	if dsn := os.Getenv("STATS_DSN"); dsn != "" {
		c.Stats.DSN = dsn
	}
	if debug := os.Getenv("DEBUG"); debug != "" {
		c.TelegramBot.Debug = debug == "true" || debug == "1"
	}
	if pi := os.Getenv("POLL_INTERVAL"); pi != "" {
		if n, err := strconv.Atoi(pi); err == nil {
			c.TelegramBot.PollInterval = time.Duration(n) * time.Second
		}
	}
}

func (c *Config) applyDefaults() {
	if c.TelegramBot.Mode == "" {
		c.TelegramBot.Mode = ModePolling
	}
	if c.TelegramBot.ListenAddr == "" {
		c.TelegramBot.ListenAddr = ":8443"
	}
	if c.TelegramBot.PollInterval <= 0 {
		c.TelegramBot.PollInterval = 2 * time.Second
	}
	if c.Questions.Source == "" {
		c.Questions.Source = SourceFiles
	}
	if c.Questions.Dir == "" {
		c.Questions.Dir = "questions"
	}
	if c.Stats.Driver == "" {
		c.Stats.Driver = "sqlite"
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = "assessment"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
}

func (c *Config) validate() error {
	if c.TelegramBot.Token == "" {
		return fmt.Errorf("telegram_bot.token is not set (TELEGRAM_BOT_TOKEN)")
	}

	switch c.TelegramBot.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.TelegramBot.WebhookURL == "" {
			return fmt.Errorf("telegram_bot.webhook_url is required in webhook mode")
		}
	default:
		return fmt.Errorf("unknown telegram_bot.mode %q", c.TelegramBot.Mode)
	}

	switch c.Questions.Source {
	case SourceFiles, SourcePostgres:
	default:
		return fmt.Errorf("unknown questions.source %q", c.Questions.Source)
	}

	for _, s := range c.Specializations {
		if strings.TrimSpace(s.Key) == "" {
			return fmt.Errorf("specialization %q has empty key", s.Title)
		}
	}

	if _, err := c.Levels(); err != nil {
		return err
	}
	return nil
}

// Levels строит таблицу уровней сложности. Без секции difficulties используются значения по умолчанию.
func (c *Config) Levels() (model.Levels, error) {
	if len(c.Difficulties) == 0 {
		return model.DefaultLevels(), nil
	}

	table := make(map[model.Difficulty]model.Level, len(c.Difficulties))
	for key, lc := range c.Difficulties {
		d, err := model.ParseDifficulty(key)
		if err != nil {
			return model.Levels{}, fmt.Errorf("difficulties: %w", err)
		}
		table[d] = model.Level{
			Questions: lc.Questions,
			Duration:  time.Duration(lc.DurationMinutes) * time.Minute,
		}
	}

	levels, err := model.NewLevels(table)
	if err != nil {
		return model.Levels{}, fmt.Errorf("difficulties: %w", err)
	}
	return levels, nil
}

// SpecializationTitle название направления по ключу
func (c *Config) SpecializationTitle(key string) string {
	for _, s := range c.Specializations {
		if s.Key == key {
			return s.Title
		}
	}
	return key
}

// PostgresDSN строка подключения к базе с банком вопросов
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// HTTPAddr адрес HTTP API
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
