package config

import (
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/tasks-dev/tasks/shared/utils"
)

const DefaultThreadName = "Daily"

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	ListenAddr     string        `yaml:"listen_addr" validate:"required"`
	ApiBaseURL     string        `yaml:"api_base_url" validate:"required,url"`
	ApiTimeout     time.Duration `yaml:"api_timeout"`
	DefaultThread  string        `yaml:"default_thread" validate:"required"`
	CorsOrigins    []string      `yaml:"cors_origins"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl" validate:"gt=0"` // stores untouched for this long are evicted
	SweepInterval  time.Duration `yaml:"sweep_interval" validate:"gt=0"`
	RedisURL       string        `yaml:"redis_url"`      // empty keeps thread pointers in memory
	TokenPageURL   string        `yaml:"token_page_url"` // page carrying csrfmiddlewaretoken, optional
	ActionRate     float64       `yaml:"action_rate"`    // changes per second per session, 0 disables limiting
	ActionBurst    float64       `yaml:"action_burst"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
}

type Private struct {
	SessionSecret string `yaml:"session_secret" validate:"required,min=16"`
	ApiToken      string `yaml:"api_token"`
}

func (s *Config) SessionSecret() string {
	return s.private.SessionSecret
}

func (s *Config) ApiToken() string {
	return s.private.ApiToken
}

// Defaults returns the configuration used when a file leaves a field empty.
func Defaults() Public {
	return Public{
		ListenAddr:     ":8081",
		ApiBaseURL:     "http://localhost:8000",
		ApiTimeout:     10 * time.Second,
		DefaultThread:  DefaultThreadName,
		SessionTTL:     30 * 24 * time.Hour,
		SessionIdleTTL: 2 * time.Hour,
		SweepInterval:  5 * time.Minute,
		ActionRate:     5,
		ActionBurst:    20,
		LogLevel:       "info",
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// environment overrides and validates the result. It panics on any problem.
func MustLoad(configFolder string) *Config {
	public := Defaults()
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}

// New builds a config without files, for tools and tests.
func New(public Public, private Private) *Config {
	return &Config{public, private}
}

func (s *Config) Validate() error {
	if err := utils.Validate(s.Public); err != nil {
		return err
	}
	return utils.Validate(s.private)
}

func (s *Config) applyEnv() {
	s.Public.ListenAddr = getenv("FRONTEND_ADDR", s.Public.ListenAddr)
	s.Public.ApiBaseURL = getenv("TASKS_API_URL", s.Public.ApiBaseURL)
	s.Public.RedisURL = getenv("REDIS_URL", s.Public.RedisURL)
	s.Public.LogLevel = getenv("LOG_LEVEL", s.Public.LogLevel)
	s.Public.SecureCookies = getenvBool("SECURE_COOKIES", s.Public.SecureCookies)
	s.private.SessionSecret = getenv("SESSION_SECRET", s.private.SessionSecret)
	s.private.ApiToken = getenv("TASKS_API_TOKEN", s.private.ApiToken)
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
