package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	app "vegcheck/internal/application"
	"vegcheck/internal/domain/entity"
)

// Config настройки сервиса. Источники по возрастанию приоритета:
// значения по умолчанию, YAML-файл из CONFIG_FILE, переменные окружения (.env тоже).
type Config struct {
	HTTPAddr       string   `yaml:"httpAddr"`
	ModelPath      string   `yaml:"modelPath"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	TelegramToken  string   `yaml:"telegramToken"`
	Workers        int      `yaml:"workers"`

	Pipeline struct {
		ColorMode     string `yaml:"colorMode"`
		Preprocessing string `yaml:"preprocessing"`
		TargetSize    int    `yaml:"targetSize"`
		BlurKind      string `yaml:"blurKind"`
		BlurKernel    int    `yaml:"blurKernel"`
	} `yaml:"pipeline"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// DefaultConfig значения по умолчанию.
func DefaultConfig() *Config {
	cfg := &Config{
		HTTPAddr:       ":8000",
		ModelPath:      "models/model.yaml",
		AllowedOrigins: []string{"*"},
		Workers:        runtime.NumCPU(),
	}

	defaults := app.DefaultExtractorOptions()
	cfg.Pipeline.ColorMode = string(defaults.ColorMode)
	cfg.Pipeline.Preprocessing = string(defaults.Preprocessing)
	cfg.Pipeline.TargetSize = defaults.Normalize.TargetSize
	cfg.Pipeline.BlurKind = string(defaults.Normalize.Blur)
	cfg.Pipeline.BlurKernel = defaults.Normalize.KernelSize

	cfg.Log.Level = "info"
	return cfg
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg, err := LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile читает YAML поверх значений по умолчанию. Пустой путь или
// отсутствующий файл дают значения по умолчанию.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("HTTP_ADDR", &c.HTTPAddr)
	str("MODEL_PATH", &c.ModelPath)
	str("TELEGRAM_TOKEN", &c.TelegramToken)
	str("COLOR_MODE", &c.Pipeline.ColorMode)
	str("PREPROCESSING_MODE", &c.Pipeline.Preprocessing)
	str("BLUR_KIND", &c.Pipeline.BlurKind)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.AllowedOrigins = splitOrigins(v)
	}

	for key, dst := range map[string]*int{
		"BLUR_KERNEL": &c.Pipeline.BlurKernel,
		"TARGET_SIZE": &c.Pipeline.TargetSize,
		"WORKERS":     &c.Workers,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func splitOrigins(v string) []string {
	var origins []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate проверяет настройки конвейера и сервера.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.ModelPath == "" {
		return errors.New("MODEL_PATH is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := c.ExtractorOptions(); err != nil {
		return err
	}
	return nil
}

// ExtractorOptions параметры конвейера признаков.
func (c *Config) ExtractorOptions() (app.ExtractorOptions, error) {
	color, err := entity.ParseColorMode(c.Pipeline.ColorMode)
	if err != nil {
		return app.ExtractorOptions{}, err
	}
	mode, err := entity.ParsePreprocessingMode(c.Pipeline.Preprocessing)
	if err != nil {
		return app.ExtractorOptions{}, err
	}
	blur, err := entity.ParseBlurKind(c.Pipeline.BlurKind)
	if err != nil {
		return app.ExtractorOptions{}, err
	}

	opts := app.ExtractorOptions{
		ColorMode:     color,
		Preprocessing: mode,
		Normalize: entity.NormalizeParams{
			TargetSize: c.Pipeline.TargetSize,
			Blur:       blur,
			KernelSize: c.Pipeline.BlurKernel,
		},
	}
	if err := opts.Validate(); err != nil {
		return app.ExtractorOptions{}, err
	}
	return opts, nil
}
