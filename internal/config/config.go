package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Forecast ForecastConfig `yaml:"forecast" envconfig:"FORECAST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	RawFile string `yaml:"raw_file" envconfig:"RAW_FILE" default:"raw/BMW_Worldwide_Sales_Records_2010_2024.csv" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// PipelineConfig contains pipeline behavior configuration
type PipelineConfig struct {
	ReferenceYear int  `yaml:"reference_year" envconfig:"REFERENCE_YEAR" default:"2024" validate:"min=2010"`
	RenderCharts  bool `yaml:"render_charts" envconfig:"RENDER_CHARTS" default:"true"`
}

// ForecastConfig contains forecast stage configuration
type ForecastConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"false"`
	Horizon int     `yaml:"horizon" envconfig:"HORIZON" default:"3" validate:"min=1,max=10"`
	Alpha   float64 `yaml:"alpha" envconfig:"ALPHA" default:"0.5" validate:"gt=0,lte=1"`
	Beta    float64 `yaml:"beta" envconfig:"BETA" default:"0.3" validate:"gt=0,lte=1"`
	Gamma   float64 `yaml:"gamma" envconfig:"GAMMA" default:"0.2" validate:"gte=0,lte=1"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
func Load() (*Config, error) {
	return LoadWithFile(getConfigFilePath())
}

// LoadWithFile loads configuration, reading the given YAML file if it exists.
func LoadWithFile(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("BMW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.RawFile == "" {
		envConfig.Paths.RawFile = fileConfig.Paths.RawFile
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if envConfig.Pipeline.ReferenceYear == 0 {
		envConfig.Pipeline.ReferenceYear = fileConfig.Pipeline.ReferenceYear
	}
	if envConfig.Forecast.Horizon == 0 {
		envConfig.Forecast.Horizon = fileConfig.Forecast.Horizon
	}
	if envConfig.Forecast.Alpha == 0 {
		envConfig.Forecast.Alpha = fileConfig.Forecast.Alpha
	}
	if envConfig.Forecast.Beta == 0 {
		envConfig.Forecast.Beta = fileConfig.Forecast.Beta
	}
	if envConfig.Forecast.Gamma == 0 {
		envConfig.Forecast.Gamma = fileConfig.Forecast.Gamma
	}
	if fileConfig.Forecast.Enabled {
		envConfig.Forecast.Enabled = true
	}
	return envConfig
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// getConfigFilePath returns the default config file location, overridable
// via BMW_CONFIG_FILE.
func getConfigFilePath() string {
	if path := os.Getenv("BMW_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
