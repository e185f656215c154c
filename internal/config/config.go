package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Match   MatchConfig   `yaml:"match" mapstructure:"match"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	RAWG    RAWGConfig    `yaml:"rawg" mapstructure:"rawg"`
	Clean   CleanConfig   `yaml:"clean" mapstructure:"clean"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// MatchConfig configures the fuzzy join.
type MatchConfig struct {
	// Threshold is the acceptance floor on the 0..100 scale.
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
	// MinScore is the floor below which the finder reports no candidate.
	MinScore  float64 `yaml:"min_score" mapstructure:"min_score"`
	Scorer    string  `yaml:"scorer" mapstructure:"scorer"`
	Normalize bool    `yaml:"normalize" mapstructure:"normalize"`
	Workers   int     `yaml:"workers" mapstructure:"workers"`
}

// PathsConfig names the files each stage reads and writes.
type PathsConfig struct {
	Source     string `yaml:"source" mapstructure:"source"`
	Sales      string `yaml:"sales" mapstructure:"sales"`
	Ratings    string `yaml:"ratings" mapstructure:"ratings"`
	Output     string `yaml:"output" mapstructure:"output"`
	RawSource  string `yaml:"raw_source" mapstructure:"raw_source"`
	RawRatings string `yaml:"raw_ratings" mapstructure:"raw_ratings"`
}

// ExtractConfig holds the download locations of the upstream datasets.
type ExtractConfig struct {
	SheetURL  string `yaml:"sheet_url" mapstructure:"sheet_url"`
	SalesURL  string `yaml:"sales_url" mapstructure:"sales_url"`
	SalesFile string `yaml:"sales_file" mapstructure:"sales_file"`
}

// RAWGConfig holds RAWG API settings.
type RAWGConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	MaxPages    int    `yaml:"max_pages" mapstructure:"max_pages"`
	SamplePages int    `yaml:"sample_pages" mapstructure:"sample_pages"`
	PageSize    int    `yaml:"page_size" mapstructure:"page_size"`
	Seed        uint64 `yaml:"seed" mapstructure:"seed"`
	MaxFailures int    `yaml:"max_failures" mapstructure:"max_failures"`
}

// CleanConfig points at an optional YAML file of cleaning profiles.
type CleanConfig struct {
	Profile string `yaml:"profile" mapstructure:"profile"`
}

// StoreConfig configures the run history backend. An empty driver disables it.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the lookup server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultSheetURL is the published curated spreadsheet.
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/1AVTZPJij5PQmlWAkYdDahBrxDiwqWMGsWEcEnpdKTa4/edit?gid=0"

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GAMEJOIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("match.threshold", 80)
	v.SetDefault("match.min_score", 60)
	v.SetDefault("match.scorer", "ratio")
	v.SetDefault("match.normalize", false)
	v.SetDefault("match.workers", 0)
	v.SetDefault("paths.source", "clean_woke_content_detector.csv")
	v.SetDefault("paths.sales", "videogame_sales.csv")
	v.SetDefault("paths.ratings", "clean_rawg_video_games.csv")
	v.SetDefault("paths.output", "combined_video_game_data.csv")
	v.SetDefault("paths.raw_source", "woke_content_detector_full.csv")
	v.SetDefault("paths.raw_ratings", "rawg_video_games.csv")
	v.SetDefault("extract.sheet_url", DefaultSheetURL)
	v.SetDefault("extract.sales_url", "")
	v.SetDefault("extract.sales_file", "vgsales.csv")
	v.SetDefault("rawg.key", "")
	v.SetDefault("rawg.base_url", "https://api.rawg.io/api")
	v.SetDefault("rawg.max_pages", 50)
	v.SetDefault("rawg.sample_pages", 10)
	v.SetDefault("rawg.page_size", 40)
	v.SetDefault("rawg.seed", 0)
	v.SetDefault("rawg.max_failures", 3)
	v.SetDefault("clean.profile", "")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
