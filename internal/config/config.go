// Package config loads the application configuration from file and
// environment and initializes the global logger.
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
	Lexicon Lexicon `yaml:"lexicon" mapstructure:"lexicon"`
	Text    Text    `yaml:"text" mapstructure:"text"`
	Spatial Spatial `yaml:"spatial" mapstructure:"spatial"`
	Server  Server  `yaml:"server" mapstructure:"server"`
	Log     Log     `yaml:"log" mapstructure:"log"`
}

// Lexicon points at operator-supplied language resources. Empty paths use
// the embedded defaults; a non-empty path that cannot be read aborts startup.
type Lexicon struct {
	StopwordsPath  string `yaml:"stopwords_path" mapstructure:"stopwords_path"`
	LemmasPath     string `yaml:"lemmas_path" mapstructure:"lemmas_path"`
	ContextDict    string `yaml:"context_dict" mapstructure:"context_dict"`
	ModalityDict   string `yaml:"modality_dict" mapstructure:"modality_dict"`
	TimeWindowDict string `yaml:"time_window_dict" mapstructure:"time_window_dict"`
}

// Text configures the text cluster engine.
type Text struct {
	Clusters int   `yaml:"clusters" mapstructure:"clusters"`
	TopTerms int   `yaml:"top_terms" mapstructure:"top_terms"`
	Seed     int64 `yaml:"seed" mapstructure:"seed"`
}

// Spatial configures the spatial cluster engine.
type Spatial struct {
	MinSamples           int     `yaml:"min_samples" mapstructure:"min_samples"`
	Clusters             int     `yaml:"clusters" mapstructure:"clusters"`
	ElbowMaxK            int     `yaml:"elbow_max_k" mapstructure:"elbow_max_k"`
	ReachabilityQuantile float64 `yaml:"reachability_quantile" mapstructure:"reachability_quantile"`
	Seed                 int64   `yaml:"seed" mapstructure:"seed"`
}

// Server configures the read-only data API.
type Server struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RUIDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("text.clusters", 6)
	v.SetDefault("text.top_terms", 10)
	v.SetDefault("text.seed", 42)
	v.SetDefault("spatial.min_samples", 15)
	v.SetDefault("spatial.clusters", 4)
	v.SetDefault("spatial.elbow_max_k", 10)
	v.SetDefault("spatial.reachability_quantile", 0.75)
	v.SetDefault("spatial.seed", 42)

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
func InitLogger(cfg Log) error {
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
