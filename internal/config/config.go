package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all tool settings, populated from environment variables and
// optionally overridden by command-line flags.
type Config struct {
	DataPath    string
	Year        string
	Column      string
	SchemesPath string
	OutputPath  string

	HistogramBins int
	HeatmapBins   int
	TopN          int

	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	MetricsTextfile string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	histogramBins, err := parseIntInRange("HISTOGRAM_BINS", 20, 1, 500)
	if err != nil {
		return nil, err
	}
	heatmapBins, err := parseIntInRange("HEATMAP_BINS", 10, 1, 100)
	if err != nil {
		return nil, err
	}
	topN, err := parseIntInRange("TOP_N", 10, 1, 1000)
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid KAFKA_ENABLED %q", v)
		}
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("DATA_PATH", "data/data.csv"),
		Year:            sharedcfg.EnvOrDefault("YEAR", "all"),
		Column:          sharedcfg.EnvOrDefault("COLUMN", "mag"),
		SchemesPath:     os.Getenv("SCHEMES_PATH"),
		OutputPath:      os.Getenv("OUTPUT_PATH"),
		HistogramBins:   histogramBins,
		HeatmapBins:     heatmapBins,
		TopN:            topN,
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "seismic-dashboards"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints. It is run by Load and again after
// flag overrides are applied.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("DATA_PATH is required")
	}
	if c.HistogramBins < 1 || c.HistogramBins > 500 {
		return fmt.Errorf("HISTOGRAM_BINS must be between 1 and 500, got %d", c.HistogramBins)
	}
	if c.HeatmapBins < 1 || c.HeatmapBins > 100 {
		return fmt.Errorf("HEATMAP_BINS must be between 1 and 100, got %d", c.HeatmapBins)
	}
	if c.TopN < 1 {
		return fmt.Errorf("TOP_N must be positive, got %d", c.TopN)
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if c.KafkaSinkTopic == "" {
			return errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}
	return nil
}

func parseIntInRange(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s %q: must be an integer between %d and %d", key, s, lo, hi)
	}
	return n, nil
}
