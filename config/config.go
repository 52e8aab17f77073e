package config

import (
	"os"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/mcuadros/go-defaults"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/warriorguo/pipeline/catalog"
	"github.com/warriorguo/pipeline/types"
	"gopkg.in/yaml.v3"
)

const envPrefix = "PIPELINE_"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Editor  EditorConfig  `yaml:"editor"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr        string        `yaml:"addr" default:":8080"`
	ReadTimeout time.Duration `yaml:"read_timeout" default:"30s"`
	// simulated latency of GET /api/nodes
	CatalogLatency time.Duration `yaml:"catalog_latency" default:"1s"`
	Metrics        bool          `yaml:"metrics" default:"true"`
}

type EditorConfig struct {
	ProcessingDelay time.Duration `yaml:"processing_delay" default:"1500ms"`
	FailureRate     float64       `yaml:"failure_rate" default:"0.1"`
}

type CatalogConfig struct {
	URL           string        `yaml:"url" default:"http://localhost:8080"`
	Timeout       time.Duration `yaml:"timeout" default:"5s"`
	FallbackDelay time.Duration `yaml:"fallback_delay" default:"1s"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"text"`
}

func Default() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load reads path over the defaults, then applies PIPELINE_* environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, errors.Annotatef(err, "parse config %s", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, errors.Trace(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var err error
	if v, ok := lookup(envPrefix + "ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup(envPrefix + "CATALOG_URL"); ok {
		c.Catalog.URL = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(envPrefix + "METRICS"); ok {
		if c.Server.Metrics, err = cast.ToBoolE(v); err != nil {
			return errors.BadRequestf("%sMETRICS: %v", envPrefix, err)
		}
	}
	if v, ok := lookup(envPrefix + "FAILURE_RATE"); ok {
		if c.Editor.FailureRate, err = cast.ToFloat64E(v); err != nil {
			return errors.BadRequestf("%sFAILURE_RATE: %v", envPrefix, err)
		}
	}
	if v, ok := lookup(envPrefix + "PROCESSING_DELAY"); ok {
		if c.Editor.ProcessingDelay, err = cast.ToDurationE(v); err != nil {
			return errors.BadRequestf("%sPROCESSING_DELAY: %v", envPrefix, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.BadRequestf("server addr is empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.BadRequestf("log level: %v", err)
	}
	return errors.Trace(c.EditorOptions().Validate())
}

// EditorOptions converts the editor section, listeners are added by the caller.
func (c *Config) EditorOptions() *types.EditorOptions {
	opts := types.NewEditorOptions()
	opts.ProcessingDelay = c.Editor.ProcessingDelay
	opts.FailureRate = c.Editor.FailureRate
	return opts
}

func (c *Config) EditorOptionFuncs() []types.EditorOption {
	return []types.EditorOption{
		types.WithProcessingDelay(c.Editor.ProcessingDelay),
		types.WithFailureRate(c.Editor.FailureRate),
	}
}

func (c *Config) CatalogOptions() *catalog.Options {
	return &catalog.Options{
		Timeout:       c.Catalog.Timeout,
		FallbackDelay: c.Catalog.FallbackDelay,
	}
}

// SetupLogging configures the process-wide logrus logger.
func (c *Config) SetupLogging() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(c.Log.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
