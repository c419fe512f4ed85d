// Package config loads service configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dd0wney/cluso-graphclass/pkg/classifier"
	"github.com/dd0wney/cluso-graphclass/pkg/gnn"
	"github.com/dd0wney/cluso-graphclass/pkg/logging"
	"github.com/dd0wney/cluso-graphclass/pkg/validation"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Model      ModelConfig      `yaml:"model"`
	Classifier ClassifierConfig `yaml:"classifier"`
	CORS       CORSConfig       `yaml:"cors"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	EnableGraphQL   bool          `yaml:"enable_graphql"`
}

// ModelConfig says where to load weights from
type ModelConfig struct {
	// Path is a local file or s3://bucket/key; a .snappy suffix means
	// compressed
	Path string        `yaml:"path"`
	S3   gnn.S3Options `yaml:"s3"`
}

// ClassifierConfig bounds and shapes classification requests
type ClassifierConfig struct {
	EdgeDirection string `yaml:"edge_direction"`
	MaxNodes      int    `yaml:"max_nodes"`
	MaxEdges      int    `yaml:"max_edges"`
}

// CORSConfig lists browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAge         int      `yaml:"max_age"`
}

// LoggingConfig sets the log level
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given. CORS is
// open to every origin so browser front-ends work out of the box.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    10 << 20,
			EnableGraphQL:   true,
		},
		Model: ModelConfig{
			Path: "gnn_model.json",
		},
		Classifier: ClassifierConfig{
			EdgeDirection: string(classifier.Directed),
			MaxNodes:      validation.DefaultMaxNodes,
			MaxEdges:      validation.DefaultMaxEdges,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         86400,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PORT, MODEL_PATH, CORS_ALLOWED_ORIGINS,
// LOG_LEVEL, EDGE_DIRECTION, MAX_NODES and MAX_EDGES.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("MODEL_PATH"); ok && v != "" {
		c.Model.Path = v
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup("EDGE_DIRECTION"); ok && v != "" {
		c.Classifier.EdgeDirection = v
	}
	for name, dst := range map[string]*int{"MAX_NODES": &c.Classifier.MaxNodes, "MAX_EDGES": &c.Classifier.MaxEdges} {
		if v, ok := lookup(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
		}
	}
	return nil
}

// Validate checks every section and reports all failures together
func (c *Config) Validate() error {
	return validation.NewConfigValidator("config").
		RangeInt("server.port", c.Server.Port, 1, 65535).
		MinDuration("server.read_timeout", c.Server.ReadTimeout, time.Millisecond).
		MinDuration("server.write_timeout", c.Server.WriteTimeout, time.Millisecond).
		MinDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, time.Millisecond).
		PositiveInt64("server.max_body_bytes", c.Server.MaxBodyBytes).
		Required("model.path", c.Model.Path).
		OneOf("classifier.edge_direction", c.Classifier.EdgeDirection,
			[]string{string(classifier.Directed), string(classifier.Undirected)}).
		Positive("classifier.max_nodes", c.Classifier.MaxNodes).
		Positive("classifier.max_edges", c.Classifier.MaxEdges).
		NonNegative("cors.max_age", c.CORS.MaxAge).
		Custom("logging.level", func() error {
			_, err := logging.LookupLevel(c.Logging.Level)
			return err
		}).
		Validate()
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// ClassifierOptions converts the classifier section
func (c *Config) ClassifierOptions() classifier.Options {
	return classifier.Options{
		Direction: classifier.Direction(c.Classifier.EdgeDirection),
		MaxNodes:  c.Classifier.MaxNodes,
		MaxEdges:  c.Classifier.MaxEdges,
	}
}

// RequestLimits converts the classifier bounds for request validation
func (c *Config) RequestLimits() validation.Limits {
	return validation.Limits{MaxNodes: c.Classifier.MaxNodes, MaxEdges: c.Classifier.MaxEdges}
}

// AllowsAnyOrigin reports whether CORS is open to every origin
func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.CORS.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
