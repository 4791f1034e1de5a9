package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ruslano69/redbridge/pkg/notify"
	"github.com/ruslano69/redbridge/pkg/redshift"
	"github.com/ruslano69/redbridge/pkg/resilience"
	"github.com/ruslano69/redbridge/pkg/resultlog"
	"github.com/ruslano69/redbridge/pkg/retry"
	"github.com/ruslano69/redbridge/pkg/s3stage"
)

// Config represents the main configuration structure
type Config struct {
	Cluster      string        `yaml:"cluster"`                    // Cluster identifier
	Database     string        `yaml:"database"`                   // Database name
	DbUser       string        `yaml:"db_user,omitempty"`          // Temporary-credentials user
	SecretArn    string        `yaml:"secret_arn,omitempty"`       // Secrets Manager ARN (preferred over db_user)
	Region       string        `yaml:"region,omitempty"`           // AWS region
	PollInterval int           `yaml:"poll_interval_ms,omitempty"` // Statement poll interval in milliseconds
	DumpDir      string        `yaml:"dump_dir,omitempty"`         // Directory for failed statement dumps
	Stage        StageConfig   `yaml:"stage,omitempty"`
	Redis        RedisConfig   `yaml:"redis,omitempty"`
	Notify       NotifyConfig  `yaml:"notify,omitempty"`
	Retry        RetryConfig   `yaml:"retry,omitempty"`
	Breaker      BreakerConfig `yaml:"breaker,omitempty"`
}

// StageConfig contains S3 staging settings for the COPY load path
type StageConfig struct {
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix,omitempty"`
	IAMRole string `yaml:"iam_role"`
	Region  string `yaml:"region,omitempty"`
}

// RedisConfig contains result publishing settings
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	TTL      int    `yaml:"ttl,omitempty"` // State key TTL in seconds
}

// NotifyConfig contains load event broker settings
type NotifyConfig struct {
	Type     string   `yaml:"type"`               // kafka, rabbitmq
	Brokers  []string `yaml:"brokers,omitempty"`  // Kafka broker addresses
	Topic    string   `yaml:"topic,omitempty"`    // Kafka topic
	Host     string   `yaml:"host,omitempty"`     // RabbitMQ host
	Port     int      `yaml:"port,omitempty"`     // RabbitMQ port
	User     string   `yaml:"user,omitempty"`     // RabbitMQ user
	Password string   `yaml:"password,omitempty"` // RabbitMQ password
	Queue    string   `yaml:"queue,omitempty"`    // RabbitMQ queue
	VHost    string   `yaml:"vhost,omitempty"`    // RabbitMQ vhost
	UseTLS   bool     `yaml:"use_tls,omitempty"`  // amqps:// for RabbitMQ
	Durable  bool     `yaml:"durable,omitempty"`  // Durable RabbitMQ queue
}

// RetryConfig for retry mechanism settings
type RetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MaxAttempts int    `yaml:"max_attempts"`
	Strategy    string `yaml:"strategy"` // constant, linear, exponential
	InitialWait int    `yaml:"initial_wait_ms"`
	MaxWait     int    `yaml:"max_wait_ms"`
	Jitter      bool   `yaml:"jitter"`
}

// BreakerConfig for the Data API circuit breaker
type BreakerConfig struct {
	Enabled          bool `yaml:"enabled"`
	MaxFailures      int  `yaml:"max_failures"`
	OpenTimeout      int  `yaml:"open_timeout_ms"`
	SuccessThreshold int  `yaml:"success_threshold,omitempty"`
}

// LoadConfig loads configuration from YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to YAML file
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateSampleConfig creates a sample configuration with sensible defaults
func CreateSampleConfig() *Config {
	return &Config{
		Cluster:      "my-cluster",
		Database:     "dev",
		DbUser:       "awsuser",
		Region:       "us-east-1",
		PollInterval: 1000,
		DumpDir:      "./dump",
		Stage: StageConfig{
			Bucket:  "my-staging-bucket",
			Prefix:  "redbridge/",
			IAMRole: "arn:aws:iam::123456789012:role/RedshiftCopy",
		},
		Retry: RetryConfig{
			Enabled:     true,
			MaxAttempts: 3,
			Strategy:    "exponential",
			InitialWait: 1000,
			MaxWait:     30000,
			Jitter:      true,
		},
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxFailures: 5,
			OpenTimeout: 30000,
		},
	}
}

// RedshiftConfig builds the executor configuration
func (c *Config) RedshiftConfig() redshift.Config {
	return redshift.Config{
		ClusterIdentifier: c.Cluster,
		Database:          c.Database,
		DbUser:            c.DbUser,
		SecretArn:         c.SecretArn,
		Region:            c.Region,
		PollInterval:      time.Duration(c.PollInterval) * time.Millisecond,
		Retry:             c.RetryerConfig(),
		Breaker:           c.BreakerSettings(),
	}
}

// RetryerConfig builds the retry configuration
func (c *Config) RetryerConfig() retry.Config {
	cfg := retry.DefaultConfig()
	if !c.Retry.Enabled {
		return cfg
	}
	cfg.Enabled = true
	if c.Retry.MaxAttempts > 0 {
		cfg.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.Strategy != "" {
		cfg.BackoffStrategy = retry.BackoffStrategy(c.Retry.Strategy)
	}
	if c.Retry.InitialWait > 0 {
		cfg.InitialDelay = time.Duration(c.Retry.InitialWait) * time.Millisecond
	}
	if c.Retry.MaxWait > 0 {
		cfg.MaxDelay = time.Duration(c.Retry.MaxWait) * time.Millisecond
	}
	if !c.Retry.Jitter {
		cfg.Jitter = 0
	}
	if c.DumpDir != "" {
		cfg.Dump.Enabled = true
		cfg.Dump.Directory = c.DumpDir
	}
	return cfg
}

// BreakerSettings builds the circuit breaker configuration
func (c *Config) BreakerSettings() resilience.Config {
	cfg := resilience.DefaultConfig()
	if !c.Breaker.Enabled {
		return cfg
	}
	cfg.Enabled = true
	if c.Breaker.MaxFailures > 0 {
		cfg.MaxFailures = c.Breaker.MaxFailures
	}
	if c.Breaker.OpenTimeout > 0 {
		cfg.OpenTimeout = time.Duration(c.Breaker.OpenTimeout) * time.Millisecond
	}
	if c.Breaker.SuccessThreshold > 0 {
		cfg.SuccessThreshold = c.Breaker.SuccessThreshold
	}
	return cfg
}

// StageConfigFor builds the S3 staging configuration; the stage region
// falls back to the cluster region.
func (c *Config) StageConfigFor() s3stage.Config {
	region := c.Stage.Region
	if region == "" {
		region = c.Region
	}
	return s3stage.Config{
		Bucket:  c.Stage.Bucket,
		Prefix:  c.Stage.Prefix,
		IAMRole: c.Stage.IAMRole,
		Region:  region,
	}
}

// ResultLogConfig builds the Redis publisher configuration
func (c *Config) ResultLogConfig() resultlog.Config {
	return resultlog.Config{
		Address:  c.Redis.Address,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TTL:      c.Redis.TTL,
	}
}

// NotifierConfig builds the event broker configuration
func (c *Config) NotifierConfig() notify.Config {
	return notify.Config{
		Type:     c.Notify.Type,
		Brokers:  c.Notify.Brokers,
		Topic:    c.Notify.Topic,
		Host:     c.Notify.Host,
		Port:     c.Notify.Port,
		User:     c.Notify.User,
		Password: c.Notify.Password,
		Queue:    c.Notify.Queue,
		VHost:    c.Notify.VHost,
		UseTLS:   c.Notify.UseTLS,
		Durable:  c.Notify.Durable,
	}
}
