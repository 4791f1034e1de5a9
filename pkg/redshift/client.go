package redshift

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/redshiftdata"

	"github.com/ruslano69/redbridge/pkg/resilience"
	"github.com/ruslano69/redbridge/pkg/retry"
)

// DefaultPollInterval — пауза между опросами статуса выражения.
const DefaultPollInterval = 1 * time.Second

// Config описывает подключение к кластеру через Redshift Data API.
// Аутентификация: SecretArn (предпочтительно) или DbUser; без обоих
// подключение отклоняется.
type Config struct {
	ClusterIdentifier string
	Database          string
	DbUser            string
	SecretArn         string
	Region            string
	PollInterval      time.Duration
	Retry             retry.Config
	Breaker           resilience.Config
}

// Validate проверяет обязательные поля и подставляет значения по
// умолчанию.
func (c *Config) Validate() error {
	if c.ClusterIdentifier == "" {
		return fmt.Errorf("cluster identifier is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.SecretArn == "" && c.DbUser == "" {
		return &InvalidAuthError{}
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return nil
}

// Client выполняет SQL через Redshift Data API: отправка выражений,
// опрос статусов, постраничное чтение результатов.
type Client struct {
	api     DataAPI
	cfg     Config
	retryer *retry.Retryer
	breaker *resilience.Breaker
	pending []statement
}

// statement — отправленное выражение, ожидающее завершения.
type statement struct {
	id  string
	sql string
}

// New создаёт клиент поверх готовой реализации DataAPI.
func New(api DataAPI, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var retryer *retry.Retryer
	if cfg.Retry.Enabled {
		var err error
		retryer, err = retry.NewRetryer(cfg.Retry)
		if err != nil {
			return nil, fmt.Errorf("configure retry: %w", err)
		}
	}

	var breaker *resilience.Breaker
	if cfg.Breaker.Enabled {
		var err error
		breaker, err = resilience.New(cfg.Breaker)
		if err != nil {
			return nil, fmt.Errorf("configure breaker: %w", err)
		}
	}

	return &Client{api: api, cfg: cfg, retryer: retryer, breaker: breaker}, nil
}

// NewFromAWS создаёт клиент с реальным redshiftdata-клиентом из цепочки
// конфигурации AWS SDK (env, shared config, IAM role).
func NewFromAWS(ctx context.Context, cfg Config, optFns ...func(*awsconfig.LoadOptions) error) (*Client, error) {
	if cfg.Region != "" {
		optFns = append([]func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}, optFns...)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(redshiftdata.NewFromConfig(awsCfg), cfg)
}

// WithStaticCredentials возвращает опцию для NewFromAWS с явной парой
// ключей вместо цепочки провайдеров.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) func(*awsconfig.LoadOptions) error {
	return awsconfig.WithCredentialsProvider(
		credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken))
}

// Database возвращает имя базы из конфигурации.
func (c *Client) Database() string { return c.cfg.Database }

// Pending возвращает число отправленных и ещё не подтверждённых
// выражений.
func (c *Client) Pending() int { return len(c.pending) }
