package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ruslano69/redbridge/pkg/retry"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	original := CreateSampleConfig()
	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Cluster != original.Cluster {
		t.Errorf("cluster = %q, want %q", loaded.Cluster, original.Cluster)
	}
	if loaded.Stage.Bucket != original.Stage.Bucket {
		t.Errorf("stage bucket = %q", loaded.Stage.Bucket)
	}
	if loaded.Retry.MaxAttempts != 3 {
		t.Errorf("retry attempts = %d", loaded.Retry.MaxAttempts)
	}
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `cluster: prod-cluster
database: analytics
secret_arn: arn:aws:secretsmanager:us-east-1:123456789012:secret:rs
region: eu-west-1
poll_interval_ms: 250
dump_dir: /var/tmp/redbridge
stage:
  bucket: etl-stage
  prefix: loads/
  iam_role: arn:aws:iam::123456789012:role/copy
redis:
  address: localhost:6379
  ttl: 3600
notify:
  type: kafka
  brokers: [localhost:9092]
  topic: loads
retry:
  enabled: true
  max_attempts: 5
  strategy: linear
  initial_wait_ms: 200
  max_wait_ms: 5000
  jitter: true
breaker:
  enabled: true
  max_failures: 4
  open_timeout_ms: 10000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	rcfg := config.RedshiftConfig()
	if rcfg.ClusterIdentifier != "prod-cluster" || rcfg.Database != "analytics" {
		t.Errorf("redshift config = %+v", rcfg)
	}
	if rcfg.SecretArn == "" {
		t.Error("secret arn lost")
	}
	if rcfg.PollInterval != 250*time.Millisecond {
		t.Errorf("poll interval = %v", rcfg.PollInterval)
	}
	if !rcfg.Retry.Enabled || rcfg.Retry.MaxAttempts != 5 {
		t.Errorf("retry = %+v", rcfg.Retry)
	}
	if rcfg.Retry.BackoffStrategy != retry.BackoffLinear {
		t.Errorf("strategy = %v", rcfg.Retry.BackoffStrategy)
	}
	if rcfg.Retry.InitialDelay != 200*time.Millisecond {
		t.Errorf("initial delay = %v", rcfg.Retry.InitialDelay)
	}
	if !rcfg.Retry.Dump.Enabled || rcfg.Retry.Dump.Directory != "/var/tmp/redbridge" {
		t.Errorf("dump = %+v", rcfg.Retry.Dump)
	}
	if !rcfg.Breaker.Enabled || rcfg.Breaker.MaxFailures != 4 {
		t.Errorf("breaker = %+v", rcfg.Breaker)
	}
	if rcfg.Breaker.OpenTimeout != 10*time.Second {
		t.Errorf("breaker open timeout = %v", rcfg.Breaker.OpenTimeout)
	}

	scfg := config.StageConfigFor()
	if scfg.Bucket != "etl-stage" || scfg.IAMRole == "" {
		t.Errorf("stage config = %+v", scfg)
	}
	if scfg.Region != "eu-west-1" {
		t.Errorf("stage region should fall back to cluster region, got %q", scfg.Region)
	}

	ncfg := config.NotifierConfig()
	if ncfg.Type != "kafka" || len(ncfg.Brokers) != 1 || ncfg.Topic != "loads" {
		t.Errorf("notify config = %+v", ncfg)
	}

	lcfg := config.ResultLogConfig()
	if lcfg.Address != "localhost:6379" || lcfg.TTL != 3600 {
		t.Errorf("resultlog config = %+v", lcfg)
	}
}

func TestRetryerConfigDisabled(t *testing.T) {
	config := &Config{Retry: RetryConfig{Enabled: false}}
	rcfg := config.RetryerConfig()
	if rcfg.Enabled {
		t.Error("retry should stay disabled")
	}
}

func TestBreakerSettingsDisabled(t *testing.T) {
	config := &Config{Breaker: BreakerConfig{Enabled: false, MaxFailures: 9}}
	bcfg := config.BreakerSettings()
	if bcfg.Enabled {
		t.Error("breaker should stay disabled")
	}
}
