package s3stage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"github.com/shopspring/decimal"
	"github.com/zeebo/xxh3"

	"github.com/ruslano69/redbridge/pkg/core/frame"
	"github.com/ruslano69/redbridge/pkg/core/sqlgen"
)

// Config описывает S3-стейджинг для массовой загрузки через COPY.
type Config struct {
	Bucket  string
	Prefix  string
	IAMRole string
	Region  string
}

// Uploader — узкий интерфейс загрузчика S3; его реализует
// manager.Uploader.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Runner выполняет SQL и дожидается завершения. Его реализует
// redshift.Client.
type Runner interface {
	Run(ctx context.Context, sql string) (string, error)
}

// Stage сериализует фрейм в CSV, сжимает zstd и загружает в S3 под
// content-addressed ключом. Дальше данные забирает COPY.
type Stage struct {
	up  Uploader
	cfg Config
	enc *zstd.Encoder
}

// New создаёт стейджер поверх готового загрузчика.
func New(up Uploader, cfg Config) (*Stage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("stage bucket is required")
	}
	if cfg.IAMRole == "" {
		return nil, fmt.Errorf("stage iam role is required")
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Stage{up: up, cfg: cfg, enc: enc}, nil
}

// NewFromAWS создаёт стейджер с настоящим S3-загрузчиком из цепочки
// конфигурации AWS SDK.
func NewFromAWS(ctx context.Context, cfg Config, optFns ...func(*awsconfig.LoadOptions) error) (*Stage, error) {
	if cfg.Region != "" {
		optFns = append([]func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}, optFns...)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(manager.NewUploader(s3.NewFromConfig(awsCfg)), cfg)
}

// Close освобождает ресурсы кодировщика.
func (s *Stage) Close() error {
	s.enc.Close()
	return nil
}

// Upload сериализует фрейм и кладёт объект в S3. Ключ строится из
// xxh3-хеша сжатого содержимого, поэтому одинаковые данные дают один
// и тот же объект. Возвращает URI объекта.
func (s *Stage) Upload(ctx context.Context, f *frame.Frame) (string, error) {
	raw, err := frameCSV(f)
	if err != nil {
		return "", err
	}
	compressed := s.enc.EncodeAll(raw, make([]byte, 0, len(raw)/3))

	key := fmt.Sprintf("%s%016x.csv.zst", s.cfg.Prefix, xxh3.Hash(compressed))
	_, err = s.up.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(compressed),
		ContentType: aws.String("application/zstd"),
	})
	if err != nil {
		return "", fmt.Errorf("upload stage object: %w", err)
	}
	return "s3://" + s.cfg.Bucket + "/" + key, nil
}

// CopySQL строит выражение COPY для загрузки объекта в таблицу.
func (s *Stage) CopySQL(schema, table, uri string) (string, error) {
	qualified, err := sqlgen.QualifyTable(schema, table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("COPY %s FROM '%s' IAM_ROLE '%s' FORMAT AS CSV ZSTD;",
		qualified, quoteLiteral(uri), quoteLiteral(s.cfg.IAMRole)), nil
}

// Load загружает фрейм: стейджинг в S3 и COPY через исполнитель.
// Возвращает URI загруженного объекта.
func (s *Stage) Load(ctx context.Context, runner Runner, schema, table string, f *frame.Frame) (string, error) {
	uri, err := s.Upload(ctx, f)
	if err != nil {
		return "", err
	}
	sql, err := s.CopySQL(schema, table, uri)
	if err != nil {
		return "", err
	}
	if _, err := runner.Run(ctx, sql); err != nil {
		return uri, err
	}
	return uri, nil
}

// frameCSV пишет фрейм в CSV без строки заголовка: COPY читает данные
// с первой строки. NULL представлен пустой ячейкой.
func frameCSV(f *frame.Frame) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	record := make([]string, f.Width())
	for i := 0; i < f.Len(); i++ {
		for j, v := range f.Row(i) {
			s, err := cellString(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			record[j] = s
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// cellString переводит значение ячейки в сырой текст CSV.
func cellString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case decimal.Decimal:
		return x.String(), nil
	case time.Time:
		return x.Format("2006-01-02 15:04:05"), nil
	case []byte:
		return string(x), nil
	}
	return "", fmt.Errorf("unsupported cell value %T", v)
}

func quoteLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
