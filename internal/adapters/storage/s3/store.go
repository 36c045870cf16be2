// Package s3 guarda el snapshot como un único objeto JSON en un bucket S3 (o compatible, p.ej. MinIO).
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"medication-reminder/internal/ports/persistence"
)

const DefaultKey = "medication_data.json"

// API es el subconjunto del cliente S3 que usa el store.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Region          string
	Bucket          string
	Key             string
	Endpoint        string // opcional (MinIO, localstack)
	AccessKeyID     string // opcional
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

type Store struct {
	client API
	bucket string
	key    string
}

// New arma el cliente con la cadena de credenciales por defecto, salvo que
// cfg traiga credenciales estáticas.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

func NewWithClient(client API, bucket, key string) *Store {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	return &Store{client: client, bucket: bucket, key: key}
}

func (s *Store) Load(ctx context.Context) (persistence.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		var nsk *types.NoSuchKey
		var nf *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nf) {
			return persistence.Snapshot{}, persistence.ErrNotFound
		}
		return persistence.Snapshot{}, fmt.Errorf("get object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("read object: %w", err)
	}
	var snap persistence.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap.Normalize(), nil
}

// Save reemplaza el objeto completo; PutObject es atómico del lado de S3.
func (s *Store) Save(ctx context.Context, snap persistence.Snapshot) error {
	b, err := json.Marshal(snap.Normalize())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}
