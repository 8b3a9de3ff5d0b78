// Package s3 guarda facturas compartidas en un bucket S3 (o compatible con S3).
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appbilling "github.com/jhoicas/asha-billing/internal/application/billing"
	"github.com/jhoicas/asha-billing/internal/infrastructure/storage/local"
	"github.com/jhoicas/asha-billing/pkg/config"
)

var _ appbilling.ArtifactStore = (*Store)(nil)

// Store implementa billing.ArtifactStore. Las claves van bajo Prefix.
type Store struct {
	bucket    string
	prefix    string
	presigner *s3.PresignClient
	uploader  *manager.Uploader
}

// NewStore construye el cliente desde cfg. Usa claves estáticas si están
// definidas; si no, la cadena de credenciales por defecto de AWS.
func NewStore(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is not configured")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &Store{
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		presigner: s3.NewPresignClient(client),
		uploader:  manager.NewUploader(client),
	}, nil
}

// ObjectKey es donde se guarda key en el bucket. Los números de cuenta terminan
// en las claves, así que key se aplana a un nombre de archivo que queda bajo Prefix.
func (s *Store) ObjectKey(key string) string {
	key = local.SafeFilename(key)
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Put sube body.
func (s *Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(s.ObjectKey(key)),
		Body:               bytes.NewReader(body),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", local.SafeFilename(key))),
	})
	if err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}
	return nil
}

// PresignGet devuelve una URL GET válida por ttl.
func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	res, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.ObjectKey(key)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign: %w", err)
	}
	return res.URL, nil
}
