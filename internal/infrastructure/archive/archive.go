// Package archive guarda una copia de cada exportación en un bucket S3 o en un directorio local.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/jhoicas/visitas-api/internal/application/ports"
	"github.com/jhoicas/visitas-api/pkg/config"
)

const keyPrefix = "exportes"

var (
	_ ports.Archiver = (*S3Archiver)(nil)
	_ ports.Archiver = (*LocalArchiver)(nil)
)

// New devuelve el archivador configurado, o nil si EXPORT_ARCHIVE está vacío.
func New(cfg config.ExportConfig) (ports.Archiver, error) {
	switch cfg.Archive {
	case "":
		return nil, nil
	case "local":
		return NewLocalArchiver(cfg.ArchiveDir), nil
	case "s3":
		awsCfg := &aws.Config{
			Region:           aws.String(cfg.S3.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		if cfg.S3.Endpoint != "" {
			awsCfg.Endpoint = aws.String(cfg.S3.Endpoint)
		}
		if cfg.S3.KeyID != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3.KeyID, cfg.S3.AppKey, "")
		}
		sess, err := session.NewSession(awsCfg)
		if err != nil {
			return nil, fmt.Errorf("sesión S3: %w", err)
		}
		return NewS3Archiver(s3.New(sess), cfg.S3.Bucket), nil
	default:
		return nil, fmt.Errorf("archivo de exportaciones no soportado: %q", cfg.Archive)
	}
}

// objectKey prefijo por fecha y marca de tiempo para no sobreescribir exportaciones del mismo día.
func objectKey(now time.Time, filename string) string {
	now = now.UTC()
	return fmt.Sprintf("%s/%s/%s_%s", keyPrefix, now.Format("2006-01-02"), now.Format("150405"), filename)
}

// S3Archiver sube las exportaciones a un bucket compatible con S3 (AWS, B2, MinIO).
type S3Archiver struct {
	api    s3iface.S3API
	bucket string
	now    func() time.Time
}

// NewS3Archiver construye el archivador sobre un cliente S3.
func NewS3Archiver(api s3iface.S3API, bucket string) *S3Archiver {
	return &S3Archiver{api: api, bucket: bucket, now: time.Now}
}

// Archive sube el archivo y devuelve s3://bucket/key.
func (a *S3Archiver) Archive(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := objectKey(a.now(), filename)
	_, err := a.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("subir %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// LocalArchiver copia las exportaciones bajo un directorio.
type LocalArchiver struct {
	root string
	now  func() time.Time
}

// NewLocalArchiver construye el archivador local.
func NewLocalArchiver(root string) *LocalArchiver {
	return &LocalArchiver{root: root, now: time.Now}
}

// Archive escribe el archivo y devuelve su ruta.
func (a *LocalArchiver) Archive(_ context.Context, filename, _ string, data []byte) (string, error) {
	path := filepath.Join(a.root, filepath.FromSlash(objectKey(a.now(), filename)))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
