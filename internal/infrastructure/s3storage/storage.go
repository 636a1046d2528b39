// Package s3storage archiva los PDFs firmados en almacenamiento de objetos
// compatible con S3 (MinIO), de donde se sirven como URL pública permanente.
package s3storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tu-usuario/negocio-pro/internal/application/signing"
	"github.com/tu-usuario/negocio-pro/pkg/config"
)

// Verificar en tiempo de compilación que Storage implementa ArchiveStorage.
var _ signing.ArchiveStorage = (*Storage)(nil)

// Storage envuelve el cliente MinIO para el bucket de documentos firmados.
type Storage struct {
	client     *minio.Client
	bucket     string
	publicURL  string
	httpClient *http.Client
}

// New construye el cliente MinIO a partir de la configuración de storage.
func New(cfg config.StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3storage: init minio: %w", err)
	}
	return &Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		httpClient: &http.Client{
			// Descarga del PDF firmado desde la URL temporal del proveedor.
			Timeout: 60 * time.Second,
		},
	}, nil
}

// EnsureBucket garantiza que el bucket de archivo exista antes de usarse.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("s3storage: check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("s3storage: make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// ArchiveFromURL descarga el artefacto desde sourceURL (la URL temporal del
// proveedor de firmas) y lo sube al bucket bajo objectKey. Devuelve la URL
// pública permanente del objeto archivado.
func (s *Storage) ArchiveFromURL(ctx context.Context, objectKey, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("s3storage: crear request de descarga: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("s3storage: descargar artefacto: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return "", fmt.Errorf("s3storage: descarga HTTP %d: %s", resp.StatusCode, string(body))
	}

	opts := minio.PutObjectOptions{ContentType: "application/pdf"}
	// Tamaño desconocido (-1): el cliente hace subida multiparte en streaming.
	if _, err := s.client.PutObject(ctx, s.bucket, objectKey, resp.Body, -1, opts); err != nil {
		return "", fmt.Errorf("s3storage: subir objeto %s: %w", objectKey, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectKey), nil
}
