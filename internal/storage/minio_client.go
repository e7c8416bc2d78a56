package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
)

// allowedImageExtensions lists the upload formats accepted for avatars
// and post images.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var ErrUnsupportedFileType = fmt.Errorf("unsupported file type")

type Storage interface {
	UploadImage(ctx context.Context, folder, fileName string, file io.Reader, size int64) (string, error)
	DeleteImage(ctx context.Context, objectName string) error
	GetImageURL(ctx context.Context, objectName string) (string, error)
}

type MinIOClient struct {
	client *minio.Client
	config *config.MinIO
}

func NewMinIOClient(cfg *config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOClient{client: client, config: cfg}, nil
}

// UploadImage stores the file under folder/ with a generated object name
// and returns that name. The object name is what gets persisted; URLs
// are signed on demand.
func (m *MinIOClient) UploadImage(ctx context.Context, folder, fileName string, file io.Reader, size int64) (string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if !allowedImageExtensions[fileExt] {
		return "", ErrUnsupportedFileType
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	objectName := fmt.Sprintf("%s/%d/%02d/%s%s",
		folder,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)

	_, err := m.client.PutObject(ctx, m.config.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return objectName, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.BucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetImageURL returns a presigned download URL for the object.
func (m *MinIOClient) GetImageURL(ctx context.Context, objectName string) (string, error) {
	expiry := m.config.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	signed, err := m.client.PresignedGetObject(ctx, m.config.BucketName, objectName, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object url: %w", err)
	}

	return signed.String(), nil
}
