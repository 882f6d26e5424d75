package gcs

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var (
	Client *storage.Client
	bucket string
)

// InitGCS opens the storage client and checks that bucketName is reachable.
// credentialsFile may be empty to use application default credentials.
func InitGCS(ctx context.Context, bucketName, credentialsFile string) error {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("connect cloud storage: %w", err)
	}

	if _, err := c.Bucket(bucketName).Attrs(ctx); err != nil {
		c.Close()
		return fmt.Errorf("access bucket %s: %w", bucketName, err)
	}

	Client = c
	bucket = bucketName
	zap.L().Info("cloud storage bucket ready", zap.String("bucket", bucketName))
	return nil
}

func Close() {
	if Client != nil {
		Client.Close()
		Client = nil
	}
}

// UploadImage streams reader into folder/ under a unique name and returns the public URL.
func UploadImage(ctx context.Context, reader io.Reader, contentType, folder string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("cloud storage not initialised")
	}

	if contentType == "" {
		contentType = "image/jpeg"
	}
	objectName := fmt.Sprintf("%s/%s_%d.%s", folder, uuid.NewString(), time.Now().UnixNano(), extensionFor(contentType))

	writer := Client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, reader); err != nil {
		writer.Close()
		return "", fmt.Errorf("copy %s to bucket: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalise %s: %w", objectName, err)
	}

	publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectName)
	zap.L().Debug("photo uploaded", zap.String("url", publicURL))
	return publicURL, nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
