package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"invoicepipe/constants"
	"invoicepipe/internal/common"
)

// Uploader puts local documents into the analysis bucket.
type Uploader struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

func NewUploader(cfg common.S3Config, logger *slog.Logger) (*Uploader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, common.WrapError(err, "create object storage client")
	}
	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

// UploadFile validates the extension, uploads the file under a collision-safe
// key, and returns that key.
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.AllowedExt(ext) {
		return "", common.NewAppError("UNSUPPORTED_FILE",
			fmt.Sprintf("unsupported file type %q", ext), common.ErrUnsupported)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", common.WrapError(err, "open input file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", common.WrapError(err, "stat input file")
	}

	key := u.objectKey(path)
	_, err = u.client.PutObject(ctx, u.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: constants.ContentTypeForExt(ext),
	})
	if err != nil {
		return "", common.WrapError(err, "upload to object storage")
	}

	u.logger.Info("uploaded document", "bucket", u.bucket, "key", key, "bytes", info.Size())
	return key, nil
}

// objectKey builds "<prefix><uid8>-<name>" with spaces in the base name
// replaced by underscores.
func (u *Uploader) objectKey(path string) string {
	name := strings.ReplaceAll(filepath.Base(path), " ", "_")
	uid := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return u.prefix + uid + "-" + name
}
