package gcs

import (
	"context"
	"fmt"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/helpers"
)

// MediaStore keeps uploads in a GCS bucket, one folder per namespace.
type MediaStore struct {
	client *storage.Client
	bucket string
}

func NewMediaStore(client *storage.Client, bucket string) *MediaStore {
	return &MediaStore{client: client, bucket: bucket}
}

func (s *MediaStore) Upload(ctx context.Context, up repository.Upload, namespace, publicID string) (entity.MediaRef, error) {
	if s.client == nil || s.bucket == "" {
		return entity.MediaRef{}, fmt.Errorf("gcs not configured")
	}
	rc, err := up.Open()
	if err != nil {
		return entity.MediaRef{}, fmt.Errorf("open %s: %w", up.Filename, err)
	}
	defer func() { _ = rc.Close() }()

	object := ObjectName(namespace, publicID, up.Filename)
	url, err := helpers.UploadObject(ctx, s.client, s.bucket, object, up.ContentType, rc)
	if err != nil {
		return entity.MediaRef{}, fmt.Errorf("upload %s: %w", object, err)
	}
	return entity.MediaRef{
		PublicID:    publicID,
		Namespace:   namespace,
		URL:         url,
		ContentType: up.ContentType,
		Size:        up.Size,
	}, nil
}

func (s *MediaStore) DeletePrefix(ctx context.Context, namespace string) error {
	if s.client == nil || s.bucket == "" {
		return fmt.Errorf("gcs not configured")
	}
	_, err := helpers.DeletePrefix(ctx, s.client, s.bucket, strings.TrimSuffix(namespace, "/")+"/")
	return err
}

// ObjectName is namespace/publicID plus the lower-cased extension of the original file.
func ObjectName(namespace, publicID, filename string) string {
	return path.Join(namespace, publicID+strings.ToLower(path.Ext(filename)))
}

var _ repository.MediaStore = (*MediaStore)(nil)
