package repository

import (
	"context"
	"io"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
)

// Upload is a file received from a client, opened lazily.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// MediaStore hosts uploaded files under a namespace (folder).
type MediaStore interface {
	Upload(ctx context.Context, up Upload, namespace, publicID string) (entity.MediaRef, error)
	// DeletePrefix removes every file in namespace. Deleting an empty namespace is not an error.
	DeletePrefix(ctx context.Context, namespace string) error
}
