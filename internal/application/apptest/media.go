package apptest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/internal/domain/repository"
)

var ErrMediaDown = errors.New("media host unavailable")

// MediaStore keeps uploaded object names in memory. Set FailUploadAt to make
// the n-th upload (1-based) fail, FailDelete to make DeletePrefix fail.
type MediaStore struct {
	mu           sync.Mutex
	Objects      map[string]entity.MediaRef
	uploads      int
	FailUploadAt int
	FailDelete   bool
	Deleted      []string
}

func NewMediaStore() *MediaStore {
	return &MediaStore{Objects: map[string]entity.MediaRef{}}
}

func (m *MediaStore) Upload(_ context.Context, up repository.Upload, namespace, publicID string) (entity.MediaRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.FailUploadAt > 0 && m.uploads == m.FailUploadAt {
		return entity.MediaRef{}, ErrMediaDown
	}
	if up.Open != nil {
		rc, err := up.Open()
		if err != nil {
			return entity.MediaRef{}, err
		}
		_ = rc.Close()
	}
	ref := entity.MediaRef{
		PublicID:    publicID,
		Namespace:   namespace,
		URL:         "https://media.test/" + namespace + "/" + publicID,
		ContentType: up.ContentType,
		Size:        up.Size,
	}
	m.Objects[namespace+"/"+publicID] = ref
	return ref, nil
}

func (m *MediaStore) DeletePrefix(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete {
		return ErrMediaDown
	}
	m.Deleted = append(m.Deleted, namespace)
	for k := range m.Objects {
		if strings.HasPrefix(k, namespace+"/") {
			delete(m.Objects, k)
		}
	}
	return nil
}

// Count returns how many objects live under namespace.
func (m *MediaStore) Count(namespace string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.Objects {
		if strings.HasPrefix(k, namespace+"/") {
			n++
		}
	}
	return n
}

// PNGHeader is enough of a PNG file for content sniffing.
const PNGHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"

// Image returns a PNG upload backed by an in-memory body.
func Image(name string) repository.Upload {
	return File(name, "image/png", []byte(PNGHeader))
}

// File returns an upload with an arbitrary declared type and body.
func File(name, contentType string, body []byte) repository.Upload {
	return repository.Upload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		},
	}
}

var _ repository.MediaStore = (*MediaStore)(nil)
