package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	repo "github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/response"
)

// limitUpload caps the request body at limit bytes. A declared length over the
// limit is answered with 413 and false; chunked bodies are cut off while read.
func limitUpload(c *gin.Context, limit int64) bool {
	if limit <= 0 {
		return true
	}
	if c.Request.ContentLength > limit {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "upload too large", map[string]int64{"max_bytes": limit})
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	return true
}

// uploadFromFile defers opening the multipart part until the media store reads it.
func uploadFromFile(fh *multipart.FileHeader) repo.Upload {
	return repo.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func uploadsFromFiles(files []*multipart.FileHeader) []repo.Upload {
	out := make([]repo.Upload, 0, len(files))
	for _, fh := range files {
		out = append(out, uploadFromFile(fh))
	}
	return out
}
