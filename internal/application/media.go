package application

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	repo "github.com/Widedbounou/SK-B/internal/domain/repository"
	"github.com/Widedbounou/SK-B/pkg/apperror"
)

// checkImages rejects any upload whose declared or sniffed type is not an image.
// The declared type may be empty; the content always decides.
func checkImages(field string, ups ...repo.Upload) error {
	for _, up := range ups {
		if ct := strings.TrimSpace(up.ContentType); ct != "" && ct != "application/octet-stream" && !strings.HasPrefix(ct, "image/") {
			return apperror.Validation(field + " must be an image")
		}
		if up.Open == nil {
			return apperror.Validation(field + " is empty")
		}
		rc, err := up.Open()
		if err != nil {
			return apperror.Validation(field + " could not be read")
		}
		m, err := mimetype.DetectReader(rc)
		_ = rc.Close()
		if err != nil || !strings.HasPrefix(m.String(), "image/") {
			return apperror.Validation(field + " must be an image")
		}
	}
	return nil
}
