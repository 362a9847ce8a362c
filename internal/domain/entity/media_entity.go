package entity

// MediaRef points at an image stored on the media host.
type MediaRef struct {
	PublicID    string `json:"public_id"`
	Namespace   string `json:"namespace"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// IsZero reports whether no image is referenced.
func (m MediaRef) IsZero() bool { return m.URL == "" && m.PublicID == "" }
