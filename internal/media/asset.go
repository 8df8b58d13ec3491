package media

import "time"

// Asset is a reference to an already uploaded media file; the upload itself
// happens elsewhere, the CMS only records the public URL and its metadata.
type Asset struct {
	ID        string    `json:"id,omitempty"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	Width     *int      `json:"width,omitempty"`
	Height    *int      `json:"height,omitempty"`
	Size      *int      `json:"size,omitempty"`
	Alt       string    `json:"alt,omitempty"`
	CreatedAt time.Time `json:"-"`
}
