package models

import (
	"strings"
	"time"
)

// BlobURLPrefix prefixes every image reference stored on records
const BlobURLPrefix = "/blobs/"

// ImageBlob is a content-addressed image
// Maps to: image_blob table
type ImageBlob struct {
	// Content hash (sha256:abc123...)
	BlobID string `db:"blob_id" json:"blob_id"`

	// Sniffed media type, e.g. image/jpeg
	MediaType string `db:"media_type" json:"media_type"`

	SizeBytes int64     `db:"size_bytes" json:"size_bytes"`
	Content   []byte    `db:"content" json:"-"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Ref returns the reference string stored on artifacts
func (b *ImageBlob) Ref() string {
	return BlobURLPrefix + b.BlobID
}

// BlobIDFromRef extracts the blob id from a reference. Foreign URLs (not
// served by this catalog) return ok=false.
func BlobIDFromRef(ref string) (string, bool) {
	// Absolute URLs pointing at our own blob route are accepted too
	if i := strings.Index(ref, BlobURLPrefix); i >= 0 {
		id := ref[i+len(BlobURLPrefix):]
		if strings.HasPrefix(id, "sha256:") {
			return id, true
		}
	}
	return "", false
}

// Accepted upload media types
var ImageMediaTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// BlobDeleteRequest is the payload of a blob cleanup job
type BlobDeleteRequest struct {
	ArtifactID string   `json:"artifact_id"`
	Refs       []string `json:"refs"`
}
