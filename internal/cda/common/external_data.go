package common

import (
	"crypto/sha1"
	"encoding/base64"

	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// ExternalData is an attached payload, inline or by reference, such as a
// scanned letter or a rendered PDF report
type ExternalData struct {
	MediaType string
	Data      []byte
	Reference string
	Caption   string
}

// IntegrityCheck returns the base64 SHA-1 digest of inline data
func (e *ExternalData) IntegrityCheck() string {
	if len(e.Data) == 0 {
		return ""
	}
	sum := sha1.Sum(e.Data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Validate requires a media type and exactly one of inline data or a reference
func (e *ExternalData) Validate(path string, v *validation.Validator) {
	v.RequireNonEmpty(validation.Field(path, "MediaType"), e.MediaType)
	v.CheckChoice(path,
		validation.Choice{Name: "Data", Value: e.Data},
		validation.Choice{Name: "Reference", Value: e.Reference},
	)
}
