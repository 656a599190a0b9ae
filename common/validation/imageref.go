package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cmuseum/catalog/common/models"
)

var allowedImageSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// ImageRef checks a reference stored in an image list or header image. It
// must be a blob served by this catalog or an absolute http(s) URL; the
// reference ends up in an <img src>, so other schemes (javascript:, data:,
// file:) are rejected.
func ImageRef(ref string) error {
	if _, ok := models.BlobIDFromRef(ref); ok && strings.HasPrefix(ref, models.BlobURLPrefix) {
		return nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("%w: invalid image reference: %v", models.ErrValidation, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if !allowedImageSchemes[scheme] {
		return fmt.Errorf("%w: image reference scheme %q is not allowed (only http/https)", models.ErrValidation, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: image reference has no host", models.ErrValidation)
	}
	if u.User != nil {
		return fmt.Errorf("%w: image reference must not carry credentials", models.ErrValidation)
	}
	return nil
}

func imageRefValidator(fl validator.FieldLevel) bool {
	return ImageRef(fl.Field().String()) == nil
}
