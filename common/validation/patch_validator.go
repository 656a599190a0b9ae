package validation

import (
	"encoding/json"
	"fmt"

	"github.com/cmuseum/catalog/common/models"
)

// PatchValidator checks JSON merge patch documents before they are applied
type PatchValidator struct {
	protected map[string]bool
}

// NewPatchValidator creates a validator that rejects patches touching any of
// the given top-level fields.
func NewPatchValidator(protectedFields ...string) *PatchValidator {
	protected := make(map[string]bool, len(protectedFields))
	for _, f := range protectedFields {
		protected[f] = true
	}
	return &PatchValidator{protected: protected}
}

// ArtifactPatchValidator protects identity and audit fields of artifacts
func ArtifactPatchValidator() *PatchValidator {
	return NewPatchValidator("artifact_id", "created_by", "created_at", "updated_at")
}

// ValidateMergePatch validates a merge patch document
func (v *PatchValidator) ValidateMergePatch(patch []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(patch, &doc); err != nil {
		return fmt.Errorf("%w: merge patch must be a JSON object: %v", models.ErrValidation, err)
	}

	for field, value := range doc {
		if v.protected[field] {
			return fmt.Errorf("%w: field %q cannot be patched", models.ErrValidation, field)
		}

		// null clears images; anything else must be an array
		if field == "images" && value != nil {
			if _, ok := value.([]any); !ok {
				return fmt.Errorf("%w: 'images' must be an array, got %T", models.ErrValidation, value)
			}
		}
	}

	return nil
}
