package utils

import (
	"github.com/google/uuid"
)

// NewPublicID returns a unique name for an uploaded asset.
func NewPublicID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
