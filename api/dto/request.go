package dto

import (
	"github.com/warriorguo/pipeline/types"
)

// DropRequest is what the canvas sends when a palette entry is dropped.
type DropRequest struct {
	Payload  types.Payload  `json:"payload"`
	Position types.Position `json:"position"`
}
