package model

import "time"

// Contact is one conversation entry in the sidebar list. Number is the
// digit-only identifier; OriginalKey keeps the raw feed key because the
// messages endpoint expects it echoed back verbatim when present.
type Contact struct {
	Number       string    `json:"number"`
	DisplayName  string    `json:"display_name"`
	HasName      bool      `json:"has_name"`
	OriginalKey  string    `json:"original_key,omitempty"`
	LastActivity time.Time `json:"last_activity"`
}
