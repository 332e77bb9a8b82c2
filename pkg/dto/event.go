package dto

// IdentityEvent is published to the IDENTITY stream and relayed to
// WebSocket subscribers after a successful enrollment or identification.
type IdentityEvent struct {
	Type       string  `json:"type"` // identity_enrolled, identity_identified
	UserID     int64   `json:"user_id"`
	Name       string  `json:"name"`
	FaceID     string  `json:"face_id,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	OccurredAt string  `json:"occurred_at"`
}

const (
	EventEnrolled   = "identity_enrolled"
	EventIdentified = "identity_identified"
)
