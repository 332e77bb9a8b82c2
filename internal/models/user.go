package models

import (
	"time"

	"github.com/google/uuid"
)

// User is one identity row in the directory. FaceID and ProfilePhotoURL are
// nil until enrollment links the row to a template in the face index; a row
// where they never got set is an orphan from a failed enrollment attempt.
type User struct {
	ID              int64      `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Age             int        `json:"age" db:"age"`
	FaceID          *uuid.UUID `json:"face_id,omitempty" db:"face_id"`
	ProfilePhotoURL *string    `json:"profile_photo_url,omitempty" db:"profile_photo_url"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Enrolled reports whether the row is linked to a biometric template.
func (u *User) Enrolled() bool {
	return u.FaceID != nil
}
