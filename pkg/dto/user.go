package dto

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

type RegisterUserRequest struct {
	Name               string `json:"name" binding:"required"`
	Age                int    `json:"age" binding:"required"`
	ProfilePhotoBase64 string `json:"profile_photo_base64" binding:"required"`
}

type AuthenticateUserRequest struct {
	ProfilePhotoBase64 string `json:"profile_photo_base64" binding:"required"`
}

type UserResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Age             int        `json:"age"`
	FaceID          *uuid.UUID `json:"face_id,omitempty"`
	ProfilePhotoURL *string    `json:"profile_photo_url,omitempty"`
	CreatedAt       string     `json:"created_at"`
}

type AuthenticateUserResponse struct {
	User       UserResponse `json:"user"`
	Similarity float64      `json:"similarity"`
}

// dataURLPrefix matches an optional data-URL scheme marker in front of the
// base64 payload, e.g. "data:image/jpeg;base64,".
var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// DecodePhoto strips an optional data-URL prefix and decodes the base64
// payload into raw image bytes.
func DecodePhoto(payload string) ([]byte, error) {
	trimmed := dataURLPrefix.ReplaceAllString(payload, "")
	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode photo payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty photo payload")
	}
	return data, nil
}
