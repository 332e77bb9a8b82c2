package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/faceauth/internal/faceindex"
	"github.com/your-org/faceauth/internal/models"
	"github.com/your-org/faceauth/internal/service"
	"github.com/your-org/faceauth/internal/storage"
	"github.com/your-org/faceauth/pkg/dto"
)

type UserHandler struct {
	enroller   *service.Enroller
	identifier *service.Identifier
	dir        service.Directory
}

func NewUserHandler(enroller *service.Enroller, identifier *service.Identifier, dir service.Directory) *UserHandler {
	return &UserHandler{enroller: enroller, identifier: identifier, dir: dir}
}

// Register enrolls a new identity from a base64-encoded profile photo.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := dto.DecodePhoto(req.ProfilePhotoBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.enroller.Register(c.Request.Context(), req.Name, req.Age, photo)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, userResponse(user))
}

// Login authenticates an incoming photo against enrolled identities.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.AuthenticateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := dto.DecodePhoto(req.ProfilePhotoBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, similarity, err := h.identifier.Identify(c.Request.Context(), photo)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.AuthenticateUserResponse{
		User:       userResponse(user),
		Similarity: similarity,
	})
}

// List returns every directory row in insertion order, enrolled or not.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.dir.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{"users": resp, "total": len(resp)})
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Age:             u.Age,
		FaceID:          u.FaceID,
		ProfilePhotoURL: u.ProfilePhotoURL,
		CreatedAt:       u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// statusForError maps orchestration failure kinds onto HTTP statuses. Every
// kind keeps its own status so callers can tell "already registered" from a
// transient outage.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoMatch), errors.Is(err, service.ErrUnknownBiometric):
		return http.StatusUnauthorized
	case errors.Is(err, faceindex.ErrNoFace):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrProfilePhotoStore),
		errors.Is(err, service.ErrFaceEnrollment),
		errors.Is(err, service.ErrLink),
		errors.Is(err, faceindex.ErrUnavailable),
		errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
