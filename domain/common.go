package domain

import (
	"errors"

	"github.com/google/uuid"
)

const (
	RoleUser = "user"
	//ROLE_ADMIN  = "admin"
)

var (
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedTokenInvalid = "failed to token invalid"
	MessageUnauthenticated    = "authentication credentials were not provided"

	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// Viewer is the identity a request is evaluated against.
type Viewer struct {
	ID              uuid.UUID
	IsAuthenticated bool
}

// AnonymousViewer is carried by requests without a valid bearer token.
var AnonymousViewer = Viewer{}

func NewViewer(id uuid.UUID) Viewer {
	return Viewer{ID: id, IsAuthenticated: true}
}

type (
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}

	PageRequest struct {
		Page  int
		Limit int
	}
)

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}
