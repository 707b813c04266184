// Package api is the REST boundary of the client. It owns the Backend
// interface, the HTTP implementation, the error taxonomy, and the
// normalization of the backend's several list-response layouts.
package api

import (
	"context"
	"io"
	"net/url"

	"github.com/jobcontrolroom/jobctl/internal/client/models"
)

// LoginResponse is the body of a successful POST /user/login/.
// User may be absent; the session layer fills in a minimal snapshot then.
type LoginResponse struct {
	Token string              `json:"token"`
	User  *models.UserProfile `json:"user,omitempty"`
}

// Backend is the full REST surface the client consumes. Every method
// classifies failures into *Error; no raw transport error leaks out.
// All methods honor context cancellation.
type Backend interface {
	// Login exchanges credentials for a token. The backend expects the email
	// in the username field.
	Login(ctx context.Context, username, password string) (*LoginResponse, error)

	// Register creates a user account. Registration does not authenticate;
	// callers must log in afterwards.
	Register(ctx context.Context, name, email, password string) (*models.UserProfile, error)

	// Profile fetches the live profile of the token's owner.
	Profile(ctx context.Context, token string) (*models.UserProfile, error)

	// UpdateProfileImage uploads a new profile image (multipart field
	// "profile_image") and returns the updated user record.
	UpdateProfileImage(ctx context.Context, token, filename string, content io.Reader) (*models.UserProfile, error)

	// ChangePassword rotates the password of the token's owner.
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error

	// RequestPasswordReset asks the backend to mail a reset link.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset completes a reset started by RequestPasswordReset.
	ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error

	// ListJobs fetches one page of the caller's applications.
	ListJobs(ctx context.Context, token string, page, pageSize int) (*models.JobListResult, error)

	// FilterJobs fetches applications matching the given query parameters.
	FilterJobs(ctx context.Context, token string, query url.Values) (*models.JobListResult, error)

	// GetJob fetches a single application by id.
	GetJob(ctx context.Context, token string, id int64) (*models.JobApplication, error)

	// AddJob creates an application from an already-cleaned payload.
	AddJob(ctx context.Context, token string, payload map[string]any) (*models.JobApplication, error)

	// UpdateJob partially updates an application from an already-cleaned payload.
	UpdateJob(ctx context.Context, token string, id int64, payload map[string]any) (*models.JobApplication, error)

	// DeleteJob removes an application. A 2xx with an empty body is success.
	DeleteJob(ctx context.Context, token string, id int64) error
}
