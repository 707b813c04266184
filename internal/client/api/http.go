package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobcontrolroom/jobctl/internal/client/models"
	"github.com/jobcontrolroom/jobctl/internal/common"
	"github.com/jobcontrolroom/jobctl/internal/logging"
)

// Display-ready messages shared by several operations.
const (
	msgSessionExpired = "Your session may have expired, please sign in again."
	msgNetworkError   = "A network error occurred. Please check your connection and try again."
	msgTimeout        = "The request timed out. Please try again later."
	msgBadJSON        = "The server response was not valid JSON."
)

// HTTPBackend implements Backend over plain JSON/HTTP. Each request gets a
// fresh X-Request-Id and a fixed timeout; the transport-level request is not
// guaranteed to be aborted once the timeout fires, only abandoned.
type HTTPBackend struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     logging.Logger
}

func NewHTTPBackend(baseURL string, timeout time.Duration, log logging.Logger) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		log:     log,
	}
}

func (b *HTTPBackend) do(ctx context.Context, method, path, token, contentType string, body io.Reader) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return 0, nil, WrapError(KindUnknown, "An unexpected error occurred.", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(common.RequestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", common.AuthScheme+" "+token)
	}

	b.log.Debug(ctx, "outgoing request", "method", method, "path", path)

	resp, err := b.http.Do(req)
	if err != nil {
		return 0, nil, b.transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, b.transportError(err)
	}
	return resp.StatusCode, data, nil
}

func (b *HTTPBackend) doJSON(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, WrapError(KindUnknown, "An unexpected error occurred.", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return b.do(ctx, method, path, token, contentType, body)
}

// transportError classifies a failure where no usable response arrived.
func (b *HTTPBackend) transportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return WrapError(KindTimeout, msgTimeout, err)
	}
	return WrapError(KindNetwork, msgNetworkError, err)
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

// kindForStatus maps a non-2xx status to its error kind.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest:
		return KindValidation
	default:
		return KindUnknown
	}
}

// errorMessage extracts a human-readable message from a non-2xx JSON body.
// Field-specific error arrays win, probed in the given order, then the
// top-level "detail" string, then the fallback text.
func errorMessage(body []byte, fields []string, fallback string) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	for _, field := range fields {
		raw, present := payload[field]
		if !present {
			continue
		}
		var values []string
		if err := json.Unmarshal(raw, &values); err == nil && len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	if raw, present := payload["detail"]; present {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil && detail != "" {
			return detail
		}
	}
	return fallback
}

// firstFieldError renders the first array-valued field of a validation body
// as "field: message". Keys are scanned in sorted order so the choice is
// deterministic.
func firstFieldError(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	keys := make([]string, 0, len(payload))
	for key := range payload {
		if key != "detail" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		var values []string
		if err := json.Unmarshal(payload[key], &values); err == nil && len(values) > 0 {
			return fmt.Sprintf("%s: %s", key, values[0])
		}
	}
	return ""
}

// failure maps a non-2xx response from an authenticated endpoint to a
// classified error with a display-ready message.
func (b *HTTPBackend) failure(status int, body []byte, fallback string) *Error {
	switch status {
	case http.StatusUnauthorized:
		return NewError(KindUnauthorized, msgSessionExpired)
	case http.StatusBadRequest:
		msg := errorMessage(body, nil, "")
		if msg == "" {
			msg = firstFieldError(body)
		}
		if msg == "" {
			msg = fallback
		}
		return NewError(KindValidation, msg)
	default:
		return NewError(kindForStatus(status), errorMessage(body, nil, fallback))
	}
}

func (b *HTTPBackend) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	payload := map[string]string{"username": username, "password": password}

	status, body, err := b.doJSON(ctx, http.MethodPost, "/user/login/", "", payload)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		msg := errorMessage(body,
			[]string{"email", "username", "password", "non_field_errors"},
			"Could not sign in. Please check your credentials.")
		return nil, NewError(kindForStatus(status), msg)
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
	}
	if resp.Token == "" {
		return nil, NewError(KindMalformedResponse, "Invalid server response: token missing.")
	}
	return &resp, nil
}

func (b *HTTPBackend) Register(ctx context.Context, name, email, password string) (*models.UserProfile, error) {
	payload := map[string]string{"email": email, "name": name, "password": password}

	status, body, err := b.doJSON(ctx, http.MethodPost, "/user/profile/", "", payload)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		msg := errorMessage(body,
			[]string{"email", "name", "password"},
			"Could not register. Please try again.")
		return nil, NewError(kindForStatus(status), msg)
	}

	var user models.UserProfile
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
	}
	return &user, nil
}

func (b *HTTPBackend) Profile(ctx context.Context, token string) (*models.UserProfile, error) {
	status, body, err := b.do(ctx, http.MethodGet, "/user/profile/", token, "", nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, b.failure(status, body, "Could not load your profile.")
	}

	var user models.UserProfile
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
	}
	return &user, nil
}

func (b *HTTPBackend) UpdateProfileImage(ctx context.Context, token, filename string, content io.Reader) (*models.UserProfile, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("profile_image", filename)
	if err != nil {
		return nil, WrapError(KindUnknown, "Could not prepare the image upload.", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, WrapError(KindUnknown, "Could not prepare the image upload.", err)
	}
	if err := writer.Close(); err != nil {
		return nil, WrapError(KindUnknown, "Could not prepare the image upload.", err)
	}

	status, body, err := b.do(ctx, http.MethodPatch, "/user/profile-image-update/", token, writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, b.failure(status, body, "Could not update your profile image.")
	}

	var envelope struct {
		User *models.UserProfile `json:"user"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
	}
	if envelope.User == nil {
		return nil, NewError(KindMalformedResponse, "Invalid server response: user record missing.")
	}
	return envelope.User, nil
}

func (b *HTTPBackend) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	payload := map[string]string{"old_password": oldPassword, "new_password": newPassword}

	status, body, err := b.doJSON(ctx, http.MethodPost, "/user/change-password/", token, payload)
	if err != nil {
		return err
	}
	if !ok(status) {
		if status == http.StatusUnauthorized {
			return NewError(KindUnauthorized, msgSessionExpired)
		}
		msg := errorMessage(body,
			[]string{"old_password", "new_password"},
			"Could not change your password.")
		return NewError(kindForStatus(status), msg)
	}
	return nil
}

func (b *HTTPBackend) RequestPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}

	status, body, err := b.doJSON(ctx, http.MethodPost, "/user/reset-password-request/", "", payload)
	if err != nil {
		return err
	}
	if !ok(status) {
		msg := errorMessage(body, []string{"email"}, "Could not request a password reset.")
		return NewError(kindForStatus(status), msg)
	}
	return nil
}

func (b *HTTPBackend) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	payload := map[string]string{"uid": uid, "token": token, "new_password": newPassword}

	status, body, err := b.doJSON(ctx, http.MethodPost, "/user/reset-password-confirm/", "", payload)
	if err != nil {
		return err
	}
	if !ok(status) {
		msg := errorMessage(body,
			[]string{"uid", "token", "new_password"},
			"Could not reset your password.")
		return NewError(kindForStatus(status), msg)
	}
	return nil
}

func (b *HTTPBackend) ListJobs(ctx context.Context, token string, page, pageSize int) (*models.JobListResult, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	status, body, err := b.do(ctx, http.MethodGet, "/job/list/?"+query.Encode(), token, "", nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, b.failure(status, body, "Could not load job applications.")
	}
	return decodeListResult(body)
}

func (b *HTTPBackend) FilterJobs(ctx context.Context, token string, query url.Values) (*models.JobListResult, error) {
	status, body, err := b.do(ctx, http.MethodGet, "/job/filter/?"+query.Encode(), token, "", nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, b.failure(status, body, "Could not load filtered job applications.")
	}
	return decodeListResult(body)
}

func (b *HTTPBackend) GetJob(ctx context.Context, token string, id int64) (*models.JobApplication, error) {
	status, body, err := b.do(ctx, http.MethodGet, fmt.Sprintf("/job/show/%d/", id), token, "", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, Errorf(KindNotFound, "Job application %d was not found.", id)
	}
	if !ok(status) {
		return nil, b.failure(status, body, "Could not load the job application.")
	}

	var job models.JobApplication
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
	}
	return &job, nil
}

func (b *HTTPBackend) AddJob(ctx context.Context, token string, payload map[string]any) (*models.JobApplication, error) {
	status, body, err := b.doJSON(ctx, http.MethodPost, "/job/add/", token, payload)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, b.failure(status, body, "Could not add the job application.")
	}

	var job models.JobApplication
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
	}
	return &job, nil
}

func (b *HTTPBackend) UpdateJob(ctx context.Context, token string, id int64, payload map[string]any) (*models.JobApplication, error) {
	status, body, err := b.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/job/update/%d/", id), token, payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, Errorf(KindNotFound, "Job application %d was not found.", id)
	}
	if !ok(status) {
		return nil, b.failure(status, body, "Could not update the job application.")
	}

	var job models.JobApplication
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
	}
	return &job, nil
}

func (b *HTTPBackend) DeleteJob(ctx context.Context, token string, id int64) error {
	status, body, err := b.do(ctx, http.MethodDelete, fmt.Sprintf("/job/delete/%d/", id), token, "", nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return Errorf(KindNotFound, "Job application %d was not found.", id)
	}
	if !ok(status) {
		return b.failure(status, body, "Could not delete the job application.")
	}
	// An empty body on success is normal for deletes, never a parse error.
	return nil
}

var _ Backend = (*HTTPBackend)(nil)
