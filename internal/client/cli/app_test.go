package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobcontrolroom/jobctl/internal/client/jobs"
	"github.com/jobcontrolroom/jobctl/internal/client/models"
	"github.com/jobcontrolroom/jobctl/internal/client/session"
	"github.com/jobcontrolroom/jobctl/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ---- stubs ----

type stubSession struct {
	LoginRes    session.AuthResult
	RegisterRes session.AuthResult
	ProfileRet  *models.UserProfile
	ProfileErr  error

	LastLoginEmail    string
	LastLoginPassword string
	LogoutCalls       int
}

func (s *stubSession) State() session.State      { return session.StateAnonymous }
func (s *stubSession) User() *models.UserProfile { return nil }
func (s *stubSession) IsAuthenticated() bool     { return false }

func (s *stubSession) CheckSession(ctx context.Context) session.State {
	return session.StateAnonymous
}

func (s *stubSession) Login(ctx context.Context, email, password string) session.AuthResult {
	s.LastLoginEmail = email
	s.LastLoginPassword = password
	return s.LoginRes
}

func (s *stubSession) Register(ctx context.Context, name, email, password string) session.AuthResult {
	return s.RegisterRes
}

func (s *stubSession) Logout(ctx context.Context) session.AuthResult {
	s.LogoutCalls++
	return session.AuthResult{Success: true}
}

func (s *stubSession) Profile(ctx context.Context) (*models.UserProfile, error) {
	return s.ProfileRet, s.ProfileErr
}

func (s *stubSession) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return nil
}

func (s *stubSession) UpdateProfileImage(ctx context.Context, filename string, content io.Reader) (*models.UserProfile, error) {
	return s.ProfileRet, s.ProfileErr
}

func (s *stubSession) RequestPasswordReset(ctx context.Context, email string) error {
	return nil
}

func (s *stubSession) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	return nil
}

type stubJobs struct {
	ListRet   *models.JobListResult
	ListErr   error
	GetRet    *models.JobApplication
	GetErr    error
	RemoveErr error

	ListAllCalls int
	LastRemoveID int64
}

func (s *stubJobs) ListAll(ctx context.Context, page, pageSize int) (*models.JobListResult, error) {
	s.ListAllCalls++
	return s.ListRet, s.ListErr
}

func (s *stubJobs) ListFiltered(ctx context.Context, criteria models.FilterCriteria) (*models.JobListResult, error) {
	return s.ListRet, s.ListErr
}

func (s *stubJobs) GetByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	return s.GetRet, s.GetErr
}

func (s *stubJobs) Create(ctx context.Context, draft jobs.JobDraft) (*models.JobApplication, error) {
	return s.GetRet, s.GetErr
}

func (s *stubJobs) Update(ctx context.Context, id int64, draft jobs.JobDraft) (*models.JobApplication, error) {
	return s.GetRet, s.GetErr
}

func (s *stubJobs) Remove(ctx context.Context, id int64) error {
	s.LastRemoveID = id
	return s.RemoveErr
}

func newTestApp(sess *stubSession, jobsStub *stubJobs, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		session: sess,
		jobs:    jobsStub,
		log:     testLogger(),
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     out,
	}, out
}

func stubPrompts(t *testing.T, answers []string, password string) {
	t.Helper()
	savedText := getSimpleText
	savedPassword := getPassword
	t.Cleanup(func() {
		getSimpleText = savedText
		getPassword = savedPassword
	})

	i := 0
	getSimpleText = func(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
		if i >= len(answers) {
			return "", nil
		}
		answer := answers[i]
		i++
		return answer, nil
	}
	getPassword = func(w io.Writer, prompt string) ([]byte, error) {
		return []byte(password), nil
	}
}

// ---- tests ----

func TestLoginCommand_Success(t *testing.T) {
	stubPrompts(t, []string{"ann@example.com"}, "pw")
	sess := &stubSession{
		LoginRes: session.AuthResult{
			Success: true,
			User:    &models.UserProfile{Email: "ann@example.com"},
		},
	}
	app, out := newTestApp(sess, &stubJobs{}, "")

	require.NoError(t, app.Login(context.Background()))
	require.Equal(t, "ann@example.com", sess.LastLoginEmail)
	require.Equal(t, "pw", sess.LastLoginPassword)
	require.Contains(t, out.String(), "Signed in as ann@example.com")
}

func TestLoginCommand_Failure(t *testing.T) {
	stubPrompts(t, []string{"ann@example.com"}, "wrong")
	sess := &stubSession{
		LoginRes: session.AuthResult{Success: false, Error: "Unable to log in with provided credentials."},
	}
	app, out := newTestApp(sess, &stubJobs{}, "")

	require.NoError(t, app.Login(context.Background()))
	require.Contains(t, out.String(), "Login failed: Unable to log in with provided credentials.")
}

func TestRegisterCommand_PrintsRedirectMessage(t *testing.T) {
	stubPrompts(t, []string{"Ann", "ann@example.com"}, "pw")
	sess := &stubSession{
		RegisterRes: session.AuthResult{
			Success:         true,
			Message:         "Registration successful, please sign in.",
			RedirectToLogin: true,
		},
	}
	app, out := newTestApp(sess, &stubJobs{}, "")

	require.NoError(t, app.Register(context.Background()))
	require.Contains(t, out.String(), "Registration successful, please sign in.")
}

func TestListCommand_RendersTable(t *testing.T) {
	stubPrompts(t, []string{"", "", "", ""}, "")
	jobsStub := &stubJobs{ListRet: &models.JobListResult{
		Jobs: []models.JobApplication{
			{ID: 1, JobTitle: "Engineer", CompanyName: "Acme", Status: models.StatusApplied, ApplicationDate: "2026-03-14"},
		},
		TotalCount: 1,
	}}
	app, out := newTestApp(&stubSession{}, jobsStub, "")

	require.NoError(t, app.List(context.Background()))
	require.Equal(t, 1, jobsStub.ListAllCalls)
	require.Contains(t, out.String(), "Engineer")
	require.Contains(t, out.String(), "Acme")
	require.Contains(t, out.String(), "Total: 1")
}

func TestListCommand_Empty(t *testing.T) {
	stubPrompts(t, []string{"", "", "", ""}, "")
	jobsStub := &stubJobs{ListRet: &models.JobListResult{}}
	app, out := newTestApp(&stubSession{}, jobsStub, "")

	require.NoError(t, app.List(context.Background()))
	require.Contains(t, out.String(), "No job applications found.")
}

func TestShowCommand_UsageWithoutID(t *testing.T) {
	app, out := newTestApp(&stubSession{}, &stubJobs{}, "")

	require.NoError(t, app.Show(context.Background(), nil))
	require.Contains(t, out.String(), "Usage: show <id>")

	out.Reset()
	require.NoError(t, app.Show(context.Background(), []string{"abc"}))
	require.Contains(t, out.String(), "Invalid id: abc")
}

func TestDeleteCommand_Cancelled(t *testing.T) {
	stubPrompts(t, []string{"n"}, "")
	jobsStub := &stubJobs{}
	app, out := newTestApp(&stubSession{}, jobsStub, "")

	require.NoError(t, app.Delete(context.Background(), []string{"7"}))
	require.Contains(t, out.String(), "Cancelled.")
	require.Zero(t, jobsStub.LastRemoveID)
}

func TestDeleteCommand_Confirmed(t *testing.T) {
	stubPrompts(t, []string{"y"}, "")
	jobsStub := &stubJobs{}
	app, out := newTestApp(&stubSession{}, jobsStub, "")

	require.NoError(t, app.Delete(context.Background(), []string{"7"}))
	require.Equal(t, int64(7), jobsStub.LastRemoveID)
	require.Contains(t, out.String(), "Deleted job application 7.")
}
