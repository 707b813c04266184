// Package cli is the interactive front of jobctl: a small REPL that drives
// the session manager and the job client. It is presentation glue; all
// business rules live in the packages it calls.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/jobcontrolroom/jobctl/internal/client/api"
	"github.com/jobcontrolroom/jobctl/internal/client/config"
	"github.com/jobcontrolroom/jobctl/internal/client/jobs"
	"github.com/jobcontrolroom/jobctl/internal/client/models"
	"github.com/jobcontrolroom/jobctl/internal/client/session"
	"github.com/jobcontrolroom/jobctl/internal/client/state"
	"github.com/jobcontrolroom/jobctl/internal/logging"

	_ "modernc.org/sqlite"
)

// sessionAPI is the slice of the session manager the CLI needs. The real
// *session.Manager satisfies it; tests provide stubs.
type sessionAPI interface {
	State() session.State
	User() *models.UserProfile
	IsAuthenticated() bool
	Login(ctx context.Context, email, password string) session.AuthResult
	Register(ctx context.Context, name, email, password string) session.AuthResult
	Logout(ctx context.Context) session.AuthResult
	CheckSession(ctx context.Context) session.State
	Profile(ctx context.Context) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	UpdateProfileImage(ctx context.Context, filename string, content io.Reader) (*models.UserProfile, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error
}

// jobsAPI is the slice of the job client the CLI needs.
type jobsAPI interface {
	ListAll(ctx context.Context, page, pageSize int) (*models.JobListResult, error)
	ListFiltered(ctx context.Context, criteria models.FilterCriteria) (*models.JobListResult, error)
	GetByID(ctx context.Context, id int64) (*models.JobApplication, error)
	Create(ctx context.Context, draft jobs.JobDraft) (*models.JobApplication, error)
	Update(ctx context.Context, id int64, draft jobs.JobDraft) (*models.JobApplication, error)
	Remove(ctx context.Context, id int64) error
}

type App struct {
	config  *config.Config
	session sessionAPI
	jobs    jobsAPI
	log     logging.Logger
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer

	// listGuard keeps stale list responses from overwriting newer view state.
	listGuard jobs.ListGuard
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := state.Open(ctx, cfg.StateDBPath)
	if err != nil {
		log.Error(ctx, "error initializing state database", "error", err.Error())
		return nil, err
	}

	backend := api.NewHTTPBackend(cfg.BackendBaseURL, cfg.RequestTimeout, log)
	sess := session.NewManager(backend, state.NewSQLiteRepository(db), log)

	return &App{
		config:  cfg,
		session: sess,
		jobs:    jobs.NewService(backend, sess, log),
		log:     log,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.session.CheckSession(ctx) == session.StateAuthenticated {
		if u := a.session.User(); u != nil {
			a.printf("Welcome back, %s!\n", u.Email)
		}
	}
	a.Root(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
