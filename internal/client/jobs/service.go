// Package jobs is the client for the job-application endpoints: list,
// filter, detail, create, update, delete. Every operation needs a token and
// fails fast with a precondition error before any network call when none is
// available.
package jobs

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jobcontrolroom/jobctl/internal/client/api"
	"github.com/jobcontrolroom/jobctl/internal/client/models"
	"github.com/jobcontrolroom/jobctl/internal/logging"
)

// TokenSource supplies the current auth token; the session manager
// implements it. An empty token means anonymous.
type TokenSource interface {
	Token() string
}

// Service issues job requests against the backend.
type Service struct {
	backend api.Backend
	tokens  TokenSource
	log     logging.Logger
}

func NewService(backend api.Backend, tokens TokenSource, log logging.Logger) *Service {
	return &Service{backend: backend, tokens: tokens, log: log}
}

func (s *Service) token() (string, error) {
	token := s.tokens.Token()
	if token == "" {
		return "", api.NewError(api.KindPrecondition, "You are not signed in, please sign in first.")
	}
	return token, nil
}

// ListAll fetches one unfiltered page.
func (s *Service) ListAll(ctx context.Context, page, pageSize int) (*models.JobListResult, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.backend.ListJobs(ctx, token, page, pageSize)
}

// ListFiltered fetches a page matching criteria. The status criterion is
// additionally re-applied client-side after normalization because the
// backend's filter endpoint does not reliably honor it; see
// applyStatusFilter for the pagination consequence.
func (s *Service) ListFiltered(ctx context.Context, criteria models.FilterCriteria) (*models.JobListResult, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	result, err := s.backend.FilterJobs(ctx, token, s.buildQuery(ctx, criteria))
	if err != nil {
		return nil, err
	}
	return applyStatusFilter(result, criteria.Status), nil
}

// buildQuery translates criteria into request parameters. An unrecognized
// status value is dropped from the outgoing request rather than sent.
func (s *Service) buildQuery(ctx context.Context, criteria models.FilterCriteria) url.Values {
	query := url.Values{}
	if criteria.JobTitle != "" {
		query.Set("job_title", criteria.JobTitle)
	}
	if criteria.CompanyName != "" {
		query.Set("company_name", criteria.CompanyName)
	}
	if criteria.Status != "" {
		if criteria.Status.Valid() {
			query.Set("status", string(criteria.Status))
		} else {
			s.log.Warn(ctx, "dropping unrecognized status filter", "status", string(criteria.Status))
		}
	}
	if criteria.StartDate != "" {
		query.Set("start_date", criteria.StartDate)
	}
	if criteria.EndDate != "" {
		query.Set("end_date", criteria.EndDate)
	}
	if criteria.Ordering != "" {
		query.Set("ordering", criteria.Ordering)
	}
	if criteria.Page > 0 {
		query.Set("page", strconv.Itoa(criteria.Page))
	}
	if criteria.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(criteria.PageSize))
	}
	return query
}

// applyStatusFilter keeps only jobs with exactly the requested status and
// corrects TotalCount to the post-filter size. Because the filter runs on an
// already-paginated page, the reported total is only approximate when a
// backend page boundary splits a status-homogeneous run; that is a known
// limitation of the backend's filter endpoint carried over deliberately.
func applyStatusFilter(result *models.JobListResult, status models.Status) *models.JobListResult {
	if result == nil || status == "" || !status.Valid() {
		return result
	}
	filtered := make([]models.JobApplication, 0, len(result.Jobs))
	for _, job := range result.Jobs {
		if job.Status == status {
			filtered = append(filtered, job)
		}
	}
	result.Jobs = filtered
	result.TotalCount = len(filtered)
	return result
}

// GetByID fetches a single application.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.backend.GetJob(ctx, token, id)
}

// Create submits a new application. The outgoing payload is cleaned (see
// JobDraft.payload) and stamped with today's application date.
func (s *Service) Create(ctx context.Context, draft JobDraft) (*models.JobApplication, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	payload := draft.payload()
	payload["application_date"] = today()
	return s.backend.AddJob(ctx, token, payload)
}

// Update partially updates an application with the cleaned draft fields.
func (s *Service) Update(ctx context.Context, id int64, draft JobDraft) (*models.JobApplication, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.backend.UpdateJob(ctx, token, id, draft.payload())
}

// Remove deletes an application. Deleting an id that is already gone
// surfaces the backend's not-found error distinctly.
func (s *Service) Remove(ctx context.Context, id int64) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.backend.DeleteJob(ctx, token, id)
}
