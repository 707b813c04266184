// Package models defines the data types exchanged with the job-tracker
// backend and held by the client.
package models

// Status is the lifecycle stage of a job application. The set of values is
// fixed by the backend; anything else is rejected client-side.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusRejected  Status = "rejected"
	StatusAccepted  Status = "accepted"
)

// Statuses returns all valid statuses in display order.
func Statuses() []Status {
	return []Status{StatusApplied, StatusInterview, StatusRejected, StatusAccepted}
}

// Valid reports whether s is one of the backend's status choices.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// JobApplication is a single tracked application. The backend owns the
// record; the client holds a transient copy per view. Dates are kept in the
// backend's wire format ("2006-01-02" for application_date).
type JobApplication struct {
	ID              int64  `json:"id,omitempty"`
	JobTitle        string `json:"job_title,omitempty"`
	CompanyName     string `json:"company_name,omitempty"`
	Status          Status `json:"status,omitempty"`
	ApplicationDate string `json:"application_date,omitempty"`
	LastUpdated     string `json:"last_updated,omitempty"`
	CoverLetter     string `json:"cover_letter,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty"`
	ApplicationURL  string `json:"application_url,omitempty"`
}

// JobListResult is the canonical shape every backend list response is
// normalized into, regardless of which layout the backend chose to answer
// with.
type JobListResult struct {
	Jobs       []JobApplication
	TotalCount int
	Next       string
	Previous   string
}

// FilterCriteria is the transient per-view filter state for list requests.
// Zero values mean "not set".
type FilterCriteria struct {
	JobTitle    string
	CompanyName string
	Status      Status
	StartDate   string
	EndDate     string
	Ordering    string
	Page        int
	PageSize    int
}
