package jobs

import (
	"regexp"
	"time"

	"github.com/jobcontrolroom/jobctl/internal/client/models"
)

// JobDraft carries the user-entered fields for create/update calls before
// they are cleaned into a wire payload.
type JobDraft struct {
	JobTitle       string
	CompanyName    string
	Status         models.Status
	CoverLetter    string
	Notes          string
	ContactEmail   string
	ApplicationURL string
}

var urlSchemeRe = regexp.MustCompile(`^https?://`)

// normalizeApplicationURL prefixes "https://" when the value lacks an
// http(s) scheme. Empty input stays empty.
func normalizeApplicationURL(raw string) string {
	if raw == "" {
		return ""
	}
	if urlSchemeRe.MatchString(raw) {
		return raw
	}
	return "https://" + raw
}

// payload builds the outgoing body. Keys with empty values are stripped —
// the backend treats a blank string and an absent key differently — except
// status, which is always present and falls back to "applied" whenever the
// draft value is empty or not one of the known statuses.
func (d JobDraft) payload() map[string]any {
	payload := map[string]any{}
	put := func(key, value string) {
		if value != "" {
			payload[key] = value
		}
	}
	put("job_title", d.JobTitle)
	put("company_name", d.CompanyName)
	put("cover_letter", d.CoverLetter)
	put("notes", d.Notes)
	put("contact_email", d.ContactEmail)
	put("application_url", normalizeApplicationURL(d.ApplicationURL))

	status := d.Status
	if !status.Valid() {
		status = models.StatusApplied
	}
	payload["status"] = string(status)

	return payload
}

// nowFn is a test seam for stamping application_date.
var nowFn = time.Now

func today() string {
	return nowFn().Format("2006-01-02")
}
