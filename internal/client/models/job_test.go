package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		require.True(t, s.Valid(), "expected %q to be valid", s)
	}
	require.False(t, Status("").Valid())
	require.False(t, Status("ghosted").Valid())
	require.False(t, Status("Applied").Valid())
}

func TestJobApplication_WireNames(t *testing.T) {
	job := JobApplication{
		ID:              1,
		JobTitle:        "Engineer",
		CompanyName:     "Acme",
		Status:          StatusApplied,
		ApplicationDate: "2026-03-14",
	}

	data, err := json.Marshal(job)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "job_title")
	require.Contains(t, raw, "company_name")
	require.Contains(t, raw, "application_date")
	// Empty optionals are omitted.
	require.NotContains(t, raw, "notes")
	require.NotContains(t, raw, "cover_letter")
}
