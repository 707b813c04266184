package cli

import (
	"context"
	"strconv"

	"github.com/jobcontrolroom/jobctl/internal/client/jobs"
	"github.com/jobcontrolroom/jobctl/internal/client/models"
)

const defaultPageSize = 20

// List prompts for filter criteria and renders one page of applications.
// When no text criteria are given the plain list endpoint is used.
func (a *App) List(ctx context.Context) error {
	criteria, err := a.promptCriteria()
	if err != nil {
		return err
	}

	seq := a.listGuard.Begin()

	var result *models.JobListResult
	if criteria.JobTitle == "" && criteria.CompanyName == "" &&
		criteria.Ordering == "" && criteria.Status == "" {
		result, err = a.jobs.ListAll(ctx, criteria.Page, criteria.PageSize)
	} else {
		result, err = a.jobs.ListFiltered(ctx, *criteria)
	}
	if err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	if !a.listGuard.Commit(seq) {
		a.log.Debug(ctx, "dropping stale list response", "seq", seq)
		return nil
	}

	if len(result.Jobs) == 0 {
		a.printf("No job applications found.\n")
		return nil
	}
	a.printf("%-6s %-30s %-22s %-10s %s\n", "ID", "TITLE", "COMPANY", "STATUS", "APPLIED")
	for _, job := range result.Jobs {
		a.printf("%-6d %-30s %-22s %-10s %s\n",
			job.ID, job.JobTitle, job.CompanyName, job.Status, job.ApplicationDate)
	}
	a.printf("Total: %d\n", result.TotalCount)
	return nil
}

func (a *App) promptCriteria() (*models.FilterCriteria, error) {
	criteria := &models.FilterCriteria{Page: 1, PageSize: defaultPageSize}

	title, err := getSimpleText(a.reader, "Title filter (empty for all)", a.out)
	if err != nil {
		return nil, err
	}
	criteria.JobTitle = title

	company, err := getSimpleText(a.reader, "Company filter (empty for all)", a.out)
	if err != nil {
		return nil, err
	}
	criteria.CompanyName = company

	status, err := getSimpleText(a.reader, "Status filter (applied/interview/rejected/accepted, empty for all)", a.out)
	if err != nil {
		return nil, err
	}
	criteria.Status = models.Status(status)

	ordering, err := getSimpleText(a.reader, "Sort by (e.g. -application_date, empty for default)", a.out)
	if err != nil {
		return nil, err
	}
	criteria.Ordering = ordering

	page, err := getSimpleText(a.reader, "Page (empty for 1)", a.out)
	if err != nil {
		return nil, err
	}
	if page != "" {
		if n, convErr := strconv.Atoi(page); convErr == nil && n > 0 {
			criteria.Page = n
		}
	}
	return criteria, nil
}

// Show renders a single application by id.
func (a *App) Show(ctx context.Context, args []string) error {
	id, ok := a.parseID(args, "show")
	if !ok {
		return nil
	}

	job, err := a.jobs.GetByID(ctx, id)
	if err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}

	a.printf("ID:            %d\n", job.ID)
	a.printf("Title:         %s\n", job.JobTitle)
	a.printf("Company:       %s\n", job.CompanyName)
	a.printf("Status:        %s\n", job.Status)
	a.printf("Applied:       %s\n", job.ApplicationDate)
	a.printf("Last updated:  %s\n", job.LastUpdated)
	if job.ContactEmail != "" {
		a.printf("Contact:       %s\n", job.ContactEmail)
	}
	if job.ApplicationURL != "" {
		a.printf("URL:           %s\n", job.ApplicationURL)
	}
	if job.Notes != "" {
		a.printf("Notes:\n%s\n", job.Notes)
	}
	if job.CoverLetter != "" {
		a.printf("Cover letter:\n%s\n", job.CoverLetter)
	}
	return nil
}

// Add prompts for the fields of a new application and creates it.
func (a *App) Add(ctx context.Context) error {
	draft, err := a.promptDraft()
	if err != nil {
		return err
	}

	job, err := a.jobs.Create(ctx, *draft)
	if err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	a.printf("Created job application %d (%s at %s).\n", job.ID, job.JobTitle, job.CompanyName)
	return nil
}

// Update prompts for replacement fields; empty answers leave the stored
// value untouched (they are stripped from the PATCH payload).
func (a *App) Update(ctx context.Context, args []string) error {
	id, ok := a.parseID(args, "update")
	if !ok {
		return nil
	}

	draft, err := a.promptDraft()
	if err != nil {
		return err
	}

	job, err := a.jobs.Update(ctx, id, *draft)
	if err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	a.printf("Updated job application %d.\n", job.ID)
	return nil
}

// Delete removes an application after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, ok := a.parseID(args, "delete")
	if !ok {
		return nil
	}

	answer, err := getSimpleText(a.reader, "Really delete? (y/N)", a.out)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		a.printf("Cancelled.\n")
		return nil
	}

	if err := a.jobs.Remove(ctx, id); err != nil {
		a.printf("Error: %s\n", err.Error())
		return nil
	}
	a.printf("Deleted job application %d.\n", id)
	return nil
}

func (a *App) promptDraft() (*jobs.JobDraft, error) {
	draft := &jobs.JobDraft{}

	title, err := getSimpleText(a.reader, "Job title", a.out)
	if err != nil {
		return nil, err
	}
	draft.JobTitle = title

	company, err := getSimpleText(a.reader, "Company name", a.out)
	if err != nil {
		return nil, err
	}
	draft.CompanyName = company

	status, err := getSimpleText(a.reader, "Status (applied/interview/rejected/accepted)", a.out)
	if err != nil {
		return nil, err
	}
	draft.Status = models.Status(status)

	contact, err := getSimpleText(a.reader, "Contact email (optional)", a.out)
	if err != nil {
		return nil, err
	}
	draft.ContactEmail = contact

	jobURL, err := getSimpleText(a.reader, "Application URL (optional)", a.out)
	if err != nil {
		return nil, err
	}
	draft.ApplicationURL = jobURL

	notes, err := GetMultiline(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return nil, err
	}
	draft.Notes = notes

	cover, err := GetMultiline(a.reader, "Cover letter (optional)", a.out)
	if err != nil {
		return nil, err
	}
	draft.CoverLetter = cover

	return draft, nil
}

func (a *App) parseID(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		a.printf("Usage: %s <id>\n", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.printf("Invalid id: %s\n", args[0])
		return 0, false
	}
	return id, true
}
