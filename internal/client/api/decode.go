package api

import (
	"bytes"
	"encoding/json"

	"github.com/jobcontrolroom/jobctl/internal/client/models"
)

// listShape enumerates the known layouts a list endpoint may answer with.
// Dispatch happens in declaration order; shapeUnknown is the explicit
// fallback variant.
type listShape int

const (
	shapeUnknown listShape = iota

	// shapeBareArray: a plain JSON array of applications.
	shapeBareArray

	// shapePagedEnvelope: DRF pagination, {results, count, next, previous}.
	shapePagedEnvelope

	// shapeCanonical: already in the client's shape, {jobs, total_jobs}.
	shapeCanonical
)

// detectListShape classifies a syntactically valid JSON list body.
func detectListShape(data []byte) listShape {
	if len(data) > 0 && data[0] == '[' {
		return shapeBareArray
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return shapeUnknown
	}
	if raw, ok := probe["results"]; ok && isJSONArray(raw) {
		return shapePagedEnvelope
	}
	if raw, ok := probe["jobs"]; ok && isJSONArray(raw) {
		return shapeCanonical
	}
	return shapeUnknown
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeListResult normalizes any of the known list layouts into the
// canonical JobListResult. A valid-JSON body of an unrecognized layout
// normalizes to an empty result so list views degrade to "no results"
// instead of failing; only a body that is not JSON at all is an error.
func decodeListResult(data []byte) (*models.JobListResult, error) {
	data = bytes.TrimSpace(data)

	if !json.Valid(data) {
		return nil, NewError(KindMalformedResponse, msgBadJSON)
	}

	switch detectListShape(data) {
	case shapeBareArray:
		var jobs []models.JobApplication
		if err := json.Unmarshal(data, &jobs); err != nil {
			return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
		}
		return &models.JobListResult{Jobs: jobs, TotalCount: len(jobs)}, nil

	case shapePagedEnvelope:
		var envelope struct {
			Results  []models.JobApplication `json:"results"`
			Count    int                     `json:"count"`
			Next     *string                 `json:"next"`
			Previous *string                 `json:"previous"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
		}
		result := &models.JobListResult{Jobs: envelope.Results, TotalCount: envelope.Count}
		if envelope.Next != nil {
			result.Next = *envelope.Next
		}
		if envelope.Previous != nil {
			result.Previous = *envelope.Previous
		}
		return result, nil

	case shapeCanonical:
		var canonical struct {
			Jobs      []models.JobApplication `json:"jobs"`
			TotalJobs int                     `json:"total_jobs"`
			Next      *string                 `json:"next"`
			Previous  *string                 `json:"previous"`
		}
		if err := json.Unmarshal(data, &canonical); err != nil {
			return nil, WrapError(KindMalformedResponse, msgBadJSON, err)
		}
		result := &models.JobListResult{Jobs: canonical.Jobs, TotalCount: canonical.TotalJobs}
		if canonical.Next != nil {
			result.Next = *canonical.Next
		}
		if canonical.Previous != nil {
			result.Previous = *canonical.Previous
		}
		return result, nil

	default:
		return &models.JobListResult{Jobs: []models.JobApplication{}}, nil
	}
}
