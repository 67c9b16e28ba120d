package bulk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/eloquacloud/eloqua-sdk-go/internal/httpx"
)

// ModelRef identifies a lead scoring model by exactly one of its ID or
// name.
type ModelRef struct {
	ID   int
	Name string
}

// ScoringModel is a lead scoring model with its exportable fields.
type ScoringModel struct {
	ID     int        `json:"id,omitempty"`
	Name   string     `json:"name"`
	Status string     `json:"status,omitempty"`
	URI    string     `json:"uri,omitempty"`
	Fields []FieldDef `json:"fields"`
}

// AddLeadScoreFields appends a lead scoring model's fields to the job.
// Models live under contacts regardless of the job's target; lookup is by
// ID, or by name search with spaces wildcarded, first match taken.
func (s *Service) AddLeadScoreFields(ctx context.Context, job *Job, model ModelRef) error {
	if err := validateRef(model.ID, model.Name, "scoring model"); err != nil {
		return err
	}

	if model.ID != 0 {
		var rec ScoringModel
		path := fmt.Sprintf("/contacts/scoring/models/%d", model.ID)
		if err := s.get(ctx, path, nil, &rec); err != nil {
			if httpx.IsNotFoundError(err) {
				return &NotFoundError{Resource: "scoring model", Ref: strconv.Itoa(model.ID), Err: err}
			}
			return err
		}
		job.Fields = append(job.Fields, rec.Fields...)
		return nil
	}

	query := url.Values{}
	query.Set("q", nameQuery(model.Name))

	var pg page[ScoringModel]
	if err := s.get(ctx, "/contacts/scoring/models", query, &pg); err != nil {
		return err
	}
	if len(pg.Items) == 0 {
		return &NotFoundError{Resource: "scoring model", Ref: model.Name}
	}
	job.Fields = append(job.Fields, pg.Items[0].Fields...)
	return nil
}
