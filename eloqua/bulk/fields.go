package bulk

import (
	"context"
	"fmt"
)

// fieldPageLimit is the page size for field catalog requests.
const fieldPageLimit = 1000

// FieldDef is a field definition from the instance catalog. Statement is
// the Eloqua markup ("{{Contact.Field(C_EmailAddress)}}") the Bulk API
// addresses the field by.
type FieldDef struct {
	Name                    string `json:"name"`
	InternalName            string `json:"internalName,omitempty"`
	DataType                string `json:"dataType,omitempty"`
	HasNotNullConstraint    bool   `json:"hasNotNullConstraint,omitempty"`
	HasReadOnlyConstraint   bool   `json:"hasReadOnlyConstraint,omitempty"`
	HasUniquenessConstraint bool   `json:"hasUniquenessConstraint,omitempty"`
	Statement               string `json:"statement"`
	DefaultValue            string `json:"defaultValue,omitempty"`
	URI                     string `json:"uri,omitempty"`
	CreatedAt               string `json:"createdAt,omitempty"`
	UpdatedAt               string `json:"updatedAt,omitempty"`
}

// ListFields retrieves the full field catalog for the job's target.
// Useful when unsure what fields are available.
//
// Activity catalogs are static tables keyed by activity type and involve
// no request.
func (s *Service) ListFields(ctx context.Context, job *Job) ([]FieldDef, error) {
	return s.listFields(ctx, job.Object, job.ParentID, job.ActivityType)
}

// ListFieldsFor retrieves the field catalog for an object kind without a
// job. Parent-addressed kinds take WithParentID, activities WithActivityType.
func (s *Service) ListFieldsFor(ctx context.Context, object Object, opts ...JobOption) ([]FieldDef, error) {
	j := &Job{Object: object, Options: make(map[string]any)}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.validate(); err != nil {
		return nil, err
	}
	return s.listFields(ctx, j.Object, j.ParentID, j.ActivityType)
}

func (s *Service) listFields(ctx context.Context, object Object, parentID int, activityType string) ([]FieldDef, error) {
	if object == Activities {
		return activityFields(activityType)
	}

	path := fmt.Sprintf("/%s/fields", object)
	if object.RequiresParent() {
		path = fmt.Sprintf("/%s/%d/fields", object, parentID)
	}

	return collectPages[FieldDef](ctx, s, path, nil, fieldPageLimit, stepByPage)
}

// AddFields resolves the given field names against the target's catalog
// and appends the matches to job.Fields. Names match the internal name or
// the display name exactly; activity fields match display name only. Every
// catalog entry matching a name is appended. With no names, the whole
// catalog is appended.
//
// A name matching nothing returns a FieldNotFoundError and leaves the job
// untouched; fields appended by earlier calls stay.
func (s *Service) AddFields(ctx context.Context, job *Job, names ...string) error {
	catalog, err := s.ListFields(ctx, job)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		job.Fields = append(job.Fields, catalog...)
		return nil
	}

	resolved, err := resolveFields(catalog, names, job.Object == Activities)
	if err != nil {
		return err
	}
	job.Fields = append(job.Fields, resolved...)
	return nil
}

// resolveFields matches names against a catalog, preserving name order and
// appending every match per name. nameOnly restricts matching to the
// display name.
func resolveFields(catalog []FieldDef, names []string, nameOnly bool) ([]FieldDef, error) {
	var out []FieldDef
	for _, name := range names {
		matched := false
		for _, field := range catalog {
			if field.Name == name || (!nameOnly && field.InternalName == name) {
				out = append(out, field)
				matched = true
			}
		}
		if !matched {
			return nil, &FieldNotFoundError{Name: name}
		}
	}
	return out, nil
}
