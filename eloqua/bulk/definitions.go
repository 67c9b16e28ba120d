package bulk

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Definition is a created import or export definition. URI is the handle
// syncs and data uploads address it by.
type Definition struct {
	Name                string            `json:"name"`
	Fields              map[string]string `json:"fields"`
	Filter              string            `json:"filter,omitempty"`
	IdentifierFieldName string            `json:"identifierFieldName,omitempty"`
	URI                 string            `json:"uri"`
	CreatedBy           string            `json:"createdBy,omitempty"`
	CreatedAt           string            `json:"createdAt,omitempty"`
	UpdatedBy           string            `json:"updatedBy,omitempty"`
	UpdatedAt           string            `json:"updatedAt,omitempty"`
}

// CreateDefinition submits the job as an import or export definition and
// returns the created record. The job must carry at least one field.
// Unnamed jobs get a generated name with a uuid suffix. Job options pass
// through to the definition body as-is.
func (s *Service) CreateDefinition(ctx context.Context, job *Job) (*Definition, error) {
	if len(job.Fields) == 0 {
		return nil, newConfigError("definition needs fields, add some first")
	}

	fields := make(map[string]string, len(job.Fields))
	for _, field := range job.Fields {
		fields[field.Name] = field.Statement
	}

	name := job.Name
	if name == "" {
		kind := strings.TrimSuffix(string(job.Type), "s")
		name = fmt.Sprintf("%s %s %s", job.Object, kind, uuid.NewString())
	}

	body := map[string]any{
		"name":   name,
		"fields": fields,
	}
	if filter := definitionFilter(job); filter != "" {
		body["filter"] = filter
	}
	if job.IdentifierField != "" {
		body["identifierFieldName"] = job.IdentifierField
	}
	for k, v := range job.Options {
		body[k] = v
	}

	var def Definition
	if err := s.post(ctx, fmt.Sprintf("/%s/%s", job.Object, job.Type), body, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

// DeleteDefinition removes a definition by its URI.
func (s *Service) DeleteDefinition(ctx context.Context, definitionURI string) error {
	return s.delete(ctx, definitionURI)
}

// definitionFilter joins the job's filters into one clause. Activity jobs
// always lead with the activity type condition.
func definitionFilter(job *Job) string {
	clauses := job.Filters
	if job.Object == Activities {
		typeClause := fmt.Sprintf("'{{Activity.Type}}' = '%s'", job.ActivityType)
		clauses = append([]string{typeClause}, job.Filters...)
	}
	return strings.Join(clauses, " AND ")
}
