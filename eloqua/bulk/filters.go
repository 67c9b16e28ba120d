package bulk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/eloquacloud/eloqua-sdk-go/internal/httpx"
)

// existsTemplate wraps a list statement into a filter clause. The
// surrounding spaces are part of the clause.
const existsTemplate = " EXISTS('%s') "

// ListRef identifies a shared contact or account list by exactly one of
// its ID or name.
type ListRef struct {
	ID   int
	Name string
}

// FilterExistsList fetches a shared list and appends an EXISTS filter on
// its statement to the job. Lookup is by ID, or by name search with
// spaces wildcarded.
func (s *Service) FilterExistsList(ctx context.Context, job *Job, list ListRef) error {
	if err := validateRef(list.ID, list.Name, "list"); err != nil {
		return err
	}

	var statement string
	if list.ID != 0 {
		var rec SharedList
		path := fmt.Sprintf("/%s/lists/%d", job.Object, list.ID)
		if err := s.get(ctx, path, nil, &rec); err != nil {
			if httpx.IsNotFoundError(err) {
				return &NotFoundError{Resource: "shared list", Ref: strconv.Itoa(list.ID), Err: err}
			}
			return err
		}
		statement = rec.Statement
	} else {
		query := url.Values{}
		query.Set("q", nameQuery(list.Name))

		var pg page[SharedList]
		if err := s.get(ctx, fmt.Sprintf("/%s/lists", job.Object), query, &pg); err != nil {
			return err
		}
		if len(pg.Items) == 0 {
			return &NotFoundError{Resource: "shared list", Ref: list.Name}
		}
		statement = pg.Items[0].Statement
	}

	job.Filters = append(job.Filters, fmt.Sprintf(existsTemplate, statement))
	return nil
}

// nameQuery builds the q parameter for a name search. Spaces become
// wildcards; the double quotes are part of the value.
func nameQuery(name string) string {
	return fmt.Sprintf(`"name=%s"`, strings.ReplaceAll(name, " ", "*"))
}

// validateRef enforces the exactly-one-of contract on an ID/name pair.
func validateRef(id int, name, what string) error {
	switch {
	case id == 0 && name == "":
		return newConfigError("%s reference requires an id or a name", what)
	case id != 0 && name != "":
		return newConfigError("%s reference takes an id or a name, not both", what)
	}
	return nil
}
