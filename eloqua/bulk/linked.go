package bulk

import (
	"context"
	"fmt"
	"strings"
)

// AddLinkedFields resolves names against a linked object's catalog,
// rewrites each match's statement to be addressable from the job's
// target, and appends the results to job.Fields. With no names the whole
// linked catalog is taken.
//
// Contact fields linked into a custom object or event job are addressed
// through the parent record; account fields are reached through the
// contact. Combinations outside those rules keep their statements
// untouched.
func (s *Service) AddLinkedFields(ctx context.Context, job *Job, linked Object, names ...string) error {
	catalog, err := s.ListFieldsFor(ctx, linked)
	if err != nil {
		return err
	}

	src := catalog
	if len(names) > 0 {
		src, err = resolveFields(catalog, names, false)
		if err != nil {
			return err
		}
	}

	fields := make([]FieldDef, len(src))
	for i, field := range src {
		field.Statement = rewriteStatement(job, linked, field.Statement)
		fields[i] = field
	}
	job.Fields = append(job.Fields, fields...)
	return nil
}

func rewriteStatement(job *Job, linked Object, statement string) string {
	switch {
	case linked == Contacts && job.Object == CustomObjects:
		return strings.ReplaceAll(statement, "Contact.",
			fmt.Sprintf("CustomObject[%d].Contact.", job.ParentID))
	case linked == Contacts && job.Object == Events:
		return strings.ReplaceAll(statement, "Contact.",
			fmt.Sprintf("Event[%d].Contact.", job.ParentID))
	case linked == Accounts:
		return strings.ReplaceAll(statement, "Account.", "Contact.Account.")
	}
	return statement
}
