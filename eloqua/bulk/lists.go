package bulk

import (
	"context"
	"fmt"
	"net/url"
)

// listPageLimit is the page size for shared list requests.
const listPageLimit = 200

// SharedList is a shared contact or account list as the Bulk API reports
// it. Statement is the markup EXISTS filters reference the list by.
type SharedList struct {
	Name      string `json:"name"`
	Count     int    `json:"count,omitempty"`
	Statement string `json:"statement"`
	URI       string `json:"uri,omitempty"`
	CreatedBy string `json:"createdBy,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ListLists retrieves the shared lists defined for an object kind,
// optionally narrowed by a name search. Spaces in the search become
// wildcards, the same matching FilterExistsList uses for name lookups.
func (s *Service) ListLists(ctx context.Context, object Object, search string) ([]SharedList, error) {
	if !object.Valid() {
		return nil, newConfigError("invalid object %q", string(object))
	}

	var query url.Values
	if search != "" {
		query = url.Values{}
		query.Set("q", nameQuery(search))
	}
	return collectPages[SharedList](ctx, s, fmt.Sprintf("/%s/lists", object), query, listPageLimit, stepByCount)
}
