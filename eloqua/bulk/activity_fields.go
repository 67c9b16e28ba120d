package bulk

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Activity exports have no queryable field catalog; the Bulk API only
// accepts the fixed per-type field sets shipped here.
//
//go:embed activity_fields.json
var activityFieldsJSON []byte

var (
	activityOnce   sync.Once
	activityTables map[string][]FieldDef
	activityErr    error
)

func loadActivityTables() {
	activityErr = json.Unmarshal(activityFieldsJSON, &activityTables)
	if activityErr != nil {
		activityErr = fmt.Errorf("load activity field tables: %w", activityErr)
	}
}

// activityFields returns the static field table for an activity type.
func activityFields(activityType string) ([]FieldDef, error) {
	activityOnce.Do(loadActivityTables)
	if activityErr != nil {
		return nil, activityErr
	}
	fields, ok := activityTables[activityType]
	if !ok {
		return nil, newConfigError("unknown activity type %q", activityType)
	}
	return fields, nil
}

// ActivityTypes returns the supported activity type names, sorted.
func ActivityTypes() []string {
	activityOnce.Do(loadActivityTables)
	if activityErr != nil {
		return nil
	}
	types := make([]string, 0, len(activityTables))
	for t := range activityTables {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
