package bulk

// Object is an Eloqua object kind addressable through the Bulk API.
// The set is closed; the constants below are the only valid values.
type Object string

const (
	Accounts       Object = "accounts"
	Activities     Object = "activities"
	Contacts       Object = "contacts"
	CustomObjects  Object = "customobjects"
	EmailAddresses Object = "emailaddresses"
	Events         Object = "events"
)

// objects is the closed set of valid object kinds.
var objects = map[Object]bool{
	Accounts:       true,
	Activities:     true,
	Contacts:       true,
	CustomObjects:  true,
	EmailAddresses: true,
	Events:         true,
}

// Valid reports whether o is a known object kind.
func (o Object) Valid() bool {
	return objects[o]
}

// RequiresParent reports whether the kind is addressed through a parent
// definition id (custom object sets and event sets).
func (o Object) RequiresParent() bool {
	return o == CustomObjects || o == Events
}

// RequiresActivityType reports whether the kind needs an activity type to
// select its field catalog.
func (o Object) RequiresActivityType() bool {
	return o == Activities
}

// JobType says whether a job moves data into or out of Eloqua. The values
// double as the URL path segment for definition endpoints.
type JobType string

const (
	JobTypeImport JobType = "imports"
	JobTypeExport JobType = "exports"
)
