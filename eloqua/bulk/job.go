package bulk

// Job is the in-memory specification of a Bulk import or export being
// assembled. Builder calls on Service resolve names against the instance
// and append to Fields and Filters; CreateDefinition turns the result into
// a definition on the Eloqua side.
//
// A Job belongs to its creator. It is not safe for concurrent use.
type Job struct {
	// Type says whether the job imports or exports.
	Type JobType
	// Object is the target object kind.
	Object Object
	// ParentID is the parent definition id for custom object sets and events.
	ParentID int
	// ActivityType selects the activity field catalog for activity exports.
	ActivityType string

	// Name becomes the definition name. Auto-generated when empty.
	Name string
	// IdentifierField names the field imports match existing records on.
	IdentifierField string

	// Fields are the resolved field definitions, in the order added.
	Fields []FieldDef
	// Filters are filter statement fragments, joined with AND on submission.
	Filters []string
	// Options are extra definition properties passed through on submission.
	Options map[string]any
}

// JobOption configures a Job at construction time.
type JobOption func(*Job)

// WithParentID sets the parent definition id (required for custom object
// sets and events).
func WithParentID(id int) JobOption {
	return func(j *Job) {
		j.ParentID = id
	}
}

// WithActivityType sets the activity type (required for activities).
func WithActivityType(actType string) JobOption {
	return func(j *Job) {
		j.ActivityType = actType
	}
}

// WithName sets the definition name.
func WithName(name string) JobOption {
	return func(j *Job) {
		j.Name = name
	}
}

// WithIdentifierField names the field imports match existing records on.
func WithIdentifierField(name string) JobOption {
	return func(j *Job) {
		j.IdentifierField = name
	}
}

// WithOption sets an extra definition property, passed through verbatim on
// submission (e.g. "areSystemTimestampsInUTC": true).
func WithOption(key string, value any) JobOption {
	return func(j *Job) {
		j.Options[key] = value
	}
}

// NewImport creates a job that moves data into Eloqua.
func NewImport(object Object, opts ...JobOption) (*Job, error) {
	return newJob(JobTypeImport, object, opts...)
}

// NewExport creates a job that moves data out of Eloqua.
func NewExport(object Object, opts ...JobOption) (*Job, error) {
	return newJob(JobTypeExport, object, opts...)
}

func newJob(jobType JobType, object Object, opts ...JobOption) (*Job, error) {
	j := &Job{
		Type:    jobType,
		Object:  object,
		Options: make(map[string]any),
	}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.validate(); err != nil {
		return nil, err
	}
	return j, nil
}

// validate checks the target configuration.
func (j *Job) validate() error {
	if !j.Object.Valid() {
		return newConfigError("invalid object %q", j.Object)
	}
	if j.Object.RequiresParent() && j.ParentID == 0 {
		return newConfigError("parent id required for %s", j.Object)
	}
	if j.Object.RequiresActivityType() && j.ActivityType == "" {
		return newConfigError("activity type required for %s", j.Object)
	}
	return nil
}

// Reset discards accumulated fields, filters, options, and naming. The
// target (type, object, parent, activity type) is kept.
func (j *Job) Reset() {
	j.Name = ""
	j.IdentifierField = ""
	j.Fields = nil
	j.Filters = nil
	j.Options = make(map[string]any)
}
