package bulk

// System field tables for object-level fields that never appear in the
// instance field catalog.

// ContactSystemFields are the system-level contact fields addressable in
// bulk jobs.
var ContactSystemFields = []FieldDef{
	{Name: "contactID", DataType: "string", Statement: "{{Contact.Id}}"},
	{Name: "createdAt", DataType: "date", Statement: "{{Contact.CreatedAt}}"},
	{Name: "updatedAt", DataType: "date", Statement: "{{Contact.UpdatedAt}}"},
	{Name: "isSubscribed", DataType: "string", Statement: "{{Contact.Email.IsSubscribed}}"},
	{Name: "isBounced", DataType: "string", Statement: "{{Contact.Email.IsBounced}}"},
	{Name: "emailFormat", DataType: "string", Statement: "{{Contact.Email.Format}}"},
}

// AccountSystemFields are the system-level account fields addressable in
// bulk jobs.
var AccountSystemFields = []FieldDef{
	{Name: "accountID", DataType: "string", Statement: "{{Account.Id}}"},
	{Name: "createdAt", DataType: "date", Statement: "{{Account.CreatedAt}}"},
	{Name: "updatedAt", DataType: "date", Statement: "{{Account.UpdatedAt}}"},
}

// AddSystemFields appends object-level system fields to the job. Names
// match the table's display names; with no names the whole table is
// appended. Only contacts and accounts carry system field tables, any
// other kind is a ConfigError.
//
// The tables are static, so no request is made.
func (s *Service) AddSystemFields(job *Job, names ...string) error {
	var table []FieldDef
	switch job.Object {
	case Contacts:
		table = ContactSystemFields
	case Accounts:
		table = AccountSystemFields
	default:
		return newConfigError("no system fields defined for %s", job.Object)
	}

	if len(names) == 0 {
		job.Fields = append(job.Fields, table...)
		return nil
	}

	resolved, err := resolveFields(table, names, true)
	if err != nil {
		return err
	}
	job.Fields = append(job.Fields, resolved...)
	return nil
}
