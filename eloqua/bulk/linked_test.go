package bulk

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eloquacloud/eloqua-sdk-go/internal/testutil"
)

func TestAddLinkedFields_ContactsIntoCustomObject(t *testing.T) {
	svc, ms := newTestService(t)
	catalog := contactCatalog()
	ms.HandleJSON(http.MethodGet, "/contacts/fields", http.StatusOK,
		testutil.SearchPage(catalog, len(catalog), fieldPageLimit, 0, len(catalog), false))

	job, err := NewExport(CustomObjects, WithParentID(5))
	require.NoError(t, err)

	err = svc.AddLinkedFields(context.Background(), job, Contacts, "C_EmailAddress")
	require.NoError(t, err)

	require.Len(t, job.Fields, 1)
	assert.Equal(t, "{{CustomObject[5].Contact.Field(C_EmailAddress)}}", job.Fields[0].Statement)
	ms.AssertLastRequestPath(t, "/contacts/fields")
}

func TestAddLinkedFields_ContactsIntoEvent(t *testing.T) {
	svc, ms := newTestService(t)
	catalog := contactCatalog()
	ms.HandleJSON(http.MethodGet, "/contacts/fields", http.StatusOK,
		testutil.SearchPage(catalog, len(catalog), fieldPageLimit, 0, len(catalog), false))

	job, err := NewExport(Events, WithParentID(12))
	require.NoError(t, err)

	err = svc.AddLinkedFields(context.Background(), job, Contacts, "First Name")
	require.NoError(t, err)

	require.Len(t, job.Fields, 1)
	assert.Equal(t, "{{Event[12].Contact.Field(C_FirstName)}}", job.Fields[0].Statement)
}

func TestAddLinkedFields_AccountsIntoContacts(t *testing.T) {
	svc, ms := newTestService(t)
	catalog := []FieldDef{
		{Name: "Company Name", InternalName: "M_CompanyName", Statement: "{{Account.Field(M_CompanyName)}}"},
		{Name: "Country", InternalName: "M_Country", Statement: "{{Account.Field(M_Country)}}"},
	}
	ms.HandleJSON(http.MethodGet, "/accounts/fields", http.StatusOK,
		testutil.SearchPage(catalog, len(catalog), fieldPageLimit, 0, len(catalog), false))

	job, err := NewExport(Contacts)
	require.NoError(t, err)

	err = svc.AddLinkedFields(context.Background(), job, Accounts)
	require.NoError(t, err)

	require.Len(t, job.Fields, 2)
	assert.Equal(t, "{{Contact.Account.Field(M_CompanyName)}}", job.Fields[0].Statement)
	assert.Equal(t, "{{Contact.Account.Field(M_Country)}}", job.Fields[1].Statement)
}

func TestAddLinkedFields_NoRewriteRule(t *testing.T) {
	svc, ms := newTestService(t)
	catalog := contactCatalog()
	ms.HandleJSON(http.MethodGet, "/contacts/fields", http.StatusOK,
		testutil.SearchPage(catalog, len(catalog), fieldPageLimit, 0, len(catalog), false))

	// Contact fields linked into a contact job have no rewrite rule.
	job, err := NewExport(Contacts)
	require.NoError(t, err)

	err = svc.AddLinkedFields(context.Background(), job, Contacts, "Email Address")
	require.NoError(t, err)

	require.Len(t, job.Fields, 1)
	assert.Equal(t, "{{Contact.Field(C_EmailAddress)}}", job.Fields[0].Statement)
}

func TestAddLinkedFields_UnknownName(t *testing.T) {
	svc, ms := newTestService(t)
	catalog := contactCatalog()
	ms.HandleJSON(http.MethodGet, "/contacts/fields", http.StatusOK,
		testutil.SearchPage(catalog, len(catalog), fieldPageLimit, 0, len(catalog), false))

	job, err := NewExport(CustomObjects, WithParentID(5))
	require.NoError(t, err)

	err = svc.AddLinkedFields(context.Background(), job, Contacts, "Shoe Size")
	require.Error(t, err)
	assert.True(t, IsFieldNotFound(err))
	assert.Empty(t, job.Fields)
}

func TestRewriteStatement(t *testing.T) {
	coJob, err := NewExport(CustomObjects, WithParentID(5))
	require.NoError(t, err)
	eventJob, err := NewExport(Events, WithParentID(12))
	require.NoError(t, err)
	contactJob, err := NewExport(Contacts)
	require.NoError(t, err)

	tests := []struct {
		name      string
		job       *Job
		linked    Object
		statement string
		want      string
	}{
		{
			"contact into custom object",
			coJob, Contacts,
			"{{Contact.Field(C_EmailAddress)}}",
			"{{CustomObject[5].Contact.Field(C_EmailAddress)}}",
		},
		{
			"contact system field into custom object",
			coJob, Contacts,
			"{{Contact.Id}}",
			"{{CustomObject[5].Contact.Id}}",
		},
		{
			"contact into event",
			eventJob, Contacts,
			"{{Contact.Field(C_FirstName)}}",
			"{{Event[12].Contact.Field(C_FirstName)}}",
		},
		{
			"account into contact",
			contactJob, Accounts,
			"{{Account.Field(M_CompanyName)}}",
			"{{Contact.Account.Field(M_CompanyName)}}",
		},
		{
			"no rule",
			contactJob, Contacts,
			"{{Contact.Field(C_EmailAddress)}}",
			"{{Contact.Field(C_EmailAddress)}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteStatement(tt.job, tt.linked, tt.statement))
		})
	}
}
