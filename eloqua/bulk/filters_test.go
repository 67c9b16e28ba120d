package bulk

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eloquacloud/eloqua-sdk-go/internal/httpx"
	"github.com/eloquacloud/eloqua-sdk-go/internal/testutil"
)

func TestFilterExistsList_ByID(t *testing.T) {
	svc, ms := newTestService(t)
	ms.HandleJSON(http.MethodGet, "/contacts/lists/1", http.StatusOK, map[string]any{
		"name":      "Test List 1",
		"statement": "{{ContactList[1]}}",
		"uri":       "/contacts/lists/1",
	})

	job, err := NewExport(Contacts)
	require.NoError(t, err)

	err = svc.FilterExistsList(context.Background(), job, ListRef{ID: 1})
	require.NoError(t, err)

	require.Len(t, job.Filters, 1)
	assert.Equal(t, " EXISTS('{{ContactList[1]}}') ", job.Filters[0])
}

func TestFilterExistsList_ByName(t *testing.T) {
	svc, ms := newTestService(t)
	items := []map[string]any{
		{"name": "Test List 1", "statement": "{{ContactList[1]}}"},
	}
	ms.HandleJSON(http.MethodGet, "/contacts/lists", http.StatusOK,
		testutil.SearchPage(items, 1, 1000, 0, 1, false))

	job, err := NewExport(Contacts)
	require.NoError(t, err)

	err = svc.FilterExistsList(context.Background(), job, ListRef{Name: "Test List 1"})
	require.NoError(t, err)

	ms.AssertLastRequestQuery(t, "q", `"name=Test*List*1"`)
	require.Len(t, job.Filters, 1)
	assert.Equal(t, " EXISTS('{{ContactList[1]}}') ", job.Filters[0])
}

func TestFilterExistsList_AccountList(t *testing.T) {
	svc, ms := newTestService(t)
	ms.HandleJSON(http.MethodGet, "/accounts/lists/3", http.StatusOK, map[string]any{
		"statement": "{{AccountList[3]}}",
	})

	job, err := NewExport(Accounts)
	require.NoError(t, err)

	err = svc.FilterExistsList(context.Background(), job, ListRef{ID: 3})
	require.NoError(t, err)

	ms.AssertLastRequestPath(t, "/accounts/lists/3")
	require.Len(t, job.Filters, 1)
	assert.Equal(t, " EXISTS('{{AccountList[3]}}') ", job.Filters[0])
}

func TestFilterExistsList_ByID_NotFound(t *testing.T) {
	svc, ms := newTestService(t)
	ms.HandleError(http.MethodGet, "/contacts/lists/99", http.StatusNotFound,
		"There was no list for id 99.")

	job, err := NewExport(Contacts)
	require.NoError(t, err)

	err = svc.FilterExistsList(context.Background(), job, ListRef{ID: 99})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, httpx.IsNotFoundError(err))
	assert.EqualError(t, err, "shared list not found: 99")
	assert.Empty(t, job.Filters)
}

func TestFilterExistsList_ByName_NoMatch(t *testing.T) {
	svc, ms := newTestService(t)
	ms.HandleJSON(http.MethodGet, "/contacts/lists", http.StatusOK,
		testutil.SearchPage([]map[string]any{}, 0, 1000, 0, 0, false))

	job, err := NewExport(Contacts)
	require.NoError(t, err)

	err = svc.FilterExistsList(context.Background(), job, ListRef{Name: "No Such List"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "shared list not found: No Such List")
	assert.Empty(t, job.Filters)
}

func TestFilterExistsList_RefValidation(t *testing.T) {
	tests := []struct {
		name string
		ref  ListRef
	}{
		{"neither", ListRef{}},
		{"both", ListRef{ID: 1, Name: "Test List 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ms := newTestService(t)

			job, err := NewExport(Contacts)
			require.NoError(t, err)

			err = svc.FilterExistsList(context.Background(), job, tt.ref)
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
			ms.AssertRequestCount(t, 0)
		})
	}
}

func TestNameQuery(t *testing.T) {
	assert.Equal(t, `"name=Test*List*1"`, nameQuery("Test List 1"))
	assert.Equal(t, `"name=Hot"`, nameQuery("Hot"))
}
