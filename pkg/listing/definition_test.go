package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefinitions(t *testing.T) {
	defs, err := ParseDefinitions([]byte(`
listings:
  - name: employees
    endpoint: /users/get-employees
    debounce: 300ms
    sortFields: [name, department]
    filters:
      - key: department
        label: Department
        options: [Engineering, HR]
`))
	require.NoError(t, err)
	def, ok := defs["employees"]
	require.True(t, ok)
	assert.Equal(t, "employees", def.ItemsKey)
	assert.Equal(t, DefaultPageSize, def.PageSize)
	assert.Equal(t, 300*time.Millisecond, def.Debounce)
	assert.True(t, def.Sortable("name"))
	assert.False(t, def.Sortable("joiningDate"))
	f, ok := def.FilterDefinition("department")
	require.True(t, ok)
	assert.Equal(t, []string{"Engineering", "HR"}, f.Options)
}

func TestParseDefinitions_Invalid(t *testing.T) {
	cases := map[string]string{
		"not yaml":         "listings: [",
		"missing name":     "listings:\n  - endpoint: /x\n",
		"relative path":    "listings:\n  - name: a\n    endpoint: x\n",
		"reserved filter":  "listings:\n  - name: a\n    endpoint: /x\n    filters:\n      - key: page\n",
		"duplicate filter": "listings:\n  - name: a\n    endpoint: /x\n    filters:\n      - key: d\n      - key: d\n",
		"duplicate name":   "listings:\n  - name: a\n    endpoint: /x\n  - name: a\n    endpoint: /y\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(doc))
			assert.Error(t, err)
		})
	}
}
