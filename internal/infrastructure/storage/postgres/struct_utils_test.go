package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testBase struct {
	ID      string `db:"id"`
	Version int    `db:"version"`
}

type testEntity struct {
	testBase

	Name     string  `db:"name"`
	Contact  *string `db:"contact_no"`
	Ignored  string  `db:"-"`
	Untagged string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testEntity]()
	assert.Equal(t, []string{"id", "version", "name", "contact_no"}, cols)
}

func TestStructToMap(t *testing.T) {
	contact := "9876543210"
	e := &testEntity{
		testBase: testBase{ID: "abc", Version: 3},
		Name:     "Sharma Constructions",
		Contact:  &contact,
		Ignored:  "skip",
		Untagged: "skip",
	}

	m := StructToMap(e)

	assert.Equal(t, "abc", m["id"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "Sharma Constructions", m["name"])
	assert.Equal(t, &contact, m["contact_no"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 4)
}

func TestStructToMapNonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
