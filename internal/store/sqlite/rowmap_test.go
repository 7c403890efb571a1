package sqlite

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIDList(t *testing.T) {
	t.Run("Null", func(t *testing.T) {
		got := splitIDList(sql.NullString{})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Empty", func(t *testing.T) {
		got := splitIDList(sql.NullString{String: "", Valid: true})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Single", func(t *testing.T) {
		got := splitIDList(sql.NullString{String: "a", Valid: true})
		assert.Equal(t, []string{"a"}, got)
	})

	t.Run("Deduplicates", func(t *testing.T) {
		got := splitIDList(sql.NullString{String: "a,b,a,c,b", Valid: true})
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})
}
