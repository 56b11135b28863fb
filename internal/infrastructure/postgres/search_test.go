package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme", "Acme"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\tmp`, `c:\\tmp`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), tt.in)
	}
}

func TestSearchClause_ComodinesLiterales(t *testing.T) {
	where, args := searchClause(" 50%_off ")
	assert.Contains(t, where, `ILIKE $1 ESCAPE '\'`)
	assert.Equal(t, []any{`%50\%\_off%`}, args)
}

func TestSearchClause_CorrelativoBuscaPorID(t *testing.T) {
	where, args := searchClause("co00007")
	assert.Contains(t, where, "q.id = $2")
	assert.Equal(t, []any{"%co00007%", int64(7)}, args)

	where, args = searchClause("   ")
	assert.Empty(t, where)
	assert.Nil(t, args)
}
