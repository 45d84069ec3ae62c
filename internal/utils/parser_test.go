package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitleYear(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		wantYear int // 0 表示无年份
	}{
		{"standard", "Heat (1995)", "Heat", 1995},
		{"trailing spaces", "  Heat (1995)  ", "Heat", 1995},
		{"no year", "Heat", "Heat", 0},
		{"parens inside title", "Seven (a.k.a. Se7en) (1995)", "Seven (a.k.a. Se7en)", 1995},
		{"year not at end", "2001: A Space Odyssey", "2001: A Space Odyssey", 0},
		{"three digit year ignored", "Old Movie (999)", "Old Movie (999)", 0},
		{"empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, year := ExtractTitleYear(tt.raw)
			assert.Equal(t, tt.want, title)
			if tt.wantYear == 0 {
				assert.Nil(t, year)
			} else {
				require.NotNil(t, year)
				assert.Equal(t, tt.wantYear, *year)
			}
		})
	}
}

func TestParseGenres(t *testing.T) {
	assert.Equal(t, []string{"Action", "Comedy"}, ParseGenres("Action|Comedy"))
	assert.Equal(t, []string{"Action"}, ParseGenres("Action"))
	assert.Equal(t, []string{"Action", "Comedy"}, ParseGenres(" Action | Comedy "))
	assert.Equal(t, []string{"Action"}, ParseGenres("Action||"))

	// 占位值和空串都表示"无类型"
	assert.Empty(t, ParseGenres(NoGenresSentinel))
	assert.Empty(t, ParseGenres(""))
}
