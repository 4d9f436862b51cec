package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		want       Page
	}{
		{"first page", 1, 10, Page{Page: 1, Size: 10, Offset: 0}},
		{"third page", 3, 10, Page{Page: 3, Size: 10, Offset: 20}},
		{"page below one", 0, 10, Page{Page: 1, Size: 10, Offset: 0}},
		{"size too large", 2, 1000, Page{Page: 2, Size: DefaultPageSize, Offset: DefaultPageSize}},
		{"size zero", 1, 0, Page{Page: 1, Size: DefaultPageSize, Offset: 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Calculate(tt.page, tt.size), tt.name)
	}
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParsePage("", ""))

	p := ParsePage("2", "")
	require.NotNil(t, p)
	assert.Equal(t, Page{Page: 2, Size: DefaultPageSize, Offset: DefaultPageSize}, *p)

	p = ParsePage("x", "5")
	require.NotNil(t, p)
	assert.Equal(t, Page{Page: 1, Size: 5, Offset: 0}, *p)
}

func TestMeta(t *testing.T) {
	t.Parallel()

	m := Calculate(2, 10).Meta(25)
	assert.Equal(t, Meta{Page: 2, Size: 10, Total: 25, TotalPages: 3, HasPrev: true, HasNext: true}, m)

	last := Calculate(3, 10).Meta(25)
	assert.False(t, last.HasNext)
}
