package viewmodel

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	q := url.Values{"language": {"java"}}
	p := NewPagination("/question_submit", q, 2, 10, 35)

	assert.Equal(t, int64(4), p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, "/question_submit?current=1&language=java&pageSize=10", p.PrevURL)
	assert.Equal(t, "/question_submit?current=3&language=java&pageSize=10", p.NextURL)
	assert.Equal(t, []string{"java"}, q["language"], "input query untouched")
	assert.Empty(t, q.Get("current"))
}

func TestNewPagination_Edges(t *testing.T) {
	p := NewPagination("/x", nil, 0, 10, 0)
	assert.Equal(t, 1, p.Page)
	assert.False(t, p.HasPrev)
	assert.False(t, p.HasNext)

	last := NewPagination("/x", nil, 3, 10, 30)
	assert.False(t, last.HasNext)
	assert.Empty(t, last.NextURL)
}
