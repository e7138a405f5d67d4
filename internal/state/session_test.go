package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/sift/internal/indexd"
)

func sampleResult(urls ...string) indexd.SearchResult {
	items := make([]indexd.SearchItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, indexd.SearchItem{URL: u, Title: "title " + u, Tags: []string{"t"}})
	}
	return indexd.SearchResult{Results: items}
}

func TestSession_StartsEmptyAndIdle(t *testing.T) {
	s := NewSession()
	assert.False(t, s.IsLoading())
	assert.False(t, s.HasResults())
	assert.Equal(t, 0, s.ItemCount())
	assert.Empty(t, s.Query())
}

func TestSession_ApplyReplacesWholesale(t *testing.T) {
	s := NewSession()
	s.SetLoading(true)

	s.Apply("cat", sampleResult("http://a", "http://b", "http://c"))
	require.Equal(t, 3, s.ItemCount())
	assert.False(t, s.IsLoading())
	assert.Equal(t, "cat", s.Query())

	s.Apply("dog", sampleResult("http://z"))
	require.Equal(t, 1, s.ItemCount())
	item, ok := s.Item(0)
	require.True(t, ok)
	assert.Equal(t, "http://z", item.URL)
	assert.Equal(t, "dog", s.Query())

	_, ok = s.Item(1)
	assert.False(t, ok)
	_, ok = s.Item(-1)
	assert.False(t, ok)
}

func TestSession_ApplyCopiesInput(t *testing.T) {
	s := NewSession()
	in := sampleResult("http://a")
	s.Apply("cat", in)

	in.Results[0].Tags[0] = "mutated"
	out := s.Result()
	out.Results[0].URL = "changed"

	item, _ := s.Item(0)
	assert.Equal(t, "t", item.Tags[0])
	assert.Equal(t, "http://a", item.URL)
}

func TestSession_Clear(t *testing.T) {
	s := NewSession()
	s.Apply("cat", sampleResult("http://a"))
	s.SetLoading(true)

	s.Clear()
	assert.False(t, s.HasResults())
	assert.False(t, s.IsLoading())
	assert.Equal(t, 0, s.ItemCount())
	assert.Empty(t, s.Query())
	assert.False(t, s.UpdatedAt().IsZero())
}
