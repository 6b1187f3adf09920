package library

import (
	"testing"

	"github.com/gradepulse/gradepulse/internal/domain/subject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	physics := c.Suggest("Physics")
	require.Len(t, physics, 9)
	assert.Equal(t, "Concepts of Physics (Vol 1 & 2)", physics[0].Title)
	assert.True(t, c.Known("Social Studies"))

	fallback := c.Suggest("Astronomy")
	require.Len(t, fallback, 2)
	assert.Equal(t, "The Art of Learning", fallback[0].Title)
	assert.False(t, c.Known("Astronomy"))
}

func TestSuggestReturnsCopy(t *testing.T) {
	c := NewCatalog(map[string][]Book{"Math": {{ID: 1, Title: "A"}}}, nil)
	got := c.Suggest("Math")
	got[0].Title = "changed"
	assert.Equal(t, "A", c.Suggest("Math")[0].Title)
}

func TestFeatured(t *testing.T) {
	c := NewCatalog(map[string][]Book{"Math": {{ID: 7, Title: "Only", Rating: 4.2}}}, nil)
	b, err := c.Featured("Math")
	require.NoError(t, err)
	assert.Equal(t, 7, b.ID)

	_, err = c.Featured("Unknown")
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	full, err := DefaultCatalog()
	require.NoError(t, err)
	pick, err := full.Featured("Deca")
	require.NoError(t, err)
	assert.Contains(t, full.Suggest("Deca"), pick)
}

func TestPager_LoadMore(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	p := NewPager(c)

	p.Select("Programming")
	assert.Len(t, p.Visible(), 3)
	p.LoadMore()
	assert.Len(t, p.Visible(), 6)
	p.LoadMore()
	p.LoadMore()
	assert.Len(t, p.Visible(), 9)
	assert.False(t, p.HasMore())

	p.Select("Unknown")
	assert.Len(t, p.Visible(), 2)
	assert.False(t, p.HasMore())
}

func TestPager_SyncFollowsStore(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	p := NewPager(c)

	records := []subject.Record{{Name: "English"}, {Name: "Hindi"}}
	p.Sync(records)
	assert.Equal(t, "English", p.Selected())

	p.Select("Hindi")
	p.LoadMore()
	p.Sync(records)
	assert.Equal(t, "Hindi", p.Selected())
	assert.Len(t, p.Visible(), 6)

	p.Sync(records[:1])
	assert.Equal(t, "English", p.Selected())
	assert.Len(t, p.Visible(), 3)

	p.Sync(nil)
	assert.Equal(t, "", p.Selected())
	assert.Empty(t, p.Visible())
}

func TestPage(t *testing.T) {
	books := make([]Book, 7)
	assert.Len(t, Page(books, 1), 3)
	assert.Len(t, Page(books, 3), 1)
	assert.Empty(t, Page(books, 4))
	assert.Len(t, Page(books, 0), 3)
}
