package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yesilw0rks/airnote/pkg/core"
)

func TestNote_IsEmpty(t *testing.T) {
	assert.True(t, core.Note{}.IsEmpty())
	assert.True(t, core.Note{Title: "  ", Content: "\n\t"}.IsEmpty())
	assert.False(t, core.Note{Title: "t"}.IsEmpty())
	assert.False(t, core.Note{Content: "c"}.IsEmpty())
	assert.True(t, core.Draft{Title: " "}.IsEmpty())
}

func TestNote_Excerpt(t *testing.T) {
	n := core.Note{Content: "## Head\n**bold** _u_ -s-"}
	assert.Equal(t, " Head\nbold u -s-", n.Excerpt())
}

func TestAddTag(t *testing.T) {
	var tags []string
	tags = core.AddTag(tags, " work ")
	tags = core.AddTag(tags, "")
	tags = core.AddTag(tags, "home")
	tags = core.AddTag(tags, "work")
	assert.Equal(t, []string{"work", "home"}, tags)

	tags = core.RemoveTag(tags, "work")
	assert.Equal(t, []string{"home"}, tags)

	assert.Equal(t, []string{"a", "b"}, core.NormalizeTags([]string{"a", " a", "", "b", "a"}))
}

func TestFilter_Match(t *testing.T) {
	n := core.Note{UserID: "u1", Space: "Work"}

	assert.True(t, core.Filter{}.Match(n))
	assert.True(t, core.Filter{UserID: "u1", Space: core.AllSpaces}.Match(n))
	assert.True(t, core.Filter{UserID: "u1", Space: "Work"}.Match(n))
	assert.False(t, core.Filter{UserID: "u2"}.Match(n))
	assert.False(t, core.Filter{Space: "General"}.Match(n))
}

func TestUpsert_ReplaceOrPrepend(t *testing.T) {
	notes := []core.Note{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}

	replaced := core.Upsert(notes, core.Note{ID: "b", Title: "B2"})
	assert.Equal(t, []core.Note{{ID: "a", Title: "A"}, {ID: "b", Title: "B2"}}, replaced)
	assert.Equal(t, "B", notes[1].Title, "input must not be modified")

	prepended := core.Upsert(notes, core.Note{ID: "c", Title: "C"})
	assert.Len(t, prepended, 3)
	assert.Equal(t, "c", prepended[0].ID)
}

func TestDraftOf_CopiesTags(t *testing.T) {
	n := core.Note{ID: "x", Tags: []string{"a"}}
	d := core.DraftOf(n)
	d.Tags[0] = "changed"
	assert.Equal(t, "a", n.Tags[0])
	assert.Equal(t, "x", d.ID)
}
