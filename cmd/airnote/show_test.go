package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesilw0rks/airnote/pkg/core"
)

func TestFindNote(t *testing.T) {
	notes := []core.Note{
		{ID: "3f2a9c10-aaaa", Title: "one"},
		{ID: "3f2b0000-bbbb", Title: "two"},
		{ID: "abc", Title: "exact"},
		{ID: "abcdef", Title: "longer"},
	}

	n, err := findNote(notes, "3f2a")
	require.NoError(t, err)
	assert.Equal(t, "one", n.Title)

	// An exact match wins over a prefix match.
	n, err = findNote(notes, "abc")
	require.NoError(t, err)
	assert.Equal(t, "exact", n.Title)

	_, err = findNote(notes, "3f2")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = findNote(notes, "zzz")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDescribe(t *testing.T) {
	plain := errors.New("identity cannot be empty")
	assert.Equal(t, plain.Error(), describe(plain))

	remote := fmt.Errorf("%w: dial tcp: refused", core.ErrRemoteUnavailable)
	assert.Equal(t, "The note service is unreachable.", describe(remote))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f2a9c10", shortID("3f2a9c10-1111-2222"))
	assert.Equal(t, "abc", shortID("abc"))
}
