// Copyright (c) 2026 Triibes. All rights reserved.

package invitation_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TriibesDev/lyra-backend/internal/beta/invitation"
)

/*
TestChapterSet_Canonicalization verifies that construction sorts and
deduplicates, so any two inputs with the same members produce the same set.
*/
func TestChapterSet_Canonicalization(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"already_sorted", []string{"ch-a", "ch-b", "ch-c"}, []string{"ch-a", "ch-b", "ch-c"}},
		{"unsorted", []string{"ch-c", "ch-a", "ch-b"}, []string{"ch-a", "ch-b", "ch-c"}},
		{"duplicates", []string{"ch-b", "ch-a", "ch-b", "ch-a"}, []string{"ch-a", "ch-b"}},
		{"single", []string{"ch-x"}, []string{"ch-x"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := invitation.NewChapterSet(tt.input)
			assert.Equal(t, tt.want, set.IDs())
			assert.Equal(t, len(tt.want), set.Len())
		})
	}
}

/*
TestChapterSet_Equal confirms membership-based equality regardless of the
order or repetition of the construction input.
*/
func TestChapterSet_Equal(t *testing.T) {
	a := invitation.NewChapterSet([]string{"ch-1", "ch-3", "ch-2"})
	b := invitation.NewChapterSet([]string{"ch-2", "ch-2", "ch-1", "ch-3"})
	c := invitation.NewChapterSet([]string{"ch-1", "ch-2"})

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))
}

/*
TestChapterSet_Contains checks membership lookups against the canonical form.
*/
func TestChapterSet_Contains(t *testing.T) {
	set := invitation.NewChapterSet([]string{"ch-9", "ch-1", "ch-5"})

	assert.True(t, set.Contains("ch-1"))
	assert.True(t, set.Contains("ch-9"))
	assert.False(t, set.Contains("ch-2"))
	assert.False(t, invitation.NewChapterSet(nil).Contains("ch-1"))
}

/*
TestChapterSet_JSONRoundTrip ensures the wire form is the canonical id array
and that decoding re-canonicalizes whatever arrives.
*/
func TestChapterSet_JSONRoundTrip(t *testing.T) {
	set := invitation.NewChapterSet([]string{"ch-b", "ch-a"})

	raw, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["ch-a","ch-b"]`, string(raw))

	var decoded invitation.ChapterSet
	require.NoError(t, json.Unmarshal([]byte(`["ch-z","ch-a","ch-z"]`), &decoded))
	assert.Equal(t, []string{"ch-a", "ch-z"}, decoded.IDs())
}
