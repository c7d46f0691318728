package tracker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var users = []User{
	{ID: 1, Name: "jdoe", RealName: "John Doe", Email: "John.Doe@example.com"},
	{ID: 2, Name: "John Doe", RealName: "Someone Else", Email: "other@example.com"},
	{ID: 3, Name: "asmith", RealName: "Anna Smith"},
}

func TestMatchEmail(t *testing.T) {
	u, err := MatchEmail(users, "john.doe@EXAMPLE.com")
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)

	_, err = MatchEmail(users, "")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = MatchEmail(users, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMatchName(t *testing.T) {
	u, err := MatchName(users, "John Doe")
	require.NoError(t, err)
	require.Equal(t, 2, u.ID, "exact username match wins over real name")

	u, err = MatchName(users, "anna smith")
	require.NoError(t, err)
	require.Equal(t, 3, u.ID)

	_, err = MatchName(users, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIssueAddTags(t *testing.T) {
	issue := &Issue{Tags: []ObjectRef{{ID: 9, Name: "bug"}}}

	issue.AddTags([]string{"Bug", "ui", "", "ui", " backend "})

	require.Equal(t, []ObjectRef{{ID: 9, Name: "bug"}, {Name: "ui"}, {Name: "backend"}}, issue.Tags)
}

func TestIssueProjectID(t *testing.T) {
	var missing *Issue
	require.Zero(t, missing.ProjectID())
	require.Zero(t, (&Issue{}).ProjectID())
	require.Equal(t, 4, (&Issue{Project: &ObjectRef{ID: 4}}).ProjectID())
}
