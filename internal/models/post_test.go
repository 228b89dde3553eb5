package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditHistory_AppendDoesNotAlias(t *testing.T) {
	base := make(EditHistory, 1, 4)
	base[0] = "a"
	first := base.Append("b")
	second := base.Append("c")
	require.Equal(t, EditHistory{"a", "b"}, first)
	require.Equal(t, EditHistory{"a", "c"}, second)
	require.Equal(t, EditHistory{"a"}, base)
}

func TestEditHistory_Value(t *testing.T) {
	v, err := EditHistory(nil).Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)

	v, err = EditHistory{"x", "y\"z"}.Value()
	require.NoError(t, err)
	require.Equal(t, `["x","y\"z"]`, v)
}

func TestEditHistory_Scan(t *testing.T) {
	var h EditHistory
	require.NoError(t, h.Scan(nil))
	require.NotNil(t, h)
	require.Empty(t, h)

	require.NoError(t, h.Scan([]byte(`["one"]`)))
	require.Equal(t, EditHistory{"one"}, h)

	require.NoError(t, h.Scan(`["one","two"]`))
	require.Equal(t, EditHistory{"one", "two"}, h)

	require.Error(t, h.Scan(42))
	require.Error(t, h.Scan("not-json"))
}

func TestCounterColumn_Whitelist(t *testing.T) {
	require.Equal(t, "likes", CounterLikes.Column())
	require.Equal(t, "participants", CounterParticipants.Column())
	require.Empty(t, Counter("likes; DROP TABLE posts").Column())
}

func TestEngagementKind(t *testing.T) {
	require.Equal(t, "likes", EngagementLike.Table())
	require.Equal(t, CounterLikes, EngagementLike.Counter())
	require.Equal(t, "joins", EngagementJoin.Table())
	require.Equal(t, CounterParticipants, EngagementJoin.Counter())
}

func TestParseCommentOrder(t *testing.T) {
	require.Equal(t, CommentOrderOldest, ParseCommentOrder("oldest"))
	require.Equal(t, CommentOrderNewest, ParseCommentOrder("newest"))
	require.Equal(t, CommentOrderNewest, ParseCommentOrder(""))
	require.Equal(t, CommentOrderNewest, ParseCommentOrder("sideways"))
}
