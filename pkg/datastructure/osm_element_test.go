package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWayIndices(t *testing.T) {
	open := NewWay(1, []int64{10, 11, 12}, NewTags("highway", "primary"))
	closed := NewWay(2, []int64{20, 21, 22, 23, 20}, NewTags("junction", "roundabout"))

	assert.False(t, open.IsClosed())
	assert.True(t, closed.IsClosed())
	assert.True(t, closed.IsRoundabout())
	assert.Equal(t, 1, open.IndexOf(11))
	assert.Equal(t, -1, open.IndexOf(99))
	assert.Equal(t, []int{0}, closed.IndicesOf(20))
	assert.Equal(t, []int{2}, closed.IndicesOf(22))
}

func TestRelationMembersWithRole(t *testing.T) {
	rel := NewRelation(7, NewTags("type", "restriction", "restriction", "no_left_turn"), []Member{
		NewMember(MEMBER_WAY, 1, "from"),
		NewMember(MEMBER_NODE, 2, "via"),
		NewMember(MEMBER_WAY, 3, "to"),
	})
	assert.True(t, rel.IsRestriction())
	assert.Len(t, rel.MembersWithRole("via"), 1)
	assert.Equal(t, int64(3), rel.MembersWithRole("to")[0].Ref)
	assert.Empty(t, rel.MembersWithRole("location_hint"))
}

func TestTags(t *testing.T) {
	tags := NewTags("highway", "residential", "name", "Jalan Malioboro")
	assert.Equal(t, "residential", tags.Find("highway"))
	assert.True(t, tags.AnyOf("highway", "primary", "residential"))
	assert.False(t, tags.Has("oneway"))

	var nilTags Tags
	assert.Equal(t, "", nilTags.Find("highway"))
}
