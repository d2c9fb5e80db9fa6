package vehicle

import (
	"strings"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
)

var (
	bicycleForbiddenHighway = map[string]struct{}{
		"motorway":      struct{}{},
		"motorway_link": struct{}{},
		"motorroad":     struct{}{},
		"steps":         struct{}{},
		"construction":  struct{}{},
		"proposed":      struct{}{},
		"bus_guideway":  struct{}{},
		"platform":      struct{}{},
	}
)

// Bicycle. vehicle policy for cyclists
type Bicycle struct {
}

func NewBicycle() *Bicycle {
	return &Bicycle{}
}

func (b *Bicycle) IsAllowedWay(m mapdata.MapData, w *da.Way) bool {
	if w == nil {
		return false
	}
	tags := w.GetTags()
	if _, forbidden := bicycleForbiddenHighway[tags.Find("highway")]; forbidden {
		return tags.AnyOf("bicycle", "yes", "designated")
	}
	switch tags.Find("bicycle") {
	case "no", "private", "dismount":
		return false
	case "yes", "designated", "permissive":
		return true
	}
	if tags.AnyOf("highway", "footway", "pedestrian") {
		return false
	}
	if tags.AnyOf("access", "no", "private") || tags.AnyOf("vehicle", "no", "private") {
		return false
	}
	return true
}

func (b *Bicycle) IsAllowedNode(m mapdata.MapData, n *da.Node) bool {
	if n == nil {
		return false
	}
	tags := n.GetTags()
	if tags.AnyOf("bicycle", "no", "dismount") {
		return false
	}
	return !tags.AnyOf("barrier", "turnstile", "stile", "fence", "wall")
}

func (b *Bicycle) IsAllowedRelation(m mapdata.MapData, r *da.Relation) bool {
	if r == nil {
		return false
	}
	tags := r.GetTags()
	if except, ok := tags.Get("except"); ok && containsValue(except, "bicycle") {
		return false
	}
	return tags.Find("restriction") != "" || tags.Find("restriction:bicycle") != ""
}

func (b *Bicycle) RestrictionValue(r *da.Relation) string {
	tags := r.GetTags()
	if v := tags.Find("restriction:bicycle"); v != "" {
		return v
	}
	return tags.Find("restriction")
}

func (b *Bicycle) IsOneway(m mapdata.MapData, w *da.Way) bool {
	tags := w.GetTags()
	if tags.AnyOf("oneway:bicycle", "no", "false", "0") || strings.HasPrefix(tags.Find("cycleway"), "opposite") {
		return false
	}
	if tags.AnyOf("oneway:bicycle", "yes", "true", "1", "-1") {
		return true
	}
	oneway, _ := onewayTag(tags)
	return oneway
}

func (b *Bicycle) IsReverseOneway(m mapdata.MapData, w *da.Way) bool {
	if !b.IsOneway(m, w) {
		return false
	}
	tags := w.GetTags()
	if tags.Find("oneway:bicycle") == "-1" {
		return true
	}
	_, reverse := onewayTag(tags)
	return reverse
}

// containsValue. true if the semicolon separated osm list contains one of values
func containsValue(list string, values ...string) bool {
	for _, item := range strings.Split(list, ";") {
		item = strings.TrimSpace(item)
		for _, v := range values {
			if item == v {
				return true
			}
		}
	}
	return false
}
