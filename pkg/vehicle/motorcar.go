package vehicle

import (
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
)

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Access_restrictions
	motorcarForbiddenHighway = map[string]struct{}{
		"footway":      struct{}{},
		"cycleway":     struct{}{},
		"path":         struct{}{},
		"pedestrian":   struct{}{},
		"steps":        struct{}{},
		"bridleway":    struct{}{},
		"corridor":     struct{}{},
		"bus_guideway": struct{}{},
		"busway":       struct{}{},
		"platform":     struct{}{},
		"construction": struct{}{},
		"proposed":     struct{}{},
		"elevator":     struct{}{},
		"escalator":    struct{}{},
	}

	blockingBarrier = map[string]struct{}{
		"bollard":        struct{}{},
		"block":          struct{}{},
		"jersey_barrier": struct{}{},
		"cycle_barrier":  struct{}{},
		"turnstile":      struct{}{},
		"kissing_gate":   struct{}{},
	}

	// barriers only block when the access tag says so
	gateBarrier = map[string]struct{}{
		"gate":       struct{}{},
		"lift_gate":  struct{}{},
		"swing_gate": struct{}{},
	}
)

// Motorcar. vehicle policy for private cars
type Motorcar struct {
}

func NewMotorcar() *Motorcar {
	return &Motorcar{}
}

// accessValue. most specific access tag wins: motorcar > motor_vehicle > vehicle > access
func (mc *Motorcar) accessValue(tags da.Tags) (string, bool) {
	for _, key := range []string{"motorcar", "motor_vehicle", "vehicle", "access"} {
		if v, ok := tags.Get(key); ok {
			return v, true
		}
	}
	return "", false
}

func (mc *Motorcar) IsAllowedWay(m mapdata.MapData, w *da.Way) bool {
	if w == nil {
		return false
	}
	tags := w.GetTags()
	if _, forbidden := motorcarForbiddenHighway[tags.Find("highway")]; forbidden {
		return false
	}

	access, explicit := mc.accessValue(tags)
	if explicit {
		switch access {
		case "no", "private", "agricultural", "forestry", "delivery", "customers", "emergency":
			return false
		case "yes", "permissive", "designated", "destination":
			return true
		}
	}

	// public transport only lanes / streets
	if tags.AnyOf("psv", "yes", "designated", "only") || tags.AnyOf("bus", "designated", "only") ||
		tags.AnyOf("service", "bus") {
		_, carTagged := tags.Get("motorcar")
		_, motorTagged := tags.Get("motor_vehicle")
		if !carTagged && !motorTagged {
			return false
		}
	}

	// missing highway tag -> traversable
	return true
}

func (mc *Motorcar) IsAllowedNode(m mapdata.MapData, n *da.Node) bool {
	if n == nil {
		return false
	}
	tags := n.GetTags()
	barrier := tags.Find("barrier")
	if barrier == "" {
		return true
	}
	access, explicit := mc.accessValue(tags)
	if _, ok := blockingBarrier[barrier]; ok {
		return explicit && (access == "yes" || access == "permissive" || access == "designated")
	}
	if _, ok := gateBarrier[barrier]; ok {
		return !(explicit && (access == "no" || access == "private"))
	}
	return true
}

// IsAllowedRelation. false if the relation does not apply to cars (restriction "except" list)
func (mc *Motorcar) IsAllowedRelation(m mapdata.MapData, r *da.Relation) bool {
	if r == nil {
		return false
	}
	tags := r.GetTags()
	if except, ok := tags.Get("except"); ok && containsValue(except, "motorcar", "motor_vehicle") {
		return false
	}
	if r.IsRestriction() && tags.Find("restriction") == "" && tags.Find("restriction:motorcar") == "" &&
		tags.Find("restriction:motor_vehicle") == "" {
		// vehicle specific restriction for someone else, e.g. restriction:hgv
		return false
	}
	return true
}

// RestrictionValue. restriction kind for cars, vehicle specific keys win over the generic one
func (mc *Motorcar) RestrictionValue(r *da.Relation) string {
	tags := r.GetTags()
	for _, key := range []string{"restriction:motorcar", "restriction:motor_vehicle", "restriction"} {
		if v := tags.Find(key); v != "" {
			return v
		}
	}
	return ""
}

func (mc *Motorcar) IsOneway(m mapdata.MapData, w *da.Way) bool {
	tags := w.GetTags()
	okvf, okmvf, okvb, okmvb := getReversedOneWay(tags)
	if okvf || okmvf || okvb || okmvb {
		return true
	}
	oneway, _ := onewayTag(tags)
	return oneway
}

func (mc *Motorcar) IsReverseOneway(m mapdata.MapData, w *da.Way) bool {
	tags := w.GetTags()
	okvf, okmvf, okvb, okmvb := getReversedOneWay(tags)
	if okvf || okmvf {
		// okvf / omvf = restricted/not allowed forward.
		return !(okvb || okmvb)
	}
	_, reverse := onewayTag(tags)
	return reverse
}
