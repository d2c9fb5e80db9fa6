package pkg

const (
	INF_WEIGHT float64 = 1e15

	DEFAULT_REROUTE_THRESHOLD_KM = 0.15
	DEFAULT_SPEECH_THRESHOLD_KM  = 0.2

	// metric costs are expressed as meters driven at REFERENCE_SPEED_KMH
	REFERENCE_SPEED_KMH = 120.0
	DEFAULT_SPEED_KMH   = 30.0
	MIN_SPEED_KMH       = 1.0
)

type OsmHighwayType uint8

// enum buat osm highway buat routing: https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
const (
	MOTORWAY       OsmHighwayType = 0
	TRUNK          OsmHighwayType = 1
	PRIMARY        OsmHighwayType = 2
	SECONDARY      OsmHighwayType = 3
	TERTIARY       OsmHighwayType = 4
	RESIDENTIAL    OsmHighwayType = 5
	SERVICE        OsmHighwayType = 6
	UNCLASSIFIED   OsmHighwayType = 7
	MOTORWAY_LINK  OsmHighwayType = 8
	TRUNK_LINK     OsmHighwayType = 9
	PRIMARY_LINK   OsmHighwayType = 10
	SECONDARY_LINK OsmHighwayType = 11
	TERTIARY_LINK  OsmHighwayType = 12
	LIVING_STREET  OsmHighwayType = 13
	ROAD           OsmHighwayType = 14
	TRACK          OsmHighwayType = 15
	MOTORROAD      OsmHighwayType = 16
	UNKNOWN        OsmHighwayType = 17
)

func GetHighwayType(roadType string) OsmHighwayType {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "unclassified":
		return UNCLASSIFIED
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	case "road":
		return ROAD
	case "track":
		return TRACK
	case "motorroad":
		return MOTORROAD
	default:
		return UNKNOWN
	}
}

// DefaultSpeed. class based speed estimate in km/h, used when a way carries no usable maxspeed.
func (h OsmHighwayType) DefaultSpeed() float64 {
	switch h {
	case MOTORWAY:
		return 120
	case MOTORWAY_LINK:
		return 80
	case TRUNK:
		return 100
	case TRUNK_LINK:
		return 70
	case MOTORROAD:
		return 90
	case PRIMARY:
		return 80
	case PRIMARY_LINK:
		return 60
	case SECONDARY:
		return 70
	case SECONDARY_LINK:
		return 50
	case TERTIARY:
		return 60
	case TERTIARY_LINK:
		return 40
	case UNCLASSIFIED:
		return 50
	case RESIDENTIAL, ROAD:
		return 40
	case SERVICE:
		return 30
	case TRACK:
		return 20
	case LIVING_STREET:
		return 10
	default:
		return DEFAULT_SPEED_KMH
	}
}

func (h OsmHighwayType) IsLink() bool {
	return h == MOTORWAY_LINK || h == TRUNK_LINK || h == PRIMARY_LINK || h == SECONDARY_LINK || h == TERTIARY_LINK
}

// enum of osm turn restriction kind: https://wiki.openstreetmap.org/wiki/Relation:restriction
type RestrictionKind uint8

const (
	UNKNOWN_RESTRICTION RestrictionKind = iota
	NO_LEFT_TURN
	NO_RIGHT_TURN
	NO_STRAIGHT_ON
	NO_U_TURN
	NO_ENTRY
	NO_EXIT
	ONLY_LEFT_TURN
	ONLY_RIGHT_TURN
	ONLY_STRAIGHT_ON
	ONLY_U_TURN
)

func ParseRestrictionKind(value string) RestrictionKind {
	switch value {
	case "no_left_turn":
		return NO_LEFT_TURN
	case "no_right_turn":
		return NO_RIGHT_TURN
	case "no_straight_on":
		return NO_STRAIGHT_ON
	case "no_u_turn":
		return NO_U_TURN
	case "no_entry":
		return NO_ENTRY
	case "no_exit":
		return NO_EXIT
	case "only_left_turn":
		return ONLY_LEFT_TURN
	case "only_right_turn":
		return ONLY_RIGHT_TURN
	case "only_straight_on":
		return ONLY_STRAIGHT_ON
	case "only_u_turn":
		return ONLY_U_TURN
	default:
		return UNKNOWN_RESTRICTION
	}
}

func (k RestrictionKind) IsNegative() bool {
	return k >= NO_LEFT_TURN && k <= NO_EXIT
}

func (k RestrictionKind) IsPositive() bool {
	return k >= ONLY_LEFT_TURN && k <= ONLY_U_TURN
}

func (k RestrictionKind) String() string {
	switch k {
	case NO_LEFT_TURN:
		return "no_left_turn"
	case NO_RIGHT_TURN:
		return "no_right_turn"
	case NO_STRAIGHT_ON:
		return "no_straight_on"
	case NO_U_TURN:
		return "no_u_turn"
	case NO_ENTRY:
		return "no_entry"
	case NO_EXIT:
		return "no_exit"
	case ONLY_LEFT_TURN:
		return "only_left_turn"
	case ONLY_RIGHT_TURN:
		return "only_right_turn"
	case ONLY_STRAIGHT_ON:
		return "only_straight_on"
	case ONLY_U_TURN:
		return "only_u_turn"
	default:
		return "unknown"
	}
}
