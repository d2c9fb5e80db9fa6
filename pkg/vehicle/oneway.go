package vehicle

import (
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
)

func isRestricted(value string) bool {
	if value == "no" || value == "restricted" || value == "private" {
		return true
	}
	return false
}

// getReversedOneWay. forward / backward access restrictions for motor vehicles
func getReversedOneWay(tags da.Tags) (bool, bool, bool, bool) {
	vehicleForward := tags.Find("vehicle:forward")
	motorVehicleForward := tags.Find("motor_vehicle:forward")
	vehicleBackward := tags.Find("vehicle:backward")
	motorVehicleBackward := tags.Find("motor_vehicle:backward")
	return isRestricted(vehicleForward), isRestricted(motorVehicleForward), isRestricted(vehicleBackward), isRestricted(motorVehicleBackward)
}

// onewayTag. (oneway, reverse) from the plain oneway tag and the implied oneway of roundabouts and motorways
func onewayTag(tags da.Tags) (bool, bool) {
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return true, true
	case "no", "false", "0":
		return false, false
	}

	if tags.AnyOf("junction", "roundabout", "circular") {
		return true, false
	}
	if tags.AnyOf("highway", "motorway", "motorway_link") {
		return true, false
	}
	return false, false
}
