package services

import (
	"fmt"
	"strconv"

	"itinerary-service/internal/domain"
)

// Locale holds the instruction templates for one language. Templates take
// the street name and the formatted distance in kilometers; adding a locale
// is a data addition, not a code change.
type Locale struct {
	FollowStreet   string // street name known
	Continue       string // no street name
	StayOnMotorway string // no street name, motorway class
	TurnLeft       string
	TurnRight      string
	Roundabout     string
}

// FrenchLocale is the shipped default.
var FrenchLocale = Locale{
	FollowStreet:   "Suivez %s sur %s km",
	Continue:       "Continuez sur %s km",
	StayOnMotorway: "Restez sur l'autoroute sur %s km",
	TurnLeft:       "Tournez à gauche sur %s, puis continuez sur %s km",
	TurnRight:      "Tournez à droite sur %s, puis continuez sur %s km",
	Roundabout:     "Au rond-point, prenez %s sur %s km",
}

// Instruction generates the human-readable text for one segment.
//
// Template selection is keyed by the presence of a street name and the road
// type; maneuver-aware phrasing applies only when the engine supplied a turn
// modifier. The result is never empty.
func Instruction(loc Locale, streetName string, roadType domain.RoadType, maneuverModifier string, distanceKm float64) string {
	dist := formatKm(distanceKm)

	if streetName != "" {
		switch maneuverModifier {
		case "left", "sharp left", "slight left":
			return fmt.Sprintf(loc.TurnLeft, streetName, dist)
		case "right", "sharp right", "slight right":
			return fmt.Sprintf(loc.TurnRight, streetName, dist)
		case "roundabout":
			return fmt.Sprintf(loc.Roundabout, streetName, dist)
		}
		return fmt.Sprintf(loc.FollowStreet, streetName, dist)
	}

	if roadType == domain.RoadMotorway {
		return fmt.Sprintf(loc.StayOnMotorway, dist)
	}
	return fmt.Sprintf(loc.Continue, dist)
}

// formatKm renders a distance with one decimal place.
func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64)
}
