package event

import (
	"fmt"

	"atc-grid/internal/game/flightplan"
	"atc-grid/pkg/types"
)

// Event is an occurrence in the simulation that outside consumers may care
// about. The set of events is closed.
type Event interface {
	Kind() Kind
	isEvent()
}

type Kind int

const (
	PhaseStartedKind Kind = iota
	AirplaneDetectedKind
	AirplaneLandedKind
	AirplaneLostKind
	NumKinds
)

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return []string{"PhaseStarted", "AirplaneDetected", "AirplaneLanded", "AirplaneLost"}[k]
}

type PhaseStarted struct{}

func (PhaseStarted) Kind() Kind { return PhaseStartedKind }
func (PhaseStarted) isEvent()   {}

func (PhaseStarted) String() string { return "PhaseStarted" }

// AirplaneDetected is published when an airplane enters the map. The flight
// plan is the one filed at creation time.
type AirplaneDetected struct {
	ID         types.AirplaneID
	Location   types.Location
	FlightPlan flightplan.FlightPlan
}

func (AirplaneDetected) Kind() Kind { return AirplaneDetectedKind }
func (AirplaneDetected) isEvent()   {}

func (e AirplaneDetected) String() string {
	return fmt.Sprintf("AirplaneDetected: %s at %s, %d waypoints", e.ID, e.Location, e.FlightPlan.Len())
}

// AirplaneLanded is published when an airplane completes its flight plan
// and is removed.
type AirplaneLanded struct {
	ID       types.AirplaneID
	Location types.Location
}

func (AirplaneLanded) Kind() Kind { return AirplaneLandedKind }
func (AirplaneLanded) isEvent()   {}

func (e AirplaneLanded) String() string {
	return fmt.Sprintf("AirplaneLanded: %s at %s", e.ID, e.Location)
}

// AirplaneLost is published when an airplane is removed for leaving the map.
type AirplaneLost struct {
	ID       types.AirplaneID
	Location types.Location
}

func (AirplaneLost) Kind() Kind { return AirplaneLostKind }
func (AirplaneLost) isEvent()   {}

func (e AirplaneLost) String() string {
	return fmt.Sprintf("AirplaneLost: %s near %s", e.ID, e.Location)
}
