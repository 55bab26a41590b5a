package simulation

import "atc-grid/pkg/types"

type RadioMessage struct {
	GameTimeSeconds float64
	Callsign        types.AirplaneID
	Message         string
	IsUrgent        bool
}

func (s *Simulation) AddRadioMessage(callsign types.AirplaneID, message string, isUrgent bool) {
	msg := RadioMessage{
		GameTimeSeconds: s.GameTimeSeconds,
		Callsign:        callsign,
		Message:         message,
		IsUrgent:        isUrgent,
	}
	s.RadioLog = append(s.RadioLog, msg)

	if len(s.RadioLog) > s.maxRadioLogSize {
		s.RadioLog = s.RadioLog[len(s.RadioLog)-s.maxRadioLogSize:]
	}
}
