package game

import "fmt"

// Phase is a state of the server's game state machine. Phases only ever
// advance, one step at a time.
type Phase int

const (
	Accepting Phase = iota
	StartDistribution
	MinePlacement
	BoardReset
	ProbePhase
	Resolution
	Finished
)

var phaseNames = map[Phase]string{
	Accepting:         "accepting",
	StartDistribution: "start-distribution",
	MinePlacement:     "mine-placement",
	BoardReset:        "board-reset",
	ProbePhase:        "probe",
	Resolution:        "resolution",
	Finished:          "finished",
}

func (phase Phase) String() string {
	if name, ok := phaseNames[phase]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(phase))
}

const (
	NumParticipants = 2

	// A participant who steps on this many mines has lost
	DetonationsToLose = 5

	// Largest board whose grid still fits in one frame
	MaxFieldSize = 100
)

type Outcome int

const (
	Draw Outcome = iota
	Win
	Loss
)

func (outcome Outcome) String() string {
	switch outcome {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "draw"
	}
}
