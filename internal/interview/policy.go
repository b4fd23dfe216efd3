package interview

import "fmt"

type TurnKind int

const (
	TurnFollowUp TurnKind = iota + 1
	TurnNextMain
	TurnComplete
)

func (k TurnKind) String() string {
	switch k {
	case TurnFollowUp:
		return "follow_up"
	case TurnNextMain:
		return "next_main"
	case TurnComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Turn is the outcome of NextTurn. MainIndex and FollowUpCount are the counters
// the session moves to; for TurnComplete they are left as they were.
type Turn struct {
	Kind          TurnKind
	MainIndex     int
	FollowUpCount int
}

// NextTurn decides what follows an answer. The follow-up budget is checked
// before the main question bound, so only rolling past the last main question
// can complete an interview.
func NextTurn(currentMain, currentFollowUps, maxFollowUps, totalMain int) Turn {
	if currentFollowUps < maxFollowUps {
		return Turn{Kind: TurnFollowUp, MainIndex: currentMain, FollowUpCount: currentFollowUps + 1}
	}

	nextMain := currentMain + 1
	if nextMain >= totalMain {
		return Turn{Kind: TurnComplete, MainIndex: currentMain, FollowUpCount: currentFollowUps}
	}
	return Turn{Kind: TurnNextMain, MainIndex: nextMain, FollowUpCount: 0}
}

// ValidateLimits rejects configurations NextTurn cannot run a real interview with.
func ValidateLimits(totalMain, maxFollowUps int) error {
	if totalMain < 1 {
		return fmt.Errorf("%w: total main questions must be at least 1, got %d", ErrConfiguration, totalMain)
	}
	if maxFollowUps < 0 {
		return fmt.Errorf("%w: max follow-ups cannot be negative, got %d", ErrConfiguration, maxFollowUps)
	}
	return nil
}
