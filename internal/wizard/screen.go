package wizard

import (
	"fmt"

	"github.com/terra-clan/nebula-guide/internal/models"
)

// Screen is one step of the wizard
type Screen int

const (
	ScreenIntro Screen = iota
	ScreenAssessment
	ScreenMood
	ScreenNebula
	ScreenResult
)

var screenNames = [...]string{
	ScreenIntro:      "intro",
	ScreenAssessment: "assessment",
	ScreenMood:       "mood",
	ScreenNebula:     "nebula",
	ScreenResult:     "result",
}

// String returns the wire name of the screen
func (s Screen) String() string {
	if s < ScreenIntro || s > ScreenResult {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

// Valid reports whether s is one of the defined screens
func (s Screen) Valid() bool {
	return s >= ScreenIntro && s <= ScreenResult
}

// ParseScreen converts a wire name into a Screen
func ParseScreen(name string) (Screen, error) {
	for i, n := range screenNames {
		if n == name {
			return Screen(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown screen %q", ErrInvalidInput, name)
}

// MarshalText implements encoding.TextMarshaler
func (s Screen) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid screen %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Screen) UnmarshalText(text []byte) error {
	parsed, err := ParseScreen(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// guard decides whether a transition may happen from state s
type guard func(q *models.Questionnaire, s State) bool

func always(*models.Questionnaire, State) bool { return true }

// transitions lists every allowed move. Forward moves go one screen at a
// time behind the completion predicate of the screen being left; moving back
// to any earlier screen is always allowed.
var transitions = map[Screen]map[Screen]guard{
	ScreenIntro: {
		ScreenAssessment: always,
	},
	ScreenAssessment: {
		ScreenMood:  AssessmentComplete,
		ScreenIntro: always,
	},
	ScreenMood: {
		ScreenNebula:     func(_ *models.Questionnaire, s State) bool { return s.Mood.Complete() },
		ScreenAssessment: always,
		ScreenIntro:      always,
	},
	ScreenNebula: {
		ScreenResult:     func(_ *models.Questionnaire, s State) bool { return s.Profile.Complete() },
		ScreenMood:       always,
		ScreenAssessment: always,
		ScreenIntro:      always,
	},
	ScreenResult: {
		ScreenNebula:     always,
		ScreenMood:       always,
		ScreenAssessment: always,
		ScreenIntro:      always,
	},
}

// CanTransition reports whether the move from s.Screen to target is allowed now
func CanTransition(q *models.Questionnaire, s State, target Screen) bool {
	g, ok := transitions[s.Screen][target]
	return ok && g(q, s)
}

// progress is the progress bar percentage of each screen
var progress = map[Screen]int{
	ScreenIntro:      0,
	ScreenAssessment: 20,
	ScreenMood:       40,
	ScreenNebula:     60,
	ScreenResult:     80,
}
