package wizard

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/scoring"
)

var (
	// ErrStepIncomplete is returned when moving forward before the current step is complete
	ErrStepIncomplete = errors.New("step incomplete")
	// ErrIllegalTransition is returned for moves the transition table does not allow
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrWrongScreen is returned when an edit targets a screen that is not shown
	ErrWrongScreen = errors.New("action not available on this screen")
	// ErrInvalidInput is returned for malformed action payloads
	ErrInvalidInput = errors.New("invalid input")
)

// MaxNicknameLength bounds the nickname in runes
const MaxNicknameLength = 32

// ActionKind names a user interaction
type ActionKind string

const (
	ActionScore          ActionKind = "score"
	ActionMoodImage      ActionKind = "mood_image"
	ActionMoodTag        ActionKind = "mood_tag"
	ActionProfile        ActionKind = "profile"
	ActionAvatar         ActionKind = "avatar"
	ActionNext           ActionKind = "next"
	ActionNavigate       ActionKind = "navigate"
	ActionOpenConsult    ActionKind = "open_consult"
	ActionToggleCategory ActionKind = "toggle_category"
	ActionReset          ActionKind = "reset"
)

// ProfileField names an editable field of the profile step
type ProfileField string

const (
	FieldPressure     ProfileField = "pressure"
	FieldCondition    ProfileField = "condition"
	FieldResidence    ProfileField = "residence"
	FieldRelationship ProfileField = "relationship"
	FieldDuration     ProfileField = "duration"
	FieldNickname     ProfileField = "nickname"
)

// Action is a single user interaction. Which payload fields are read depends on Kind.
type Action struct {
	Kind       ActionKind        `json:"kind" validate:"required,oneof=score mood_image mood_tag profile avatar next navigate open_consult toggle_category reset"`
	QuestionID int               `json:"question_id,omitempty"`
	Value      int               `json:"value,omitempty"`
	Slot       MoodSlot          `json:"slot,omitempty" validate:"omitempty,oneof=current future"`
	Field      ProfileField      `json:"field,omitempty" validate:"omitempty,oneof=pressure condition residence relationship duration nickname"`
	Text       string            `json:"text,omitempty"`
	Screen     string            `json:"screen,omitempty"`
	Category   models.CategoryID `json:"category,omitempty"`
}

// Validate checks the shape of the action independent of any state
func (a Action) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Reduce applies a to s and returns the resulting state.
// s is never modified; on error the returned state equals s.
func Reduce(q *models.Questionnaire, s State, a Action) (State, error) {
	if err := a.Validate(); err != nil {
		return s, err
	}

	var (
		next State
		err  error
	)

	switch a.Kind {
	case ActionScore:
		next, err = recordScore(q, s, a.QuestionID, a.Value)
	case ActionMoodImage:
		next, err = selectMoodImage(q, s, a.Slot, a.Value)
	case ActionMoodTag:
		next, err = selectMoodTag(q, s, a.Slot, a.Text)
	case ActionProfile:
		next, err = setProfileField(q, s, a.Field, a.Text, a.Value)
	case ActionAvatar:
		next, err = chooseAvatar(q, s, models.Avatar(a.Text))
	case ActionNext:
		next, err = advance(q, s)
	case ActionNavigate:
		var target Screen
		if target, err = ParseScreen(a.Screen); err == nil {
			next, err = navigate(q, s, target)
		}
	case ActionOpenConsult:
		next, err = openConsult(s)
	case ActionToggleCategory:
		next, err = toggleCategory(q, s, a.Category)
	case ActionReset:
		next = Initial(q)
	default:
		err = fmt.Errorf("%w: unknown action %q", ErrInvalidInput, a.Kind)
	}

	if err != nil {
		return s, err
	}
	return next, nil
}

func requireScreen(s State, screen Screen) error {
	if s.Screen != screen {
		return fmt.Errorf("%w: expected %s, current screen is %s", ErrWrongScreen, screen, s.Screen)
	}
	return nil
}

func recordScore(q *models.Questionnaire, s State, id, value int) (State, error) {
	if err := requireScreen(s, ScreenAssessment); err != nil {
		return s, err
	}
	if q.Question(id) == nil {
		return s, fmt.Errorf("%w: unknown question %d", ErrInvalidInput, id)
	}
	if value < scoring.MinScore || value > scoring.MaxScore {
		return s, fmt.Errorf("%w: score %d out of range [%d,%d]", ErrInvalidInput, value, scoring.MinScore, scoring.MaxScore)
	}

	next := s.clone()
	next.Scores[id] = value
	return next, nil
}

func selectMoodImage(q *models.Questionnaire, s State, slot MoodSlot, index int) (State, error) {
	if err := requireScreen(s, ScreenMood); err != nil {
		return s, err
	}
	if index < 0 || index >= q.Moods.Images {
		return s, fmt.Errorf("%w: image %d out of range [0,%d)", ErrInvalidInput, index, q.Moods.Images)
	}

	next := s.clone()
	switch slot {
	case MoodCurrent:
		next.Mood.CurrentImage = &index
	case MoodFuture:
		next.Mood.FutureImage = &index
	default:
		return s, fmt.Errorf("%w: mood slot is required", ErrInvalidInput)
	}
	return next, nil
}

func selectMoodTag(q *models.Questionnaire, s State, slot MoodSlot, tag string) (State, error) {
	if err := requireScreen(s, ScreenMood); err != nil {
		return s, err
	}

	next := s.clone()
	switch slot {
	case MoodCurrent:
		if !q.Moods.HasCurrentMood(tag) {
			return s, fmt.Errorf("%w: unknown current mood %q", ErrInvalidInput, tag)
		}
		next.Mood.CurrentTag = tag
	case MoodFuture:
		if !q.Moods.HasFutureMood(tag) {
			return s, fmt.Errorf("%w: unknown future mood %q", ErrInvalidInput, tag)
		}
		next.Mood.FutureTag = tag
	default:
		return s, fmt.Errorf("%w: mood slot is required", ErrInvalidInput)
	}
	return next, nil
}

func setProfileField(q *models.Questionnaire, s State, field ProfileField, text string, value int) (State, error) {
	if err := requireScreen(s, ScreenNebula); err != nil {
		return s, err
	}

	opts := q.Profile
	next := s.clone()

	// Empty text clears a select back to "not chosen".
	checkOption := func(options []string) error {
		if text != "" && !models.Contains(options, text) {
			return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidInput, text, field)
		}
		return nil
	}

	switch field {
	case FieldPressure:
		if value < opts.MinPressure || value > opts.MaxPressure {
			return s, fmt.Errorf("%w: pressure %d out of range [%d,%d]", ErrInvalidInput, value, opts.MinPressure, opts.MaxPressure)
		}
		next.Profile.Pressure = value
	case FieldCondition:
		if err := checkOption(opts.Conditions); err != nil {
			return s, err
		}
		next.Profile.Condition = text
	case FieldResidence:
		if err := checkOption(opts.Residences); err != nil {
			return s, err
		}
		next.Profile.Residence = text
	case FieldRelationship:
		if err := checkOption(opts.Relationships); err != nil {
			return s, err
		}
		next.Profile.Relationship = text
	case FieldDuration:
		if err := checkOption(opts.Durations); err != nil {
			return s, err
		}
		next.Profile.Duration = text
	case FieldNickname:
		nickname := strings.TrimSpace(text)
		if utf8.RuneCountInString(nickname) > MaxNicknameLength {
			return s, fmt.Errorf("%w: nickname longer than %d characters", ErrInvalidInput, MaxNicknameLength)
		}
		next.Profile.Nickname = nickname
	default:
		return s, fmt.Errorf("%w: profile field is required", ErrInvalidInput)
	}
	return next, nil
}

func chooseAvatar(q *models.Questionnaire, s State, avatar models.Avatar) (State, error) {
	if err := requireScreen(s, ScreenNebula); err != nil {
		return s, err
	}
	if !q.Profile.HasAvatar(avatar) {
		return s, fmt.Errorf("%w: unknown avatar %q", ErrInvalidInput, avatar)
	}

	next := s.clone()
	next.Profile.Avatar = avatar
	return next, nil
}

func advance(q *models.Questionnaire, s State) (State, error) {
	if s.Screen == ScreenResult {
		return s, fmt.Errorf("%w: %s is the last screen", ErrIllegalTransition, s.Screen)
	}
	return navigate(q, s, s.Screen+1)
}

func navigate(q *models.Questionnaire, s State, target Screen) (State, error) {
	g, ok := transitions[s.Screen][target]
	if !ok {
		return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Screen, target)
	}
	if !g(q, s) {
		return s, fmt.Errorf("%w: %s", ErrStepIncomplete, s.Screen)
	}

	next := s.clone()
	next.Screen = target
	if target != ScreenResult {
		next.ConsultOpen = false
	}
	return next, nil
}

func openConsult(s State) (State, error) {
	if err := requireScreen(s, ScreenResult); err != nil {
		return s, err
	}
	next := s.clone()
	next.ConsultOpen = true
	return next, nil
}

func toggleCategory(q *models.Questionnaire, s State, id models.CategoryID) (State, error) {
	if err := requireScreen(s, ScreenResult); err != nil {
		return s, err
	}
	if q.Category(id) == nil {
		return s, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, id)
	}

	next := s.clone()
	if next.ExpandedCategory == id {
		next.ExpandedCategory = ""
	} else {
		next.ExpandedCategory = id
	}
	return next, nil
}
