package wizard

import (
	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/nebula-guide/internal/models"
)

var validate = validator.New()

// MoodSlot selects which half of the mood step an action edits
type MoodSlot string

const (
	MoodCurrent MoodSlot = "current"
	MoodFuture  MoodSlot = "future"
)

// MoodSelection is the image and tag picked for the current and the hoped-for future state
type MoodSelection struct {
	CurrentImage *int   `json:"current_image"`
	CurrentTag   string `json:"current_tag"`
	FutureImage  *int   `json:"future_image"`
	FutureTag    string `json:"future_tag"`
}

// Complete reports whether both halves have an image and a tag
func (m MoodSelection) Complete() bool {
	return m.CurrentImage != nil && m.CurrentTag != "" &&
		m.FutureImage != nil && m.FutureTag != ""
}

// Profile is the demographic and context data of the nebula step
type Profile struct {
	Pressure     int           `json:"pressure" validate:"required"`
	Condition    string        `json:"condition" validate:"required"`
	Residence    string        `json:"residence" validate:"required"`
	Relationship string        `json:"relationship" validate:"required"`
	Duration     string        `json:"duration" validate:"required"`
	Nickname     string        `json:"nickname" validate:"required"`
	Avatar       models.Avatar `json:"avatar" validate:"required"`
}

// Complete reports whether every profile field is populated
func (p Profile) Complete() bool {
	return validate.Struct(p) == nil
}

// State is everything a caregiver has entered in one wizard run.
// A State is treated as immutable: reducers return modified copies.
type State struct {
	Screen           Screen            `json:"screen"`
	Scores           map[int]int       `json:"scores"`
	Mood             MoodSelection     `json:"mood"`
	Profile          Profile           `json:"profile"`
	ConsultOpen      bool              `json:"consult_open"`
	ExpandedCategory models.CategoryID `json:"expanded_category,omitempty"`
}

// Initial returns the state of a fresh wizard run
func Initial(q *models.Questionnaire) State {
	return State{
		Screen: ScreenIntro,
		Scores: map[int]int{},
		Profile: Profile{
			Pressure: q.Profile.DefaultPressure,
		},
	}
}

// clone returns a deep copy so reducers never alias the caller's state
func (s State) clone() State {
	c := s
	c.Scores = make(map[int]int, len(s.Scores))
	for k, v := range s.Scores {
		c.Scores[k] = v
	}
	if s.Mood.CurrentImage != nil {
		v := *s.Mood.CurrentImage
		c.Mood.CurrentImage = &v
	}
	if s.Mood.FutureImage != nil {
		v := *s.Mood.FutureImage
		c.Mood.FutureImage = &v
	}
	return c
}

// AnsweredCount returns how many configured questions have a recorded score
func AnsweredCount(q *models.Questionnaire, s State) int {
	n := 0
	for _, question := range q.Questions {
		if _, ok := s.Scores[question.ID]; ok {
			n++
		}
	}
	return n
}

// AssessmentComplete reports whether every configured question is answered
func AssessmentComplete(q *models.Questionnaire, s State) bool {
	return AnsweredCount(q, s) == len(q.Questions)
}

// StepComplete reports whether the completion predicate of the current screen holds
func StepComplete(q *models.Questionnaire, s State) bool {
	switch s.Screen {
	case ScreenIntro:
		return true
	case ScreenAssessment:
		return AssessmentComplete(q, s)
	case ScreenMood:
		return s.Mood.Complete()
	case ScreenNebula:
		return s.Profile.Complete()
	default:
		return false
	}
}
