package models

// CategoryID identifies one of the three scoring categories
type CategoryID string

const (
	CategorySupport   CategoryID = "support"
	CategoryInfo      CategoryID = "info"
	CategoryKnowledge CategoryID = "knowledge"
)

// Categories lists the fixed categories in display order
var Categories = []CategoryID{CategorySupport, CategoryInfo, CategoryKnowledge}

// RiskTier is the three-tier classification of a category score
type RiskTier string

const (
	RiskHigh   RiskTier = "high"
	RiskMedium RiskTier = "medium"
	RiskLow    RiskTier = "low"
)

// Avatar is the illustration the caregiver picks for the report
type Avatar string

const (
	AvatarNone    Avatar = ""
	AvatarFemale  Avatar = "female"
	AvatarNeutral Avatar = "neutral"
	AvatarMale    Avatar = "male"
)

// Question is a single 1-5 rating question of the assessment step
type Question struct {
	ID       int        `yaml:"id" json:"id"`
	Text     string     `yaml:"text" json:"text"`
	Category CategoryID `yaml:"category" json:"category"`
}

// Category groups question ids for aggregation
type Category struct {
	ID          CategoryID `yaml:"id" json:"id"`
	Label       string     `yaml:"label" json:"label"`
	Description string     `yaml:"description" json:"description,omitempty"`
	QuestionIDs []int      `yaml:"ids" json:"ids"`
}

// RiskLevel is the display data attached to a risk tier
type RiskLevel struct {
	Tier       RiskTier `yaml:"-" json:"tier"`
	Label      string   `yaml:"label" json:"label"`
	Color      string   `yaml:"color" json:"color"`
	Background string   `yaml:"background" json:"background"`
	Shadow     string   `yaml:"shadow" json:"shadow"`
}

// RiskBand is a risk level with its inclusive upper score bound
type RiskBand struct {
	Max       int `yaml:"max" json:"max"`
	RiskLevel `yaml:",inline"`
}

// RiskScale maps category totals to risk levels.
// Scores up to High.Max are high risk, up to Medium.Max medium, the rest low.
type RiskScale struct {
	High   RiskBand  `yaml:"high" json:"high"`
	Medium RiskBand  `yaml:"medium" json:"medium"`
	Low    RiskLevel `yaml:"low" json:"low"`
}

// MoodOption is a selectable mood tag
type MoodOption struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// MoodOptions holds the tags offered for the current and future mood
type MoodOptions struct {
	Images  int          `yaml:"images" json:"images"`
	Current []MoodOption `yaml:"current" json:"current"`
	Future  []MoodOption `yaml:"future" json:"future"`
}

// ProfileOptions holds the allowed values of the profile step
type ProfileOptions struct {
	DefaultPressure int      `yaml:"default_pressure" json:"default_pressure"`
	MinPressure     int      `yaml:"min_pressure" json:"min_pressure"`
	MaxPressure     int      `yaml:"max_pressure" json:"max_pressure"`
	Conditions      []string `yaml:"conditions" json:"conditions"`
	Residences      []string `yaml:"residences" json:"residences"`
	Relationships   []string `yaml:"relationships" json:"relationships"`
	Durations       []string `yaml:"durations" json:"durations"`
	Avatars         []Avatar `yaml:"avatars" json:"avatars"`
}

// Advice is the pair of advice sentences shown for a care condition
type Advice struct {
	Primary   string `yaml:"primary" json:"primary"`
	Secondary string `yaml:"secondary" json:"secondary"`
}

// Questionnaire is the full configuration of the wizard content
type Questionnaire struct {
	Name          string            `yaml:"name" json:"name"`
	Title         string            `yaml:"title" json:"title"`
	Questions     []Question        `yaml:"questions" json:"questions"`
	Categories    []Category        `yaml:"categories" json:"categories"`
	Risk          RiskScale         `yaml:"risk" json:"risk"`
	Moods         MoodOptions       `yaml:"moods" json:"moods"`
	Profile       ProfileOptions    `yaml:"profile" json:"profile"`
	Advice        map[string]Advice `yaml:"advice" json:"-"`
	DefaultAdvice Advice            `yaml:"default_advice" json:"-"`
}

// Question returns the question with the given id, or nil
func (q *Questionnaire) Question(id int) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// Category returns the category with the given id, or nil
func (q *Questionnaire) Category(id CategoryID) *Category {
	for i := range q.Categories {
		if q.Categories[i].ID == id {
			return &q.Categories[i]
		}
	}
	return nil
}

// HasCurrentMood reports whether tag is one of the current mood options
func (m MoodOptions) HasCurrentMood(tag string) bool {
	return hasTitle(m.Current, tag)
}

// HasFutureMood reports whether tag is one of the future mood options
func (m MoodOptions) HasFutureMood(tag string) bool {
	return hasTitle(m.Future, tag)
}

// HasAvatar reports whether a is an offered avatar
func (p ProfileOptions) HasAvatar(a Avatar) bool {
	for _, v := range p.Avatars {
		if v == a {
			return true
		}
	}
	return false
}

func hasTitle(opts []MoodOption, title string) bool {
	for _, o := range opts {
		if o.Title == title {
			return true
		}
	}
	return false
}

// Contains reports whether value is one of values
func Contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
