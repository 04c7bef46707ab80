package wizard

import (
	"net/url"
	"strings"

	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/scoring"
)

// Document titles
const (
	DefaultTitle      = "星雲計畫 - 照護指南"
	reportTitleSuffix = "的照顧指南報告"
	anonymousName     = "我"
)

const shareBaseURL = "https://line.me/R/msg/text/?"

// View is the render-ready projection of a state
type View struct {
	Screen     Screen            `json:"screen"`
	Progress   int               `json:"progress"`
	Title      string            `json:"title"`
	CanAdvance bool              `json:"can_advance"`
	Answered   int               `json:"answered"`
	Total      int               `json:"total"`
	State      State             `json:"state"`
	ConsultURL string            `json:"consult_url,omitempty"`
	Analysis   *scoring.Analysis `json:"analysis,omitempty"`
}

// Progress returns the progress bar percentage for s
func Progress(s State) int {
	if s.Screen == ScreenResult && s.ConsultOpen {
		return 100
	}
	return progress[s.Screen]
}

// Title returns the document title for s
func Title(s State) string {
	if s.Screen != ScreenResult {
		return DefaultTitle
	}
	name := s.Profile.Nickname
	if name == "" {
		name = anonymousName
	}
	return name + reportTitleSuffix
}

// Analyze derives the report content of s
func Analyze(q *models.Questionnaire, s State) scoring.Analysis {
	return scoring.Analyze(q, scoring.Input{
		Scores:      s.Scores,
		CurrentMood: s.Mood.CurrentTag,
		FutureMood:  s.Mood.FutureTag,
		Pressure:    s.Profile.Pressure,
		Condition:   s.Profile.Condition,
		Residence:   s.Profile.Residence,
		Duration:    s.Profile.Duration,
	})
}

// View projects s for rendering. The analysis is only attached on the result screen.
func (c *Controller) View(s State) View {
	q := c.Questionnaire()

	v := View{
		Screen:     s.Screen,
		Progress:   Progress(s),
		Title:      Title(s),
		CanAdvance: s.Screen != ScreenResult && StepComplete(q, s),
		Answered:   AnsweredCount(q, s),
		Total:      len(q.Questions),
		State:      s,
	}

	if s.Screen == ScreenResult {
		analysis := Analyze(q, s)
		v.Analysis = &analysis
		if s.ConsultOpen {
			v.ConsultURL = c.consultURL
		}
	}

	return v
}

// ShareLink builds the messaging link that shares pageURL.
// Query and fragment of pageURL are dropped.
func ShareLink(pageURL string) string {
	if u, err := url.Parse(pageURL); err == nil {
		u.RawQuery = ""
		u.Fragment = ""
		pageURL = u.String()
	}
	text := "我剛完成一份照顧家人的指南，分享給你看照顧要點：" + pageURL
	return shareBaseURL + encodeURIComponent(text)
}

func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
