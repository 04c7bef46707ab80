// Package scoring derives category totals, risk levels and the report
// narrative from a caregiver's answers. Everything here is pure: the same
// inputs always produce the same analysis and nothing is mutated.
package scoring

import (
	"fmt"

	"github.com/terra-clan/nebula-guide/internal/models"
)

// MinScore and MaxScore bound a single answer
const (
	MinScore = 1
	MaxScore = 5
)

// CategoryScore sums the recorded scores of the category's questions.
// Questions without a recorded score contribute zero.
func CategoryScore(cat models.Category, scores map[int]int) int {
	total := 0
	for _, id := range cat.QuestionIDs {
		total += scores[id]
	}
	return total
}

// CategoryMax is the highest total a category can reach
func CategoryMax(cat models.Category) int {
	return MaxScore * len(cat.QuestionIDs)
}

// Level maps a category total to its risk level
func Level(scale models.RiskScale, score int) models.RiskLevel {
	switch {
	case score <= scale.High.Max:
		return scale.High.RiskLevel
	case score <= scale.Medium.Max:
		return scale.Medium.RiskLevel
	default:
		return scale.Low
	}
}

// AdviceFor selects the advice pair for a care condition, falling back to
// the default pair when the condition is not recognised
func AdviceFor(q *models.Questionnaire, condition string) models.Advice {
	if advice, ok := q.Advice[condition]; ok {
		return advice
	}
	return q.DefaultAdvice
}

// Input is the part of the wizard state the analysis reads
type Input struct {
	Scores      map[int]int
	CurrentMood string
	FutureMood  string
	Pressure    int
	Condition   string
	Residence   string
	Duration    string
}

// CategoryResult is the analysis of a single category
type CategoryResult struct {
	ID       models.CategoryID `json:"id"`
	Label    string            `json:"label"`
	Score    int               `json:"score"`
	MaxScore int               `json:"max_score"`
	Risk     models.RiskLevel  `json:"risk"`
	Message  string            `json:"message"`
}

// Analysis is the read-only content of the result screen
type Analysis struct {
	Mood       string           `json:"mood"`
	Categories []CategoryResult `json:"categories"`
	Advice     models.Advice    `json:"advice"`
}

// Category returns the result for id, or nil
func (a *Analysis) Category(id models.CategoryID) *CategoryResult {
	for i := range a.Categories {
		if a.Categories[i].ID == id {
			return &a.Categories[i]
		}
	}
	return nil
}

// Analyze builds the report for the given answers
func Analyze(q *models.Questionnaire, in Input) Analysis {
	analysis := Analysis{
		Mood:       moodMessage(in.CurrentMood, in.FutureMood),
		Categories: make([]CategoryResult, 0, len(models.Categories)),
		Advice:     AdviceFor(q, in.Condition),
	}

	for _, id := range models.Categories {
		cat := q.Category(id)
		if cat == nil {
			continue
		}
		score := CategoryScore(*cat, in.Scores)
		analysis.Categories = append(analysis.Categories, CategoryResult{
			ID:       cat.ID,
			Label:    cat.Label,
			Score:    score,
			MaxScore: CategoryMax(*cat),
			Risk:     Level(q.Risk, score),
			Message:  categoryMessage(*cat, score, in),
		})
	}

	return analysis
}

func moodMessage(current, future string) string {
	return fmt.Sprintf("看著您勾選的「%s」，那種辛苦我們都懂。請先對自己說聲「辛苦了」，這份安慰感是您應得的。"+
		"而對於「%s」的期盼，是支持您走下去的微光。", current, future)
}

func categoryMessage(cat models.Category, score int, in Input) string {
	switch cat.ID {
	case models.CategorySupport:
		return fmt.Sprintf("%s %d 分顯示您在 %s 的照顧中，正承受著 %d 分的壓力負荷。", cat.Label, score, in.Duration, in.Pressure)
	case models.CategoryInfo:
		return fmt.Sprintf("%s %d 分反映您目前在「%s」環境下，對外部資源的鏈結度。", cat.Label, score, in.Residence)
	case models.CategoryKnowledge:
		return fmt.Sprintf("%s %d 分顯示您對「%s」專業知識的掌握程度。", cat.Label, score, in.Condition)
	default:
		return fmt.Sprintf("%s %d 分", cat.Label, score)
	}
}
