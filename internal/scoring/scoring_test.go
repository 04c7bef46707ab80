package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/questionnaire"
)

func TestLevelBoundaries(t *testing.T) {
	q := questionnaire.Default()

	tests := []struct {
		score int
		tier  models.RiskTier
		label string
	}{
		{0, models.RiskHigh, "高風險"},
		{3, models.RiskHigh, "高風險"},
		{4, models.RiskMedium, "中風險"},
		{7, models.RiskMedium, "中風險"},
		{8, models.RiskLow, "低風險"},
		{10, models.RiskLow, "低風險"},
	}

	for _, tt := range tests {
		level := Level(q.Risk, tt.score)
		assert.Equal(t, tt.tier, level.Tier, "score %d", tt.score)
		assert.Equal(t, tt.label, level.Label, "score %d", tt.score)
	}

	assert.Equal(t, "#f87171", Level(q.Risk, 3).Color)
}

func TestCategoryScoreMissingAnswersCountZero(t *testing.T) {
	cat := models.Category{ID: models.CategorySupport, QuestionIDs: []int{1, 2}}

	assert.Equal(t, 0, CategoryScore(cat, nil))
	assert.Equal(t, 4, CategoryScore(cat, map[int]int{1: 4, 3: 5}))
	assert.Equal(t, 9, CategoryScore(cat, map[int]int{1: 5, 2: 4}))
	assert.Equal(t, 10, CategoryMax(cat))
}

// Every combination of complete answers: category totals equal the
// restricted sum and stay within [0, 5*|ids|].
func TestCategoryScoresOverAllAnswerSets(t *testing.T) {
	q := questionnaire.Default()
	ids := make([]int, len(q.Questions))
	for i, question := range q.Questions {
		ids[i] = question.ID
	}

	scores := make(map[int]int, len(ids))
	var walk func(i int)
	walk = func(i int) {
		if i == len(ids) {
			for _, cat := range q.Categories {
				want := 0
				for _, id := range cat.QuestionIDs {
					want += scores[id]
				}
				got := CategoryScore(cat, scores)
				if got != want || got < 0 || got > CategoryMax(cat) {
					t.Fatalf("category %s: got %d want %d (scores %v)", cat.ID, got, want, scores)
				}
			}
			return
		}
		for v := MinScore; v <= MaxScore; v++ {
			scores[ids[i]] = v
			walk(i + 1)
		}
	}
	walk(0)
}

func TestAnalyze(t *testing.T) {
	q := questionnaire.Default()

	analysis := Analyze(q, Input{
		Scores:      map[int]int{1: 5, 2: 4, 3: 1, 4: 2, 5: 3, 6: 3},
		CurrentMood: "身心俱疲",
		FutureMood:  "有喘息的時間",
		Pressure:    8,
		Condition:   "失智症",
		Residence:   "住家中",
		Duration:    "1年以上",
	})

	require.Len(t, analysis.Categories, 3)

	support := analysis.Category(models.CategorySupport)
	require.NotNil(t, support)
	assert.Equal(t, 9, support.Score)
	assert.Equal(t, 10, support.MaxScore)
	assert.Equal(t, "低風險", support.Risk.Label)
	assert.Equal(t, "支持力 9 分顯示您在 1年以上 的照顧中，正承受著 8 分的壓力負荷。", support.Message)

	info := analysis.Category(models.CategoryInfo)
	require.NotNil(t, info)
	assert.Equal(t, 3, info.Score)
	assert.Equal(t, "高風險", info.Risk.Label)
	assert.Equal(t, "#f87171", info.Risk.Color)
	assert.Contains(t, info.Message, "「住家中」")

	knowledge := analysis.Category(models.CategoryKnowledge)
	require.NotNil(t, knowledge)
	assert.Equal(t, 6, knowledge.Score)
	assert.Equal(t, models.RiskMedium, knowledge.Risk.Tier)
	assert.Contains(t, knowledge.Message, "「失智症」")

	assert.Contains(t, analysis.Mood, "「身心俱疲」")
	assert.Contains(t, analysis.Mood, "「有喘息的時間」")
	assert.Equal(t, q.Advice["失智症"], analysis.Advice)
}

func TestAdviceFallsBackToDefault(t *testing.T) {
	q := questionnaire.Default()

	assert.Equal(t, q.DefaultAdvice, AdviceFor(q, "罕見疾病"))
	assert.Equal(t, q.DefaultAdvice, AdviceFor(q, ""))
	assert.Equal(t, q.Advice["癌症"], AdviceFor(q, "癌症"))
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	q := questionnaire.Default()
	in := Input{Scores: map[int]int{1: 1, 2: 1}, CurrentMood: "a", FutureMood: "b"}

	assert.Equal(t, Analyze(q, in), Analyze(q, in))
	assert.Equal(t, map[int]int{1: 1, 2: 1}, in.Scores)
}
