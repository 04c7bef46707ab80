package questionnaire

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/nebula-guide/internal/models"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid is returned when a questionnaire definition fails validation
var ErrInvalid = errors.New("invalid questionnaire")

// Source provides the questionnaire currently in effect
type Source interface {
	Current() *models.Questionnaire
}

// Loader manages loading and caching of the questionnaire definition.
// Reloads swap the whole definition; callers never observe a partial update.
type Loader struct {
	mu      sync.RWMutex
	current *models.Questionnaire
	path    string
}

// NewLoader creates a loader initialised with the built-in questionnaire
func NewLoader() (*Loader, error) {
	q, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in questionnaire: %w", err)
	}
	return &Loader{current: q}, nil
}

// Default returns a freshly parsed copy of the built-in questionnaire
func Default() *models.Questionnaire {
	q, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in questionnaire is invalid: %v", err))
	}
	return q
}

// LoadFromFile replaces the current questionnaire with the one in path.
// On failure the previous definition stays in effect.
func (l *Loader) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	q, err := Parse(data)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.current = q
	l.path = path
	l.mu.Unlock()

	slog.Info("questionnaire loaded",
		"file", path,
		"name", q.Name,
		"questions", len(q.Questions),
	)
	return nil
}

// Reload re-reads the file given to the last successful LoadFromFile
func (l *Loader) Reload() error {
	l.mu.RLock()
	path := l.path
	l.mu.RUnlock()

	if path == "" {
		return nil
	}
	return l.LoadFromFile(path)
}

// Current returns the questionnaire in effect
func (l *Loader) Current() *models.Questionnaire {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Path returns the file backing the current questionnaire, empty for the built-in one
func (l *Loader) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.path
}

// Parse decodes and validates a questionnaire definition
func Parse(data []byte) (*models.Questionnaire, error) {
	var q models.Questionnaire
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Apply defaults
	if q.Moods.Images == 0 {
		q.Moods.Images = 5
	}
	if q.Profile.MinPressure == 0 {
		q.Profile.MinPressure = 1
	}
	if q.Profile.MaxPressure == 0 {
		q.Profile.MaxPressure = 10
	}
	if q.Profile.DefaultPressure == 0 {
		q.Profile.DefaultPressure = 5
	}
	if len(q.Profile.Avatars) == 0 {
		q.Profile.Avatars = []models.Avatar{models.AvatarFemale, models.AvatarNeutral, models.AvatarMale}
	}

	q.Risk.High.Tier = models.RiskHigh
	q.Risk.Medium.Tier = models.RiskMedium
	q.Risk.Low.Tier = models.RiskLow

	if err := Validate(&q); err != nil {
		return nil, err
	}

	sort.SliceStable(q.Questions, func(i, j int) bool {
		return q.Questions[i].ID < q.Questions[j].ID
	})

	return &q, nil
}

// Validate checks the structural invariants of a questionnaire
func Validate(q *models.Questionnaire) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalid)
	}

	questions := make(map[int]bool, len(q.Questions))
	for _, question := range q.Questions {
		if question.ID <= 0 {
			return fmt.Errorf("%w: question id must be positive, got %d", ErrInvalid, question.ID)
		}
		if questions[question.ID] {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalid, question.ID)
		}
		if question.Text == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalid, question.ID)
		}
		questions[question.ID] = true
	}

	if len(q.Categories) != len(models.Categories) {
		return fmt.Errorf("%w: expected %d categories, got %d", ErrInvalid, len(models.Categories), len(q.Categories))
	}

	owner := make(map[int]models.CategoryID)
	for _, id := range models.Categories {
		cat := q.Category(id)
		if cat == nil {
			return fmt.Errorf("%w: category %q is missing", ErrInvalid, id)
		}
		if cat.Label == "" {
			return fmt.Errorf("%w: category %q has no label", ErrInvalid, id)
		}
		for _, qid := range cat.QuestionIDs {
			if !questions[qid] {
				return fmt.Errorf("%w: category %q references unknown question %d", ErrInvalid, id, qid)
			}
			if prev, ok := owner[qid]; ok {
				return fmt.Errorf("%w: question %d belongs to both %q and %q", ErrInvalid, qid, prev, id)
			}
			owner[qid] = id
		}
	}

	for _, question := range q.Questions {
		if question.Category == "" {
			continue
		}
		if owner[question.ID] != question.Category {
			return fmt.Errorf("%w: question %d declares category %q but is listed under %q",
				ErrInvalid, question.ID, question.Category, owner[question.ID])
		}
	}

	if q.Risk.High.Max >= q.Risk.Medium.Max {
		return fmt.Errorf("%w: high risk bound %d must be below medium bound %d",
			ErrInvalid, q.Risk.High.Max, q.Risk.Medium.Max)
	}
	if q.Risk.High.Label == "" || q.Risk.Medium.Label == "" || q.Risk.Low.Label == "" {
		return fmt.Errorf("%w: every risk level needs a label", ErrInvalid)
	}

	if len(q.Moods.Current) == 0 || len(q.Moods.Future) == 0 {
		return fmt.Errorf("%w: current and future mood options are required", ErrInvalid)
	}

	p := q.Profile
	if p.MinPressure > p.MaxPressure || p.DefaultPressure < p.MinPressure || p.DefaultPressure > p.MaxPressure {
		return fmt.Errorf("%w: pressure range [%d,%d] with default %d is inconsistent",
			ErrInvalid, p.MinPressure, p.MaxPressure, p.DefaultPressure)
	}
	if len(p.Conditions) == 0 || len(p.Residences) == 0 || len(p.Relationships) == 0 || len(p.Durations) == 0 {
		return fmt.Errorf("%w: every profile select needs options", ErrInvalid)
	}

	if q.DefaultAdvice.Primary == "" {
		return fmt.Errorf("%w: default advice is required", ErrInvalid)
	}

	return nil
}
