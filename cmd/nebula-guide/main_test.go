package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/questionnaire"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestQuestionnaireValidateBuiltIn(t *testing.T) {
	out, err := execute(t, "questionnaire", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "6 questions")
	assert.Contains(t, out, "risk: high <= 3, medium <= 7")
}

func TestQuestionnaireDumpRoundTrips(t *testing.T) {
	out, err := execute(t, "questionnaire", "dump")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	out, err = execute(t, "questionnaire", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "6 questions")

	q, err := questionnaire.Parse([]byte(mustRead(t, path)))
	require.NoError(t, err)
	assert.Equal(t, questionnaire.Default().Questions, q.Questions)
}

func TestQuestionnaireValidateRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: []\n"), 0o644))

	_, err := execute(t, "questionnaire", "validate", path)
	assert.ErrorIs(t, err, questionnaire.ErrInvalid)

	_, err = execute(t, "questionnaire", "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPrintEvents(t *testing.T) {
	var out bytes.Buffer
	err := printEvents(&out, []*models.TrackingEvent{{
		ID:        "0b7e",
		Kind:      models.EventConsultRequested,
		Nickname:  "小美",
		CreatedAt: time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC),
	}})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "NICKNAME")
	assert.Contains(t, out.String(), "小美")
	assert.Contains(t, out.String(), models.EventConsultRequested)
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
