package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/nebula-guide/internal/api"
	"github.com/terra-clan/nebula-guide/internal/config"
	"github.com/terra-clan/nebula-guide/internal/health"
	"github.com/terra-clan/nebula-guide/internal/questionnaire"
	"github.com/terra-clan/nebula-guide/internal/session"
	"github.com/terra-clan/nebula-guide/internal/static"
	"github.com/terra-clan/nebula-guide/internal/wizard"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	loader, err := questionnaire.NewLoader()
	require.NoError(t, err)

	controller := wizard.NewController(loader, nil, wizard.WithConsultURL("https://forms.example/c"))
	sessions := session.NewMemoryStore(time.Hour)
	server := api.NewServer(config.ServerConfig{}, controller, sessions, health.NewRegistry(0),
		static.NewFS(fstest.MapFS{"index.html": {Data: []byte("x")}}, ""))

	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, WithHTTPClient(srv.Client()))
}

func TestClientWalksTheWizard(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.Health(ctx))

	q, err := c.Questionnaire(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, q.Questions)

	w, err := c.CreateWizard(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, w.ID)
	assert.Equal(t, wizard.ScreenIntro, w.View.Screen)

	dispatch := func(a Action) *Wizard {
		t.Helper()
		next, err := c.Dispatch(ctx, w.ID, a)
		require.NoError(t, err, "action %s", a.Kind)
		return next
	}

	dispatch(Action{Kind: wizard.ActionNext})
	for _, question := range q.Questions {
		dispatch(Action{Kind: wizard.ActionScore, QuestionID: question.ID, Value: 1})
	}
	dispatch(Action{Kind: wizard.ActionNext})
	dispatch(Action{Kind: wizard.ActionMoodImage, Slot: wizard.MoodCurrent, Value: 2})
	dispatch(Action{Kind: wizard.ActionMoodTag, Slot: wizard.MoodCurrent, Text: q.Moods.Current[0].Title})
	dispatch(Action{Kind: wizard.ActionMoodImage, Slot: wizard.MoodFuture, Value: 2})
	dispatch(Action{Kind: wizard.ActionMoodTag, Slot: wizard.MoodFuture, Text: q.Moods.Future[0].Title})
	dispatch(Action{Kind: wizard.ActionNext})
	dispatch(Action{Kind: wizard.ActionProfile, Field: wizard.FieldNickname, Text: "小美"})
	dispatch(Action{Kind: wizard.ActionProfile, Field: wizard.FieldCondition, Text: q.Profile.Conditions[0]})
	dispatch(Action{Kind: wizard.ActionProfile, Field: wizard.FieldResidence, Text: q.Profile.Residences[0]})
	dispatch(Action{Kind: wizard.ActionProfile, Field: wizard.FieldRelationship, Text: q.Profile.Relationships[0]})
	dispatch(Action{Kind: wizard.ActionProfile, Field: wizard.FieldDuration, Text: q.Profile.Durations[0]})
	dispatch(Action{Kind: wizard.ActionAvatar, Text: string(q.Profile.Avatars[0])})
	result := dispatch(Action{Kind: wizard.ActionNext})

	assert.Equal(t, wizard.ScreenResult, result.View.Screen)
	assert.Equal(t, "小美的照顧指南報告", result.View.Title)

	report, err := c.Report(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "小美的照顧指南報告", report.Title)
	for _, cat := range report.Analysis.Categories {
		assert.Equal(t, 2, cat.Score)
	}

	link, err := c.ShareLink(ctx, w.ID, "https://nebula.example/")
	require.NoError(t, err)
	assert.Equal(t, wizard.ShareLink("https://nebula.example/"), link)

	require.NoError(t, c.DeleteWizard(ctx, w.ID))

	_, err = c.GetWizard(ctx, w.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestClientSurfacesRejectedActions(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	w, err := c.CreateWizard(ctx)
	require.NoError(t, err)

	_, err = c.Dispatch(ctx, w.ID, Action{Kind: wizard.ActionOpenConsult})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "wrong_screen", apiErr.Code)

	_, err = c.Report(ctx, w.ID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "report_unavailable", apiErr.Code)
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Health(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
