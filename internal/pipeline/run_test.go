package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/jonathan/candidate-evaluator/internal/db"
	"github.com/jonathan/candidate-evaluator/internal/scoring"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

type fakeStore struct {
	app       *types.Application
	getErr    error
	upsertErr error
	upserted  []*db.EvaluationRecord
	gotIDs    [3]string
}

func (s *fakeStore) GetApplicationForJob(_ context.Context, applicationID, organizationID, jobID string) (*types.Application, error) {
	s.gotIDs = [3]string{applicationID, organizationID, jobID}
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.app, nil
}

func (s *fakeStore) UpsertEvaluation(_ context.Context, rec *db.EvaluationRecord) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, rec)
	return nil
}

type fakeLLM struct {
	responses []string
	errs      []error
	prompts   []string
	systems   []string
}

func (l *fakeLLM) Evaluate(_ context.Context, system, prompt string) (string, error) {
	call := len(l.prompts)
	l.prompts = append(l.prompts, prompt)
	l.systems = append(l.systems, system)
	if call < len(l.errs) && l.errs[call] != nil {
		return "", l.errs[call]
	}
	if call < len(l.responses) {
		return l.responses[call], nil
	}
	return l.responses[len(l.responses)-1], nil
}

func (l *fakeLLM) Close() error { return nil }

type fakeEnricher struct {
	result *types.EnrichmentResult
}

func (e *fakeEnricher) Enrich(_ context.Context, _ *types.Application) *types.EnrichmentResult {
	if e.result != nil {
		return e.result
	}
	return &types.EnrichmentResult{}
}

func sampleApplication() *types.Application {
	return &types.Application{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		JobID:          uuid.New(),
		CandidateName:  "Jane Doe",
		CandidateEmail: "jane@example.com",
		JobTitle:       "Backend Engineer",
		JobDescription: "Build Go services and APIs for our backend platform.",
	}
}

func samplePayload() types.JobPayload {
	return types.JobPayload{
		ApplicationID:  uuid.NewString(),
		OrganizationID: uuid.NewString(),
		JobID:          uuid.NewString(),
	}
}

const goodResponse = `{
	"score": 78,
	"scoreBreakdown": [
		{"key": "skills", "score": 25},
		{"key": "projects", "score": 20},
		{"key": "impact", "score": 15},
		{"key": "github", "score": 10},
		{"key": "resume", "score": 8}
	],
	"skills": ["Go"],
	"summary": "Solid candidate.",
	"recommendation": "Hire"
}`

func defaultDeps(store *fakeStore, client *fakeLLM, enricher *fakeEnricher) Deps {
	return Deps{
		Store:      store,
		LLM:        client,
		Enricher:   enricher,
		Classifier: scoring.NewClassifier(),
		Rubrics:    scoring.NewRegistry(),
		MaxRetries: 2,
	}
}

func TestRun_HappyPath(t *testing.T) {
	app := sampleApplication()
	store := &fakeStore{app: app}
	client := &fakeLLM{responses: []string{goodResponse}}
	deps := defaultDeps(store, client, &fakeEnricher{})
	payload := samplePayload()

	err := Run(context.Background(), deps, payload)
	require.NoError(t, err)

	assert.Equal(t, [3]string{payload.ApplicationID, payload.OrganizationID, payload.JobID}, store.gotIDs)
	require.Len(t, store.upserted, 1)
	rec := store.upserted[0]
	assert.Equal(t, app.ID, rec.ApplicationID)
	assert.Equal(t, app.JobID, rec.JobID)
	require.NotNil(t, rec.Evaluation)
	assert.Equal(t, 78, rec.Evaluation.Score)
	assert.Equal(t, types.RecommendHire, rec.Evaluation.Recommendation)
	assert.Equal(t, types.FamilyEngineering, rec.Evaluation.RoleFamily)
	assert.JSONEq(t, goodResponse, string(rec.RawResponse))

	require.Len(t, client.systems, 1)
	assert.NotEmpty(t, client.systems[0])
	assert.Contains(t, client.prompts[0], "Jane Doe")
}

func TestRun_ResumeFailureStillPersistsEvaluation(t *testing.T) {
	store := &fakeStore{app: sampleApplication()}
	client := &fakeLLM{responses: []string{goodResponse}}
	enricher := &fakeEnricher{result: &types.EnrichmentResult{
		Failures: []types.EvidenceFailure{
			{Source: types.FailureResume, URL: "https://files.example.com/resume", Reason: "fetch failed", Transient: true},
		},
	}}

	err := Run(context.Background(), defaultDeps(store, client, enricher), samplePayload())
	require.NoError(t, err)

	require.Len(t, store.upserted, 1)
	require.NotNil(t, store.upserted[0].Evidence)
	require.Len(t, store.upserted[0].Evidence.Failures, 1)
	assert.Equal(t, types.FailureResume, store.upserted[0].Evidence.Failures[0].Source)
	// The model is told about the gap instead of scoring on silence.
	assert.Contains(t, client.prompts[0], "resume evidence unavailable")
}

func TestRun_PromptTooLongFallsBackToMinimal(t *testing.T) {
	store := &fakeStore{app: sampleApplication()}
	client := &fakeLLM{
		responses: []string{"", goodResponse},
		errs:      []error{&googleapi.Error{Code: http.StatusBadRequest, Message: "input is too long"}, nil},
	}

	err := Run(context.Background(), defaultDeps(store, client, &fakeEnricher{}), samplePayload())
	require.NoError(t, err)

	require.Len(t, client.prompts, 2)
	assert.NotEqual(t, client.prompts[0], client.prompts[1])
	assert.Less(t, len(client.prompts[1]), len(client.prompts[0]))
	require.Len(t, store.upserted, 1)
}

func TestRun_InvalidPayloadFailsBeforeLookup(t *testing.T) {
	store := &fakeStore{app: sampleApplication()}
	client := &fakeLLM{responses: []string{goodResponse}}

	err := Run(context.Background(), defaultDeps(store, client, &fakeEnricher{}), types.JobPayload{
		ApplicationID: uuid.NewString(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid job payload")
	assert.Empty(t, store.gotIDs[0])
	assert.Empty(t, client.prompts)
}

func TestRun_ApplicationNotFoundIsFatal(t *testing.T) {
	store := &fakeStore{getErr: db.ErrApplicationNotFound}
	client := &fakeLLM{responses: []string{goodResponse}}

	err := Run(context.Background(), defaultDeps(store, client, &fakeEnricher{}), samplePayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrApplicationNotFound)
	assert.Empty(t, client.prompts)
	assert.Empty(t, store.upserted)
}

func TestRun_ModelFailureIsFatal(t *testing.T) {
	store := &fakeStore{app: sampleApplication()}
	unauthorized := &googleapi.Error{Code: http.StatusUnauthorized}
	client := &fakeLLM{errs: []error{unauthorized}, responses: []string{""}}

	err := Run(context.Background(), defaultDeps(store, client, &fakeEnricher{}), samplePayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, unauthorized)
	assert.Empty(t, store.upserted)
}

func TestRun_UnparseableResponseIsFatal(t *testing.T) {
	store := &fakeStore{app: sampleApplication()}
	client := &fakeLLM{responses: []string{"not json at all {"}}

	err := Run(context.Background(), defaultDeps(store, client, &fakeEnricher{}), samplePayload())

	require.Error(t, err)
	var perr *scoring.ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Empty(t, store.upserted)
}

func TestRun_PersistFailurePropagates(t *testing.T) {
	persistErr := errors.New("connection refused")
	store := &fakeStore{app: sampleApplication(), upsertErr: persistErr}
	client := &fakeLLM{responses: []string{goodResponse}}

	err := Run(context.Background(), defaultDeps(store, client, &fakeEnricher{}), samplePayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, persistErr)
}
