package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hireloop/job-match-backend/internal/model"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResumeStore struct {
	resumes      []*model.Resume
	experiences  []*model.Experience
	nextID       uint
	createExpErr error
	byIDs        []model.Experience
	byIDsErr     error
}

func (f *fakeResumeStore) CreateResume(r *model.Resume) error {
	f.nextID++
	r.ID = f.nextID
	f.resumes = append(f.resumes, r)
	return nil
}

func (f *fakeResumeStore) CreateExperience(e *model.Experience) error {
	if f.createExpErr != nil {
		return f.createExpErr
	}
	f.nextID++
	e.ID = f.nextID
	f.experiences = append(f.experiences, e)
	return nil
}

func (f *fakeResumeStore) GetExperiencesByIDs(ids []uint) ([]model.Experience, error) {
	return f.byIDs, f.byIDsErr
}

type fakeJobSearcher struct {
	queries []pgvector.Vector
	matches []model.JobMatch
	err     error
}

func (f *fakeJobSearcher) SearchJobs(embedding pgvector.Vector) ([]model.JobMatch, error) {
	f.queries = append(f.queries, embedding)
	return f.matches, f.err
}

type fakeEmbedder struct {
	calls   [][]string
	vectors map[string][]float32
	failOn  map[string]bool
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if f.failOn[t] {
			return nil, errors.New("provider unavailable")
		}
		if v, ok := f.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 2, 3, 4}
		}
	}
	return out, nil
}

type fakeExtractor struct {
	output string
	err    error
	called bool
}

func (f *fakeExtractor) ExtractExperiences(ctx context.Context, resumeText, jobTitle string) (string, error) {
	f.called = true
	return f.output, f.err
}

func expText(title, org, typ, desc string) string {
	return fmt.Sprintf("%s at %s (%s): %s", title, org, typ, desc)
}

func TestParseExperiences(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{
			name:    "clean array",
			raw:     `[{"title":"Engineer","organization":"Acme","type":"job","description":"Built things.","skills":["Go"]}]`,
			wantLen: 1,
		},
		{
			name:    "trailing comma repaired",
			raw:     `[{"title":"Engineer","organization":"Acme","type":"job","description":"Built things.","skills":["Go"],},]`,
			wantLen: 1,
		},
		{
			name:    "smart quotes repaired",
			raw:     `[{“title”: “Engineer”, “organization”: “Acme”, “type”: “job”, “description”: “Built things.”, “skills”: []}]`,
			wantLen: 1,
		},
		{
			name:    "empty array",
			raw:     `[]`,
			wantLen: 0,
		},
		{
			name:    "object instead of array",
			raw:     `{"title":"Engineer"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExperiences(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnparsableExtraction)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, "Engineer", got[0].Title)
				assert.Equal(t, "job", got[0].Type)
			}
		})
	}
}

func TestMatchResumeUsesFirstStoredEmbedding(t *testing.T) {
	firstText := expText("Backend Engineer", "Acme", "job", "Go services.")
	secondText := expText("Search Indexer", "OSS", "open-source", "Contributed features.")

	store := &fakeResumeStore{}
	searcher := &fakeJobSearcher{matches: []model.JobMatch{}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		firstText:  {1, 0, 0, 0},
		secondText: {0, 1, 0, 0},
	}}
	extractor := &fakeExtractor{output: `[
		{"title":"Backend Engineer","organization":"Acme","type":"job","description":"Go services.","skills":["Go"]},
		{"title":"Search Indexer","organization":"OSS","type":"open-source","description":"Contributed features.","skills":[]}
	]`}

	uc := NewResumeUsecase(store, searcher, embedder, extractor)
	resp, err := uc.MatchResume(context.Background(), "resume text", "resume.pdf", "")
	require.NoError(t, err)

	require.Len(t, resp.Experiences, 2)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, []float32{1, 0, 0, 0}, searcher.queries[0].Slice())

	require.Len(t, store.resumes, 1)
	assert.Equal(t, "resume text", store.resumes[0].OriginalText)
}

func TestMatchResumeSkipsInvalidTypeKeepsSiblings(t *testing.T) {
	store := &fakeResumeStore{}
	searcher := &fakeJobSearcher{}
	embedder := &fakeEmbedder{}
	extractor := &fakeExtractor{output: `[
		{"title":"Volunteer Tutor","organization":"School","type":"volunteering","description":"Taught.","skills":[]},
		{"title":"Backend Engineer","organization":"Acme","type":"job","description":"Go services.","skills":["Go"]}
	]`}

	uc := NewResumeUsecase(store, searcher, embedder, extractor)
	resp, err := uc.MatchResume(context.Background(), "resume text", "", "")
	require.NoError(t, err)

	require.Len(t, resp.Experiences, 1)
	assert.Equal(t, "Backend Engineer", resp.Experiences[0].Title)
	require.Len(t, store.experiences, 1)
	assert.Equal(t, "job", store.experiences[0].Type)
}

func TestMatchResumeSkipsExperienceOnEmbeddingFailure(t *testing.T) {
	failingText := expText("Backend Engineer", "Acme", "job", "Go services.")
	okText := expText("Data Pipeline", "Uni", "project", "Built ETL.")

	store := &fakeResumeStore{}
	searcher := &fakeJobSearcher{}
	embedder := &fakeEmbedder{
		failOn:  map[string]bool{failingText: true},
		vectors: map[string][]float32{okText: {0, 0, 1, 0}},
	}
	extractor := &fakeExtractor{output: `[
		{"title":"Backend Engineer","organization":"Acme","type":"job","description":"Go services.","skills":[]},
		{"title":"Data Pipeline","organization":"Uni","type":"project","description":"Built ETL.","skills":[]}
	]`}

	uc := NewResumeUsecase(store, searcher, embedder, extractor)
	resp, err := uc.MatchResume(context.Background(), "resume text", "", "")
	require.NoError(t, err)

	require.Len(t, resp.Experiences, 1)
	assert.Equal(t, "Data Pipeline", resp.Experiences[0].Title)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, []float32{0, 0, 1, 0}, searcher.queries[0].Slice())
}

func TestMatchResumeNoExperiencesReturnsEmptyLists(t *testing.T) {
	store := &fakeResumeStore{}
	searcher := &fakeJobSearcher{}
	extractor := &fakeExtractor{output: `[]`}

	uc := NewResumeUsecase(store, searcher, &fakeEmbedder{}, extractor)
	resp, err := uc.MatchResume(context.Background(), "resume text", "", "")
	require.NoError(t, err)

	assert.Empty(t, resp.MatchedJobs)
	assert.Empty(t, resp.Experiences)
	assert.Empty(t, searcher.queries, "no match query should run without stored experiences")
}

func TestMatchResumeFailsOnUnparsableExtraction(t *testing.T) {
	store := &fakeResumeStore{}
	extractor := &fakeExtractor{output: `{"note":"no experiences here"}`}

	uc := NewResumeUsecase(store, &fakeJobSearcher{}, &fakeEmbedder{}, extractor)
	_, err := uc.MatchResume(context.Background(), "resume text", "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparsableExtraction)
	assert.Empty(t, store.resumes, "nothing should be persisted when extraction output is unusable")
}

func TestRematchAveragesEmbeddings(t *testing.T) {
	store := &fakeResumeStore{byIDs: []model.Experience{
		{ID: 3, Embedding: pgvector.NewVector([]float32{1, 0, 0, 0})},
		{ID: 5, Embedding: pgvector.NewVector([]float32{0, 1, 0, 0})},
	}}
	searcher := &fakeJobSearcher{matches: []model.JobMatch{
		{Job: model.Job{ID: 1}, Score: 0.1},
		{Job: model.Job{ID: 2}, Score: 0.9},
	}}

	uc := NewResumeUsecase(store, searcher, &fakeEmbedder{}, &fakeExtractor{})
	matches, err := uc.Rematch(context.Background(), []uint{3, 5})
	require.NoError(t, err)

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, []float32{0.5, 0.5, 0, 0}, searcher.queries[0].Slice())

	// Repository order (ascending score) passes through untouched.
	require.Len(t, matches, 2)
	assert.Equal(t, uint(1), matches[0].ID)
	assert.Equal(t, 0.1, matches[0].Score)
	assert.Equal(t, uint(2), matches[1].ID)
}

func TestRematchDropsEmptyEmbeddings(t *testing.T) {
	store := &fakeResumeStore{byIDs: []model.Experience{
		{ID: 3},
		{ID: 5, Embedding: pgvector.NewVector([]float32{0, 1, 0, 0})},
	}}
	searcher := &fakeJobSearcher{}

	uc := NewResumeUsecase(store, searcher, &fakeEmbedder{}, &fakeExtractor{})
	_, err := uc.Rematch(context.Background(), []uint{3, 5})
	require.NoError(t, err)

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, []float32{0, 1, 0, 0}, searcher.queries[0].Slice())
}

func TestRematchNoValidEmbeddings(t *testing.T) {
	tests := []struct {
		name string
		ids  []uint
		byID []model.Experience
	}{
		{name: "empty id list", ids: nil},
		{name: "ids resolve to nothing", ids: []uint{7, 8}},
		{name: "only empty embeddings", ids: []uint{7}, byID: []model.Experience{{ID: 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeResumeStore{byIDs: tt.byID}
			uc := NewResumeUsecase(store, &fakeJobSearcher{}, &fakeEmbedder{}, &fakeExtractor{})

			_, err := uc.Rematch(context.Background(), tt.ids)
			assert.ErrorIs(t, err, ErrNoValidEmbeddings)
		})
	}
}

func TestRematchLookupFailureYieldsEmptyResult(t *testing.T) {
	store := &fakeResumeStore{byIDsErr: errors.New("connection refused")}
	searcher := &fakeJobSearcher{}

	uc := NewResumeUsecase(store, searcher, &fakeEmbedder{}, &fakeExtractor{})
	matches, err := uc.Rematch(context.Background(), []uint{1})

	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, searcher.queries)
}

func TestMeanVector(t *testing.T) {
	got := meanVector([][]float32{
		{2, 0, 4},
		{0, 2, 0},
		{1, 1, 2},
	})
	assert.Equal(t, []float32{1, 1, 2}, got)
}
