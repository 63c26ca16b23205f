package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ise/internal/classifier"
	"github.com/agenthands/ise/internal/config"
	"github.com/agenthands/ise/internal/core/model"
	"github.com/agenthands/ise/internal/relation"
	"github.com/agenthands/ise/internal/tagger"
)

type ent struct {
	text       string
	typ        model.EntityType
	start, end int
}

func sentence(text string, ents ...ent) model.Sentence {
	s := model.Sentence{Text: text}
	for _, w := range strings.Fields(text) {
		s.Tokens = append(s.Tokens, model.Token{Text: w, Punct: w == "." || w == ","})
	}
	for _, e := range ents {
		s.Entities = append(s.Entities, model.Entity{Text: e.text, Type: e.typ, Span: model.Span{Start: e.start, End: e.end}})
	}
	return s
}

func mustRelation(t *testing.T, id int) relation.Spec {
	t.Helper()
	rel, err := relation.Lookup(id)
	require.NoError(t, err)
	return rel
}

func workForDoc() model.Document {
	return model.Document{Sentences: []model.Sentence{
		sentence("Bill Gates works for Microsoft and Apple .",
			ent{"Bill Gates", model.Person, 0, 2},
			ent{"Microsoft", model.Organization, 4, 5},
			ent{"Apple", model.Organization, 6, 7},
		),
		sentence("Nothing to see here ."),
	}}
}

func TestClassifierSource_Extract(t *testing.T) {
	clf := &MockClassifier{Predictions: map[model.Key]classifier.Prediction{
		{Subject: "Bill Gates", Object: "Microsoft"}: {Label: "per:employee_of", Confidence: 0.9},
		{Subject: "Bill Gates", Object: "Apple"}:     {Label: "per:employee_of", Confidence: 0.5},
	}}
	src := NewClassifierSource(&MockTagger{Doc: workForDoc()}, clf, nil, 0.7, nil)

	tuples, err := src.Extract(context.Background(), "ignored", mustRelation(t, 2))
	require.NoError(t, err)
	assert.Equal(t, []model.Tuple{model.NewScoredTuple("Bill Gates", "Microsoft", 0.9)}, tuples)
	assert.Equal(t, 1, clf.Calls, "sentences without candidates are not classified")
}

func TestClassifierSource_ThresholdIsInclusive(t *testing.T) {
	clf := &MockClassifier{Predictions: map[model.Key]classifier.Prediction{
		{Subject: "Bill Gates", Object: "Apple"}: {Label: "per:employee_of", Confidence: 0.5},
	}}
	src := NewClassifierSource(&MockTagger{Doc: workForDoc()}, clf, nil, 0.5, nil)

	tuples, err := src.Extract(context.Background(), "ignored", mustRelation(t, 2))
	require.NoError(t, err)
	assert.Equal(t, []model.Tuple{model.NewScoredTuple("Bill Gates", "Apple", 0.5)}, tuples)
}

func TestClassifierSource_DropsOtherRelations(t *testing.T) {
	clf := &MockClassifier{Predictions: map[model.Key]classifier.Prediction{
		{Subject: "Bill Gates", Object: "Microsoft"}: {Label: "per:schools_attended", Confidence: 0.99},
		{Subject: "Bill Gates", Object: "Apple"}:     {Label: relation.NoRelation, Confidence: 0.99},
	}}
	src := NewClassifierSource(&MockTagger{Doc: workForDoc()}, clf, nil, 0.1, nil)

	tuples, err := src.Extract(context.Background(), "ignored", mustRelation(t, 2))
	require.NoError(t, err)
	assert.Empty(t, tuples)
}

func TestClassifierSource_KeepsMaxWithinDocument(t *testing.T) {
	doc := model.Document{Sentences: []model.Sentence{
		sentence("Bill Gates joined Microsoft .",
			ent{"Bill Gates", model.Person, 0, 2},
			ent{"Microsoft", model.Organization, 3, 4},
		),
		sentence("Bill Gates led Microsoft .",
			ent{"Bill Gates", model.Person, 0, 2},
			ent{"Microsoft", model.Organization, 3, 4},
		),
	}}
	clf := &scoreQueue{scores: []float64{0.8, 0.95}}
	src := NewClassifierSource(&MockTagger{Doc: doc}, clf, nil, 0.5, nil)

	tuples, err := src.Extract(context.Background(), "ignored", mustRelation(t, 2))
	require.NoError(t, err)
	assert.Equal(t, []model.Tuple{model.NewScoredTuple("Bill Gates", "Microsoft", 0.95)}, tuples)
}

// scoreQueue labels every candidate per:employee_of with the next score.
type scoreQueue struct {
	scores []float64
}

func (q *scoreQueue) Predict(_ context.Context, cands []model.Candidate) ([]classifier.Prediction, error) {
	out := make([]classifier.Prediction, len(cands))
	for i := range cands {
		out[i] = classifier.Prediction{Label: "per:employee_of", Confidence: q.scores[0]}
		q.scores = q.scores[1:]
	}
	return out, nil
}

func TestClassifierSource_ClassifierFailureSkipsSentence(t *testing.T) {
	clf := &MockClassifier{Err: errors.New("model offline")}
	src := NewClassifierSource(&MockTagger{Doc: workForDoc()}, clf, nil, 0.5, nil)

	tuples, err := src.Extract(context.Background(), "ignored", mustRelation(t, 2))
	require.NoError(t, err)
	assert.Empty(t, tuples)
}

// extraPredictions answers one prediction more than it was asked for.
type extraPredictions struct{}

func (extraPredictions) Predict(_ context.Context, cands []model.Candidate) ([]classifier.Prediction, error) {
	out := make([]classifier.Prediction, len(cands)+1)
	for i := range out {
		out[i] = classifier.Prediction{Label: "per:employee_of", Confidence: 0.9}
	}
	return out, nil
}

func TestClassifierSource_PredictionCountMismatchSkipsSentence(t *testing.T) {
	src := NewClassifierSource(&MockTagger{Doc: workForDoc()}, extraPredictions{}, nil, 0.5, nil)

	var tuples []model.Tuple
	var err error
	require.NotPanics(t, func() {
		tuples, err = src.Extract(context.Background(), "ignored", mustRelation(t, 2))
	})
	require.NoError(t, err)
	assert.Empty(t, tuples)
}

func TestClassifierSource_LiveInWithLLMTagger(t *testing.T) {
	client := &MockLLMClient{Response: `{"entities": [
		{"sentence": 1, "text": "Bill Gates", "label": "PERSON"},
		{"sentence": 1, "text": "Medina", "label": "CITY"},
		{"sentence": 2, "text": "Melinda", "label": "PERSON"},
		{"sentence": 2, "text": "Washington", "label": "STATE_OR_PROVINCE"}
	]}`}
	tg := tagger.NewLLMTagger(client, config.TaggerConfig{}, config.GenerationConfig{}, "", nil)
	clf := &MockClassifier{Predictions: map[model.Key]classifier.Prediction{
		{Subject: "Bill Gates", Object: "Medina"}:  {Label: "per:cities_of_residence", Confidence: 0.9},
		{Subject: "Melinda", Object: "Washington"}: {Label: "per:stateorprovinces_of_residence", Confidence: 0.8},
	}}
	src := NewClassifierSource(tg, clf, nil, 0.5, nil)

	tuples, err := src.Extract(context.Background(), "Bill Gates lives in Medina. Melinda moved to Washington.", mustRelation(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, clf.Calls)
	assert.ElementsMatch(t, []model.Tuple{
		model.NewScoredTuple("Bill Gates", "Medina", 0.9),
		model.NewScoredTuple("Melinda", "Washington", 0.8),
	}, tuples)
}

func TestClassifierSource_TagFailure(t *testing.T) {
	src := NewClassifierSource(&MockTagger{Err: errors.New("ner down")}, &MockClassifier{}, nil, 0.5, nil)
	_, err := src.Extract(context.Background(), "ignored", mustRelation(t, 2))
	assert.Error(t, err)
}

func schoolsDoc() model.Document {
	return model.Document{Sentences: []model.Sentence{
		sentence("Jeff Bezos attended Princeton University .",
			ent{"Jeff Bezos", model.Person, 0, 2},
			ent{"Princeton University", model.Organization, 3, 5},
		),
		sentence("Princeton is in New Jersey .",
			ent{"Princeton", model.Organization, 0, 1},
			ent{"New Jersey", model.Location, 3, 5},
		),
		sentence("Jeff Bezos studied at Princeton University .",
			ent{"Jeff Bezos", model.Person, 0, 2},
			ent{"Princeton University", model.Organization, 4, 6},
		),
	}}
}

func TestGenerativeSource_Extract(t *testing.T) {
	client := &MockLLMClient{Responses: []string{
		`["Jeff Bezos", "Schools_Attended", "Princeton University"]`,
		`["Jeff Bezos", "Schools_Attended", "Princeton University"]`,
	}}
	src := NewGenerativeSource(&MockTagger{Doc: schoolsDoc()}, client, config.GenerationConfig{}, "", nil)

	tuples, err := src.Extract(context.Background(), "ignored", mustRelation(t, 1))
	require.NoError(t, err)
	assert.Equal(t, []model.Tuple{model.NewTuple("Jeff Bezos", "Princeton University")}, tuples)

	require.Len(t, client.Prompts, 2, "only sentences with a person and an organization are sent")
	assert.Contains(t, client.Prompts[0], `"Jeff Bezos attended Princeton University ."`)
	assert.Contains(t, client.Prompts[0], "schools attended")
	assert.Contains(t, client.Prompts[0], `["Person", "Schools_Attended", "School Name"]`)
}

func TestGenerativeSource_NonAnswersAreSkipped(t *testing.T) {
	client := &MockLLMClient{Responses: []string{
		"I could not find any relation in this sentence.",
		`["Unknown", "Unknown"]`,
	}}
	src := NewGenerativeSource(&MockTagger{Doc: schoolsDoc()}, client, config.GenerationConfig{}, "", nil)

	tuples, err := src.Extract(context.Background(), "ignored", mustRelation(t, 1))
	require.NoError(t, err)
	assert.Empty(t, tuples)
}

func TestGenerativeSource_GenerationFailureSkipsSentence(t *testing.T) {
	client := &MockLLMClient{Err: errors.New("quota exceeded")}
	src := NewGenerativeSource(&MockTagger{Doc: schoolsDoc()}, client, config.GenerationConfig{}, "", nil)

	tuples, err := src.Extract(context.Background(), "ignored", mustRelation(t, 1))
	require.NoError(t, err)
	assert.Empty(t, tuples)
	assert.Len(t, client.Prompts, 2)
}

func TestGenerativeSource_CustomPrompt(t *testing.T) {
	src := NewGenerativeSource(nil, nil, config.GenerationConfig{}, "%[5]s|%[1]s", nil)
	assert.Equal(t, "Some sentence.|companies worked for", src.BuildPrompt(mustRelation(t, 2), "Some sentence."))
}

func TestQualifies(t *testing.T) {
	liveIn := mustRelation(t, 3)
	workFor := mustRelation(t, 2)

	personCity := sentence("Bill Gates lives in Medina .",
		ent{"Bill Gates", model.Person, 0, 2},
		ent{"Medina", model.City, 4, 5},
	)
	personOnly := sentence("Bill Gates smiled .", ent{"Bill Gates", model.Person, 0, 2})
	placeOnly := sentence("Medina is in Washington .",
		ent{"Medina", model.City, 0, 1},
		ent{"Washington", model.StateOrProvince, 3, 4},
	)
	personOrg := sentence("Bill Gates founded Microsoft .",
		ent{"Bill Gates", model.Person, 0, 2},
		ent{"Microsoft", model.Organization, 3, 4},
	)

	assert.True(t, Qualifies(personCity, liveIn), "one location type covers every location type")
	assert.False(t, Qualifies(personOnly, liveIn))
	assert.False(t, Qualifies(placeOnly, liveIn))
	assert.True(t, Qualifies(personOrg, workFor))
	assert.False(t, Qualifies(personCity, workFor))
	assert.False(t, Qualifies(sentence("Nothing here ."), workFor))
}

func TestParseResponse(t *testing.T) {
	schools := relation.Spec{Name: "Schools_Attended"}

	tests := []struct {
		name     string
		response string
		want     []model.Tuple
		wantErr  bool
	}{
		{
			name:     "single triple",
			response: `["Jeff Bezos", "Schools_Attended", "Princeton University"]`,
			want:     []model.Tuple{model.NewTuple("Jeff Bezos", "Princeton University")},
		},
		{
			name: "several lines in a fence with duplicates",
			response: "```\n" +
				`["Jeff Bezos", "Schools_Attended", "Princeton University"]` + "\n" +
				`["MacKenzie Scott", "Schools_Attended", "Princeton University"],` + "\n" +
				`["Jeff Bezos", "Schools_Attended", "Princeton University"]` + "\n```",
			want: []model.Tuple{
				model.NewTuple("Jeff Bezos", "Princeton University"),
				model.NewTuple("MacKenzie Scott", "Princeton University"),
			},
		},
		{
			name:     "unknown marker anywhere",
			response: `["Jeff Bezos", "Schools_Attended", "Unknown"]`,
			wantErr:  true,
		},
		{
			name:     "wrong relation name",
			response: `["Jeff Bezos", "Work_For", "Amazon"]`,
			wantErr:  true,
		},
		{
			name:     "prose",
			response: "Jeff Bezos attended Princeton (Schools_Attended).",
			wantErr:  true,
		},
		{
			name:     "prose around a list",
			response: `Here you go: ["Jeff Bezos", "Schools_Attended", "Princeton University"]`,
			wantErr:  true,
		},
		{
			name:     "pair instead of triple",
			response: `["Jeff Bezos", "Schools_Attended"]`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.response, schools)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNonAnswer)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
