package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text       string
	err        error
	lastPrompt string
	lastModel  string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.lastModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.lastPrompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestRespond_ParsesJSON(t *testing.T) {
	gen := &fakeGenerator{text: `{"reply": "Привет! 👋", "confidence": 0.9}`}
	r := NewWithGenerator(gen, "")

	resp, err := r.Respond(context.Background(), "привет")
	require.NoError(t, err)
	assert.Equal(t, "Привет! 👋", resp.Text)
	assert.Equal(t, 0.9, resp.Confidence)
	assert.Equal(t, DefaultModel, gen.lastModel)
	assert.Contains(t, gen.lastPrompt, "Сообщение пользователя: привет")
}

func TestRespond_Errors(t *testing.T) {
	r := NewWithGenerator(&fakeGenerator{err: errors.New("quota")}, "m")
	_, err := r.Respond(context.Background(), "x")
	assert.Error(t, err)

	r = NewWithGenerator(&fakeGenerator{text: "не JSON"}, "m")
	_, err = r.Respond(context.Background(), "x")
	assert.Error(t, err)
}

func TestParseAnswer_Fenced(t *testing.T) {
	resp, err := parseAnswer("```json\n{\"reply\":\"ok\",\"confidence\":0.4}\n```")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 0.4, resp.Confidence)
}

func TestTrain_ExamplesAreBounded(t *testing.T) {
	gen := &fakeGenerator{text: `{"reply":"a","confidence":1}`}
	r := NewWithGenerator(gen, "m")
	for i := 0; i < maxExamples+5; i++ {
		require.NoError(t, r.Train(context.Background(), fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}
	assert.Error(t, r.Train(context.Background(), "", "x"))

	_, err := r.Respond(context.Background(), "hi")
	require.NoError(t, err)
	assert.NotContains(t, gen.lastPrompt, "Пользователь: q4\n")
	assert.Contains(t, gen.lastPrompt, "Пользователь: q5\n")
	assert.Equal(t, maxExamples, strings.Count(gen.lastPrompt, "Пользователь: q"))
}
