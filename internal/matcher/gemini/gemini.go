// Package gemini is an optional LLM-backed responder. The model is asked for
// a short Russian reply plus a self-reported confidence.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"futurechat/internal/matcher"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// maxExamples bounds the few-shot pairs kept from Train.
const maxExamples = 20

// Config configures the responder.
type Config struct {
	APIKey string
	Model  string
}

// Generator is the subset of the genai client the responder needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Responder implements matcher.Responder over Gemini.
type Responder struct {
	gen   Generator
	model string

	mu       sync.RWMutex
	examples [][2]string
}

var _ matcher.Responder = (*Responder)(nil)

// New creates a Gemini client.
func New(ctx context.Context, cfg Config) (*Responder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return NewWithGenerator(client.Models, cfg.Model), nil
}

// NewWithGenerator builds a responder over an existing generator.
func NewWithGenerator(gen Generator, model string) *Responder {
	if model == "" {
		model = DefaultModel
	}
	return &Responder{gen: gen, model: model}
}

// Name implements matcher.Responder.
func (r *Responder) Name() string { return "gemini:" + r.model }

type answer struct {
	Reply      string  `json:"reply"`
	Confidence float64 `json:"confidence"`
}

// Respond asks the model for a reply.
func (r *Responder) Respond(ctx context.Context, text string) (matcher.Response, error) {
	prompt := r.buildPrompt(text)
	resp, err := r.gen.GenerateContent(ctx, r.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return matcher.Response{}, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return matcher.Response{}, errors.New("empty GenAI response")
	}
	return parseAnswer(resp.Text())
}

// Train keeps the pair as a few-shot example for later prompts.
func (r *Responder) Train(_ context.Context, prompt, reply string) error {
	prompt, reply = strings.TrimSpace(prompt), strings.TrimSpace(reply)
	if prompt == "" || reply == "" {
		return errors.New("gemini: prompt and reply must be non-empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.examples = append(r.examples, [2]string{prompt, reply})
	if over := len(r.examples) - maxExamples; over > 0 {
		r.examples = append([][2]string(nil), r.examples[over:]...)
	}
	return nil
}

func (r *Responder) buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Ты FutureChat, дружелюбный русскоязычный чат-бот. ")
	b.WriteString("Ответь на сообщение пользователя одной-двумя фразами. ")
	b.WriteString(`Верни только JSON вида {"reply": "<ответ>", "confidence": <число от 0 до 1>}, `)
	b.WriteString("где confidence - насколько ты уверен, что ответ подходит.\n")

	r.mu.RLock()
	if len(r.examples) > 0 {
		b.WriteString("\nПримеры:\n")
		for _, ex := range r.examples {
			fmt.Fprintf(&b, "Пользователь: %s\nFutureChat: %s\n", ex[0], ex[1])
		}
	}
	r.mu.RUnlock()

	fmt.Fprintf(&b, "\nСообщение пользователя: %s\n", text)
	return b.String()
}

// parseAnswer accepts bare JSON or JSON wrapped in a markdown fence.
func parseAnswer(raw string) (matcher.Response, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	var a answer
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return matcher.Response{}, fmt.Errorf("failed to parse model answer: %w", err)
	}
	return matcher.Response{Text: strings.TrimSpace(a.Reply), Confidence: a.Confidence}, nil
}
