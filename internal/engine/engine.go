// Package engine runs one conversational turn end to end: command and
// teach interception, signal gathering, arbitration and history.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"futurechat/internal/arbiter"
	"futurechat/internal/history"
	"futurechat/internal/intent"
	"futurechat/internal/knowledge"
	"futurechat/internal/logging"
	"futurechat/internal/matcher"
	"futurechat/internal/phrase"
	"futurechat/internal/style"
	"futurechat/internal/textnorm"
	"futurechat/internal/tracker"
)

// EmptyInputPrompt answers blank input.
const EmptyInputPrompt = "Пустое сообщение... Напиши что-нибудь! 😊"

// Sources outside the arbiter's set.
const (
	SourceInput   arbiter.Source = "input"
	SourceCommand arbiter.Source = "command"
	SourceTeach   arbiter.Source = "teach"
	SourceTrain   arbiter.Source = "train"
)

// Persister saves the knowledge table after a teach.
type Persister interface {
	Save(ctx context.Context, snap knowledge.Snapshot) error
}

// Reply is the outcome of one turn.
type Reply struct {
	Text   string         `json:"response"`
	Source arbiter.Source `json:"source"`
	Intent intent.Label   `json:"intent,omitempty"`
	Tier   style.Tier     `json:"tier,omitempty"`
}

// Stats mirrors the web stats payload.
type Stats struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	KnowledgeTopics   int    `json:"knowledge_topics"`
	ConversationCount int    `json:"conversation_count"`
	TotalResponses    int    `json:"total_responses"`
	Matcher           string `json:"matcher"`
}

// Engine is constructed once and shared by every request handler.
type Engine struct {
	name    string
	version string

	base       *knowledge.Base
	history    *history.History
	classifier *intent.Classifier
	tracker    *tracker.Tracker
	matcher    *matcher.Adapter
	arbiter    *arbiter.Arbiter
	picker     *phrase.Picker

	persister Persister
	saveMu    sync.Mutex
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	name       string
	version    string
	seed       int64
	historyCap int
	thresholds style.Thresholds
	persister  Persister
}

// WithIdentity sets the name and version reported by stats.
func WithIdentity(name, version string) Option {
	return func(o *options) { o.name, o.version = name, version }
}

// WithSeed pins the phrase picker. 0 seeds from the clock.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithHistoryCap sets the number of turns kept.
func WithHistoryCap(n int) Option {
	return func(o *options) { o.historyCap = n }
}

// WithThresholds sets the confidence tier cut points.
func WithThresholds(th style.Thresholds) Option {
	return func(o *options) { o.thresholds = th }
}

// WithPersister saves the knowledge table after every teach.
func WithPersister(p Persister) Option {
	return func(o *options) { o.persister = p }
}

// New wires an engine around base and adapter. A nil adapter means the
// external matcher is disabled.
func New(base *knowledge.Base, adapter *matcher.Adapter, opts ...Option) *Engine {
	o := options{name: "FutureChat", version: "3.0", historyCap: history.DefaultCap}
	for _, opt := range opts {
		opt(&o)
	}
	if base == nil {
		base = knowledge.NewSeeded(nil)
	}
	if adapter == nil {
		adapter = matcher.Disabled("not configured")
	}
	picker := phrase.NewPicker(o.seed)
	return &Engine{
		name:       o.name,
		version:    o.version,
		base:       base,
		history:    history.New(o.historyCap),
		classifier: intent.NewClassifier(),
		tracker:    tracker.New(picker),
		matcher:    adapter,
		arbiter:    arbiter.New(picker, style.NewDecorator(picker), o.thresholds),
		picker:     picker,
		persister:  o.persister,
	}
}

// Knowledge exposes the knowledge table.
func (e *Engine) Knowledge() *knowledge.Base { return e.base }

// History exposes the conversation history.
func (e *Engine) History() *history.History { return e.history }

// Matcher exposes the external matcher adapter.
func (e *Engine) Matcher() *matcher.Adapter { return e.matcher }

// Respond answers one utterance. It always returns a non-empty reply.
func (e *Engine) Respond(ctx context.Context, text string) Reply {
	start := time.Now()
	defer func() { turnLatency.Observe(time.Since(start).Seconds()) }()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		turnsTotal.WithLabelValues(string(SourceInput)).Inc()
		return Reply{Text: EmptyInputPrompt, Source: SourceInput}
	}

	if reply, ok := e.command(trimmed); ok {
		turnsTotal.WithLabelValues(string(SourceCommand)).Inc()
		return reply
	}

	var reply Reply
	if payload, ok := cutPrefix(trimmed, TeachPrefixes); ok {
		reply = e.teach(ctx, payload)
	} else if payload, ok := cutPrefix(trimmed, TrainPrefixes); ok {
		reply = e.train(ctx, payload)
	} else {
		reply = e.arbitrate(ctx, trimmed)
	}

	e.history.Append(history.Turn{User: trimmed, Reply: reply.Text, Source: string(reply.Source)})
	turnsTotal.WithLabelValues(string(reply.Source)).Inc()
	return reply
}

func (e *Engine) arbitrate(ctx context.Context, text string) Reply {
	timer := logging.StartTimer(logging.CategoryEngine, "arbitrate")
	defer timer.StopWithThreshold(500 * time.Millisecond)

	turns := e.history.Snapshot()
	label := e.classifier.Classify(text)
	intentsTotal.WithLabelValues(string(label)).Inc()

	in := arbiter.Input{Intent: label, Raw: text}
	if sig, ok := e.tracker.Analyze(text, turns); ok {
		contextRulesTotal.WithLabelValues(string(sig.Rule)).Inc()
		in.Context = sig.Reply
	} else {
		in.Knowledge, in.External = e.gather(ctx, text)
	}

	d := e.arbiter.Select(in)
	logging.EngineDebug("Turn %q: intent=%s source=%s tier=%s", text, label, d.Source, d.Tier)
	return Reply{Text: d.Text, Source: d.Source, Intent: label, Tier: d.Tier}
}

// gather queries the knowledge table and the external matcher in parallel.
// Neither call can fail the turn.
func (e *Engine) gather(ctx context.Context, text string) (knowledge.Result, matcher.Result) {
	var (
		kr knowledge.Result
		mr matcher.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		kr = e.base.Match(textnorm.Normalize(text))
		return nil
	})
	g.Go(func() error {
		mr = e.matcher.Query(gctx, text)
		return nil
	})
	_ = g.Wait()

	if mr.Err != nil && e.matcher.Enabled() {
		matcherFailuresTotal.Inc()
	}
	return kr, mr
}

// Stats reports knowledge and history counters.
func (e *Engine) Stats() Stats {
	topics, replies := e.base.Stats()
	return Stats{
		Name:              e.name,
		Version:           e.version,
		KnowledgeTopics:   topics,
		ConversationCount: e.history.Len(),
		TotalResponses:    replies,
		Matcher:           e.matcher.Status(),
	}
}

// Close releases the external matcher.
func (e *Engine) Close() error {
	return e.matcher.Close()
}
