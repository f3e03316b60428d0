package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futurechat/internal/config"
	"futurechat/internal/engine"
	"futurechat/internal/knowledge"
	"futurechat/internal/matcher"
	"futurechat/internal/store"
)

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "one two three", joinArgs([]string{"one", "two", "three"}))
}

func TestRunChat(t *testing.T) {
	e := engine.New(knowledge.NewSeeded(nil), matcher.Disabled("test"), engine.WithSeed(1))
	in := strings.NewReader("привет\nнаучить: кошки - кошки любят спать\nкошки\nВыход\nне дойдет\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), e, in, &out))

	text := out.String()
	assert.Contains(t, text, "FutureChat v3.0")
	assert.Contains(t, text, "кошки любят спать")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), chatGoodbye))
	assert.Equal(t, 3, e.History().Len(), "exit and later lines are not answered")
}

func TestRunChat_EOF(t *testing.T) {
	e := engine.New(nil, nil, engine.WithSeed(1))
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), e, strings.NewReader("2 + 2\n"), &out))
	assert.Contains(t, out.String(), "4")
	assert.Contains(t, out.String(), chatGoodbye)
}

func TestRunChat_Canceled(t *testing.T) {
	e := engine.New(nil, nil, engine.WithSeed(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	var out bytes.Buffer
	require.NoError(t, runChat(ctx, e, r, &out))
	assert.Contains(t, out.String(), chatGoodbye)
}

type stubResponder struct {
	mu      sync.Mutex
	trained [][2]string
}

func (s *stubResponder) Name() string { return "stub" }

func (s *stubResponder) Respond(context.Context, string) (matcher.Response, error) {
	return matcher.Response{}, nil
}

func (s *stubResponder) Train(_ context.Context, prompt, reply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = append(s.trained, [2]string{prompt, reply})
	return nil
}

func TestTrainCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yml")
	require.NoError(t, os.WriteFile(path, []byte(`categories:
  - greetings
conversations:
  - - Привет
    - Привет! Как дела?
    - Отлично
  - - Как погода?
    - Сегодня солнечно!
  - - одна строка
`), 0o644))

	stub := &stubResponder{}
	n, err := trainCorpusFile(context.Background(), matcher.Available(stub, time.Second), path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, [][2]string{
		{"Привет", "Привет! Как дела?"},
		{"Привет! Как дела?", "Отлично"},
		{"Как погода?", "Сегодня солнечно!"},
	}, stub.trained)
}

func TestLoadCorpus_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := loadCorpus(filepath.Join(dir, "absent.yml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yml")
	require.NoError(t, os.WriteFile(empty, []byte("categories: [x]\n"), 0o644))
	_, err = loadCorpus(empty)
	assert.Error(t, err)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := config.DefaultConfig()
	c.Engine.Seed = 1
	c.Knowledge.Path = filepath.Join(dir, "knowledge_base.json")
	c.Matcher.Provider = config.ProviderNone
	c.Matcher.DatabasePath = filepath.Join(dir, "futurechat_db.sqlite3")
	return c
}

func TestNewApp_PersistsTeach(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	a, err := newApp(ctx, c)
	require.NoError(t, err)
	assert.False(t, a.engine.Matcher().Enabled())
	_, err = a.engine.Teach(ctx, "собаки", "собаки умные")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a, err = newApp(ctx, c)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, []string{"собаки умные"}, a.engine.Knowledge().Replies("собаки"))
}

func TestNewApp_CorruptStoreStartsFromSeeds(t *testing.T) {
	c := testConfig(t)
	require.NoError(t, os.WriteFile(c.Knowledge.Path, []byte("{broken"), 0o644))

	a, err := newApp(context.Background(), c)
	require.NoError(t, err)
	defer a.Close()
	topics, _ := a.engine.Knowledge().Stats()
	assert.Equal(t, len(knowledge.Seeds), topics)
}

func TestNewApp_BestMatch(t *testing.T) {
	c := testConfig(t)
	c.Matcher.Provider = config.ProviderBestMatch

	a, err := newApp(context.Background(), c)
	require.NoError(t, err)
	defer a.Close()
	assert.True(t, a.engine.Matcher().Enabled())
	assert.Equal(t, "active: bestmatch", a.engine.Matcher().Status())
}

func TestNewApp_Watch(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	c.Knowledge.Watch = true

	a, err := newApp(ctx, c)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.watcher)

	fs, err := store.NewFileStore(c.Knowledge.Path)
	require.NoError(t, err)
	require.NoError(t, fs.Save(ctx, knowledge.Snapshot{"море": {"море солёное"}}))

	require.Eventually(t, func() bool {
		return len(a.engine.Knowledge().Replies("море")) == 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestMatcherFactory(t *testing.T) {
	c := config.DefaultConfig()
	c.Matcher.Provider = config.ProviderNone
	assert.Nil(t, matcherFactory(c))

	c.Matcher.Provider = config.ProviderGemini
	a := matcher.Init(context.Background(), matcherFactory(c), time.Second)
	assert.False(t, a.Enabled(), "gemini without a key stays disabled")
}
