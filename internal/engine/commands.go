package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"futurechat/internal/knowledge"
	"futurechat/internal/logging"
	"futurechat/internal/textnorm"
)

// ErrMalformedTeach is returned by ParseTeach when the payload has no
// " - " separator or an empty side.
var ErrMalformedTeach = errors.New("malformed teach command")

// TeachSeparator splits a teach or train payload.
const TeachSeparator = " - "

var (
	TeachPrefixes = []string{"teach:", "научить:"}
	TrainPrefixes = []string{"train:", "обучить:"}

	HelpCommands  = []string{"помощь", "help", "команды"}
	StatsCommands = []string{"статистика", "инфо", "info", "stats"}
	// ExitCommands end an interactive session. The engine itself does not
	// act on them.
	ExitCommands = []string{"выход", "quit", "exit"}
)

const (
	TeachUsage = "Используй формат: научить: тема - информация 📝"
	TrainUsage = "Используй формат: обучить: вопрос - ответ 📝"

	trainUnavailable = "Обучение недоступно - внешний сопоставитель не запущен 😔"
	trainFailed      = "Не получилось запомнить этот диалог, попробуй еще раз 😔"
)

var teachThanks = []string{
	"Спасибо! Теперь я знаю про %s! 🎉",
	"Отлично! Запомнил информацию про %s! 🧠",
	"Здорово! Я стал умнее благодаря тебе! ✨",
	"Замечательно! Теперь про %s я знаю больше! 📚",
}

var teachKnown = []string{
	"Я это уже знаю про %s, но спасибо! 😊",
	"Про %s я это уже запомнил раньше 👍",
}

// IsExit reports whether text is an exit command.
func IsExit(text string) bool {
	return matchesCommand(text, ExitCommands)
}

func matchesCommand(text string, commands []string) bool {
	normalized := textnorm.Normalize(text)
	for _, c := range commands {
		if normalized == c {
			return true
		}
	}
	return false
}

func (e *Engine) command(text string) (Reply, bool) {
	switch {
	case matchesCommand(text, HelpCommands):
		return Reply{Text: e.HelpText(), Source: SourceCommand}, true
	case matchesCommand(text, StatsCommands):
		return Reply{Text: e.StatsText(), Source: SourceCommand}, true
	}
	return Reply{}, false
}

// HelpText lists the commands.
func (e *Engine) HelpText() string {
	return strings.TrimSpace(fmt.Sprintf(`
🤖 %s v%s - Команды:
📚 научить: [тема] - [информация] - научить меня чему-то новому
🎓 обучить: [вопрос] - [ответ] - научить новому диалогу
📊 статистика - показать статистику бота
❓ помощь - показать эту справку
🚪 выход - завершить беседу

Примеры:
• научить: собаки - собаки очень умные и преданные животные
• Сколько будет 15 + 27?
• Просто задавай вопросы - я отвечу или попрошу научить меня!`, e.name, e.version))
}

// StatsText renders Stats for chat.
func (e *Engine) StatsText() string {
	s := e.Stats()
	return fmt.Sprintf(`🤖 Статистика %s v%s:
📚 Тем в базе знаний: %d
💬 Ответов в базе: %d
🗂️ Сообщений в истории: %d
🧩 Внешний сопоставитель: %s`, s.Name, s.Version, s.KnowledgeTopics, s.TotalResponses, s.ConversationCount, s.Matcher)
}

// ParseTeach splits "<topic> - <info>".
func ParseTeach(payload string) (topic, info string, err error) {
	topic, info, ok := strings.Cut(payload, TeachSeparator)
	topic, info = strings.TrimSpace(topic), strings.TrimSpace(info)
	if !ok || topic == "" || info == "" {
		return "", "", ErrMalformedTeach
	}
	return topic, info, nil
}

// cutPrefix strips the first matching prefix, ignoring case.
func cutPrefix(text string, prefixes []string) (string, bool) {
	runes := []rune(text)
	for _, p := range prefixes {
		n := len([]rune(p))
		if len(runes) >= n && strings.EqualFold(string(runes[:n]), p) {
			return strings.TrimSpace(string(runes[n:])), true
		}
	}
	return "", false
}

// Teach appends info under topic and persists the table. It is the
// programmatic form of the teach command.
func (e *Engine) Teach(ctx context.Context, topic, info string) (knowledge.TeachResult, error) {
	res, err := e.base.Teach(topic, info)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrMalformedTeach, err)
	}
	if res.Added {
		e.persist(ctx)
	}
	return res, nil
}

func (e *Engine) teach(ctx context.Context, payload string) Reply {
	topic, info, err := ParseTeach(payload)
	if err != nil {
		teachTotal.WithLabelValues("malformed").Inc()
		return Reply{Text: TeachUsage, Source: SourceTeach}
	}
	res, err := e.Teach(ctx, topic, info)
	if err != nil {
		teachTotal.WithLabelValues("malformed").Inc()
		return Reply{Text: TeachUsage, Source: SourceTeach}
	}
	if !res.Added {
		teachTotal.WithLabelValues("duplicate").Inc()
		return Reply{Text: e.picker.Pickf(teachKnown, topic), Source: SourceTeach}
	}
	teachTotal.WithLabelValues("added").Inc()
	logging.Knowledge("Learned %q under %q (new entry: %v)", info, res.Key, res.Created)
	return Reply{Text: e.picker.Pickf(teachThanks, topic), Source: SourceTeach}
}

func (e *Engine) train(ctx context.Context, payload string) Reply {
	prompt, reply, err := ParseTeach(payload)
	if err != nil {
		return Reply{Text: TrainUsage, Source: SourceTrain}
	}
	if !e.matcher.Enabled() {
		return Reply{Text: trainUnavailable, Source: SourceTrain}
	}
	if !e.matcher.Train(ctx, prompt, reply) {
		return Reply{Text: trainFailed, Source: SourceTrain}
	}
	return Reply{
		Text:   fmt.Sprintf("✅ Отлично! Теперь я знаю, что на '%s' нужно отвечать: '%s'", prompt, reply),
		Source: SourceTrain,
	}
}

// persist saves a snapshot. Saves are serialized so an older snapshot never
// overwrites a newer one. Failures are logged; memory stays authoritative.
func (e *Engine) persist(ctx context.Context) {
	if e.persister == nil {
		return
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if err := e.persister.Save(ctx, e.base.Snapshot()); err != nil {
		persistFailuresTotal.Inc()
		logging.StoreError("Failed to save knowledge: %v", err)
	}
}
