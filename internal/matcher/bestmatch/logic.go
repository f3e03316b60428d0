package bestmatch

import (
	"strings"
	"time"

	"futurechat/internal/mathexpr"
	"futurechat/internal/matcher"
)

// LogicAdapter answers a narrow class of inputs with full confidence.
type LogicAdapter interface {
	CanProcess(text string) bool
	Process(text string) (matcher.Response, bool)
}

// MathAdapter evaluates arithmetic found in the input.
type MathAdapter struct{}

func (MathAdapter) CanProcess(text string) bool {
	_, err := mathexpr.Extract(text)
	return err == nil
}

func (MathAdapter) Process(text string) (matcher.Response, bool) {
	expr, v, err := mathexpr.Solve(text)
	if err != nil {
		return matcher.Response{}, false
	}
	return matcher.Response{Text: mathexpr.FormatResult(expr, v), Confidence: 1}, true
}

var timeTriggers = []string{"который час", "сколько времени", "what time", "current time", "time is it"}

// TimeAdapter reports the current time when asked.
type TimeAdapter struct {
	Clock func() time.Time
}

func (TimeAdapter) CanProcess(text string) bool {
	lowered := strings.ToLower(text)
	for _, t := range timeTriggers {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}

func (a TimeAdapter) Process(string) (matcher.Response, bool) {
	now := time.Now()
	if a.Clock != nil {
		now = a.Clock()
	}
	return matcher.Response{Text: "Сейчас " + now.Format("15:04"), Confidence: 1}, true
}

// SeedConversation is trained pairwise into an empty store.
var SeedConversation = []string{
	"Привет",
	"Привет! Как дела?",
	"Как дела?",
	"Хорошо, спасибо! А у тебя?",
	"Как тебя зовут?",
	"Меня зовут FutureChat. Я умный AI бот.",
	"Что ты умеешь?",
	"Я могу болтать, отвечать на вопросы и учиться новому!",
	"Расскажи что-нибудь интересное",
	"Знаешь ли ты, что AI развивается очень быстро? Каждый день появляются новые возможности!",
	"Какая сегодня погода?",
	"Я не имею доступа к данным о погоде, но могу поговорить на эту тему.",
	"Сколько будет 2+2?",
	"2+2 равно 4",
	"Что такое искусственный интеллект?",
	"ИИ - это технология, которая позволяет машинам имитировать человеческое мышление.",
	"Расскажи анекдот",
	"Почему программисты любят темные темы? Потому что свет привлекает баги!",
	"Спасибо",
	"Пожалуйста! Всегда рад помочь!",
	"Пока",
	"До свидания! Было приятно поговорить!",
	"Ты умный?",
	"Я стараюсь быть полезным и учусь каждый день!",
	"Что ты знаешь о Python?",
	"Python - отличный язык программирования! Простой и мощный.",
	"Помоги мне",
	"Конечно! Расскажи, с чем тебе нужна помощь.",
	"Ты робот?",
	"Да, я AI чат-бот, созданный для общения с людьми.",
}
