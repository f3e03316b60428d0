package arbiter

import (
	"strings"

	"futurechat/internal/intent"
	"futurechat/internal/mathexpr"
	"futurechat/internal/textnorm"
)

var teachingAcks = []string{
	"Интересно! Спасибо, что рассказал 📝",
	"Запомню! Чтобы я точно выучил, напиши: 'научить: тема - информация' 🧠",
	"Ого, не знал! Можешь научить меня командой 'научить: тема - информация' ✨",
}

var casualFillers = []string{
	"Понятно! 😊",
	"Ага, интересно! Расскажи еще что-нибудь 🙂",
	"Здорово! О чем поговорим дальше? 💬",
	"Угу, я тебя слушаю! 👂",
}

var helpfulFillers = []string{
	"Я постараюсь помочь! Расскажи подробнее, что нужно сделать 🛠️",
	"С радостью помогу! Уточни, пожалуйста, задачу 🤝",
	"Давай разберемся вместе! Что именно тебе нужно? 💡",
}

var unknownTemplates = map[intent.QuestionKind][]string{
	intent.KindDefinition: {
		"Я пока не знаю, что такое «%s». Научи меня: 'научить: %s - ...' 📖",
		"«%s» - новое для меня понятие! Расскажешь, что это? 🧐",
	},
	intent.KindHowTo: {
		"Хм, как %s... Я еще не знаю. Поделишься способом? 🤔",
		"Я пока не умею объяснять, как %s. Научишь меня? 📚",
	},
	intent.KindWhy: {
		"Хороший вопрос, почему %s. Ответа я пока не знаю, может, расскажешь? 🧐",
		"Почему %s? Я еще не разобрался. Поделись, если знаешь! 💭",
	},
	intent.KindGeneral: {
		"Интересно! Расскажи мне больше про '%s' 🤓",
		"Про '%s' я пока не знаю. Научи меня! 📖",
		"'%s' - новая тема! Что об этом можешь рассказать? 🧐",
	},
}

var vagueUnknown = []string{
	"Не совсем понимаю... Можешь объяснить по-другому? 🤔",
	"Это что-то новенькое! Поделись информацией! ✨",
}

// ContextualUnknown builds the reply for a turn no source could answer.
// Arithmetic is answered first; otherwise the reply is shaped by the
// question subtype.
func (a *Arbiter) ContextualUnknown(raw string) string {
	if expr, v, err := mathexpr.Solve(raw); err == nil {
		return mathexpr.FormatResult(expr, v)
	}

	q := intent.AnalyzeQuestion(raw)
	subject := strings.TrimSpace(q.Subject)
	if subject == "" {
		subject = textnorm.Normalize(raw)
	}
	if subject == "" {
		return a.picker.Pick(vagueUnknown)
	}
	return a.picker.Pickf(unknownTemplates[q.Kind], subject, subject)
}
