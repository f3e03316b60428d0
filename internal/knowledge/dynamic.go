package knowledge

import (
	"fmt"
	"time"
)

// Renderer produces replies for a dynamic entry at the given instant.
type Renderer func(now time.Time) []string

const (
	TimeKey = "время|сколько времени|который час"
	DateKey = "дата|какое число|сегодня"
)

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// DefaultDynamic returns the time and date renderers.
func DefaultDynamic() map[string]Renderer {
	return map[string]Renderer{
		TimeKey: renderTime,
		DateKey: renderDate,
	}
}

func renderTime(now time.Time) []string {
	return []string{
		fmt.Sprintf("Сейчас %s! ⏰", now.Format("15:04")),
		fmt.Sprintf("Точное время: %s 🕐", now.Format("15:04:05")),
		fmt.Sprintf("Время: %s 📅", now.Format("02.01.2006 15:04")),
	}
}

func renderDate(now time.Time) []string {
	return []string{
		fmt.Sprintf("Сегодня %s 📅", now.Format("02.01.2006")),
		fmt.Sprintf("Дата: %d %s %d 🗓️", now.Day(), monthsGenitive[now.Month()-1], now.Year()),
	}
}
