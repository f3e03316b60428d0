package mathexpr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2 + 2", 4},
		{"2+2*2", 6},
		{"(2+2)*2", 8},
		{"-3 + 5", 2},
		{"2 - -3", 5},
		{"10 / 4", 2.5},
		{"2^10", 1024},
		{"2^-1", 0.5},
		{"3 × 4", 12},
		{"8 ÷ 2", 4},
		{"1,5 + 1", 2.5},
		{"15 + 27", 42},
		{"2x3", 6},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"", ErrSyntax},
		{"2 +", ErrSyntax},
		{"(2 + 2", ErrSyntax},
		{"2 ** 2", ErrSyntax},
		{"1.2.3 + 1", ErrSyntax},
		{"2^0.5", ErrSyntax},
		{"2^100", ErrSyntax},
		{"1 / 0", ErrDivideByZero},
		{"0^-1", ErrDivideByZero},
		{strings.Repeat("1+", 40) + "1", ErrTooLong},
		{strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20), ErrTooDeep},
		{"import os", ErrSyntax},
		{"9 : 3", ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Eval(tt.expr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"2 + 2", "2 + 2"},
		{"Сколько будет 2+2?", "2+2"},
		{"Посчитай: 15 + 27, пожалуйста", "15 + 27"},
		{"а сколько (3 + 4) * 2.", "(3 + 4) * 2"},
		{"x 7 * 6", "7 * 6"},
		{"10 - 3", "10 - 3"},
		{"сколько 10 -3", "10 -3"},
		{"2-3 + 1", "2-3 + 1"},
		{"(5-3)", "(5-3)"},
		{"время 14:30, а 2 + 2?", "2 + 2"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Extract(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, text := range []string{
		"привет",
		"мне 25 лет",
		"сегодня 05.03.2024",
		"-5",
		"Встреча в 14:30",
		"в 9:05 утра",
		"Я родился 1990-05-12",
		"Подожди 2-3 дня",
		"Позвони 8-800-555-35-35",
	} {
		_, err := Extract(text)
		assert.ErrorIs(t, err, ErrNoExpression, text)
	}
}

func TestSolveAndFormat(t *testing.T) {
	expr, v, err := Solve("Сколько будет 2 + 2?")
	require.NoError(t, err)
	assert.Equal(t, "2 + 2 = 4", FormatResult(expr, v))

	expr, v, err = Solve("10 / 4")
	require.NoError(t, err)
	assert.Equal(t, "10 / 4 = 2.5", FormatResult(expr, v))

	_, _, err = Solve("раздели 1 / 0")
	assert.ErrorIs(t, err, ErrDivideByZero)
}
