package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Привет!", "привет"},
		{"  Как дела?  ", "как дела"},
		{"2 + 2", "2  2"},
		{"Hello, World...", "hello world"},
		{"snake_case", "snakecase"},
		{"Ёжик в тумане", "ёжик в тумане"},
		{"ты AI?!", "ты ai"},
		{"🤖 бот", "бот"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "Normalize(%q)", c.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Что такое ИИ?",
		"İstanbul",
		"йogurt", // decomposed й
		"tabs\tand\nnewlines",
		"—dash— «quotes»",
		"ǅemal",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "not idempotent for %q", in)
	}
}

func TestNormalize_ComposesDecomposedLetters(t *testing.T) {
	assert.Equal(t, "йогурт", Normalize("йогурт"))
}

func TestTokenHelpers(t *testing.T) {
	n := Normalize("Расскажи про это, пожалуйста")
	assert.Equal(t, []string{"расскажи", "про", "это", "пожалуйста"}, Tokens(n))
	assert.True(t, HasToken(n, "это"))
	assert.False(t, HasToken(n, "эт"))
	assert.Len(t, TokenSet("да да нет"), 2)
}
