package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		q    string
		want Label
	}{
		{"Что такое Python?", Question},
		{"Помоги мне, пожалуйста", Request},
		{"Запомни: Земля круглая", Teaching},
		{"Привет! Как дела", Casual},
		{"Python лучше или Go", Comparison},
		{"2 + 2", Unknown},
		{"", Unknown},
		{"ну вот", Unknown},
	}
	for _, c := range cases {
		if got := Classify(c.q); got != c.want {
			t.Fatalf("Classify(%q)=%s want %s", c.q, got, c.want)
		}
	}
}

func TestClassify_TieBreakFollowsOrder(t *testing.T) {
	// request=1 (объясни), question=1 (почему): question comes first.
	assert.Equal(t, Question, Classify("объясни почему"))
	// teaching=1 (запомни), casual=1 (спасибо): teaching comes first.
	assert.Equal(t, Teaching, Classify("запомни, спасибо"))

	c := NewClassifierWithTriggers(map[Label][]string{
		Comparison: {"x"},
		Casual:     {"x"},
	})
	assert.Equal(t, Casual, c.Classify("x"))
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{"как дела?", "сравни кошек и собак", "научи меня", "hello"}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, Classify(in))
		}
	}
}

func TestScores(t *testing.T) {
	scores := NewClassifier().Scores("Привет! Как дела")
	assert.Equal(t, 1, scores[Question])
	assert.Equal(t, 3, scores[Casual])
	assert.Equal(t, 0, scores[Comparison])
	assert.Len(t, scores, len(Order))
}

func TestAnalyzeQuestion(t *testing.T) {
	cases := []struct {
		in   string
		want QuestionInfo
	}{
		{"Что такое квантовый компьютер?", QuestionInfo{KindDefinition, "квантовый компьютер"}},
		{"Почему небо голубое", QuestionInfo{KindWhy, "небо голубое"}},
		{"Как приготовить борщ?", QuestionInfo{KindHowTo, "приготовить борщ"}},
		{"Сколько стоит билет", QuestionInfo{KindGeneral, "сколько стоит билет"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AnalyzeQuestion(c.in), c.in)
	}
}
