package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillswap_backend/internal/config"
	"skillswap_backend/internal/model"

	"github.com/stretchr/testify/require"
)

const testTranscript = "The session covered goroutines, channels, buffered channels, the select statement, context cancellation and the sync package, with worked examples for each topic."

// chatStub serves the chat-completions route, wrapping content in the
// OpenAI response envelope.
func chatStub(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": AIChatMessage{Role: "assistant", Content: content}},
			},
		}
		json.NewEncoder(w).Encode(body)
	}))
}

func generatorFor(baseURL string) *QuizGenerator {
	ai := NewAIService(config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "gpt-4o-mini",
		Temperature:    0.7,
		TimeoutSeconds: 2,
	})
	return NewQuizGenerator(ai, rand.New(rand.NewSource(1)))
}

// validModelJSON builds a payload with the requested question and
// option counts; every answer is present among the options.
func validModelJSON(questionCount, optionCount int) string {
	payload := map[string]interface{}{}
	var questions []map[string]string
	var options []string
	for i := 1; i <= questionCount; i++ {
		questions = append(questions, map[string]string{
			"question": fmt.Sprintf("What does topic %d cover?", i),
			"answer":   fmt.Sprintf("Topic %d", i),
		})
	}
	for i := 1; i <= optionCount; i++ {
		options = append(options, fmt.Sprintf("Topic %d", i))
	}
	payload["questions"] = questions
	payload["options"] = options
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func requireContract(t *testing.T, set QuestionSet) {
	t.Helper()
	require.Len(t, set.Questions, model.QuizQuestionCount)
	require.Len(t, set.Options, model.QuizOptionCount)

	optionSet := map[string]bool{}
	for _, o := range set.Options {
		optionSet[o] = true
	}
	for i, q := range set.Questions {
		require.Equal(t, i+1, q.Number)
		require.NotEmpty(t, q.Text)
		require.True(t, optionSet[q.Answer], "answer %q missing from options", q.Answer)
	}
}

func TestGenerateFromModel(t *testing.T) {
	srv := chatStub(t, validModelJSON(10, 12))
	defer srv.Close()

	set := generatorFor(srv.URL).Generate(context.Background(), testTranscript, "Go Programming")

	requireContract(t, set)
	require.Equal(t, "What does topic 1 cover?", set.Questions[0].Text)
}

func TestGenerateStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + validModelJSON(10, 12) + "\n```"
	srv := chatStub(t, fenced)
	defer srv.Close()

	set := generatorFor(srv.URL).Generate(context.Background(), testTranscript, "Go Programming")

	requireContract(t, set)
	require.Equal(t, "Topic 1", set.Questions[0].Answer)
}

func TestGenerateTruncatesOversizedPayload(t *testing.T) {
	srv := chatStub(t, validModelJSON(13, 15))
	defer srv.Close()

	set := generatorFor(srv.URL).Generate(context.Background(), testTranscript, "Go Programming")

	requireContract(t, set)
}

func TestGenerateFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "Sure! Here are your questions: 1) ..."},
		{"too few questions", validModelJSON(9, 12)},
		{"too few options", validModelJSON(10, 11)},
		{"answer missing from options", `{"questions":[` + tenQuestionsAnswering("Elsewhere") + `],"options":["a","b","c","d","e","f","g","h","i","j","k","l"]}`},
		{"empty question text", `{"questions":[` + tenQuestionsAnswering("a") + `],"options":["a","b","c","d","e","f","g","h","i","j","k","l"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatStub(t, tt.content)
			defer srv.Close()

			set := generatorFor(srv.URL).Generate(context.Background(), testTranscript, "Go Programming")

			requireContract(t, set)
			require.Equal(t, "Question 1 about Go Programming", set.Questions[0].Text)
		})
	}
}

// tenQuestionsAnswering emits ten question objects all sharing one
// answer; the first has empty text when answer is a valid option, so
// both the containment and the empty-field checks get exercised.
func tenQuestionsAnswering(answer string) string {
	var parts []string
	for i := 1; i <= 10; i++ {
		text := fmt.Sprintf("Question %d?", i)
		if i == 1 && answer == "a" {
			text = "   "
		}
		parts = append(parts, fmt.Sprintf(`{"question":%q,"answer":%q}`, text, answer))
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

func TestGenerateFallsBackOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	set := generatorFor(srv.URL).Generate(context.Background(), testTranscript, "Go Programming")
	requireContract(t, set)
}

func TestGenerateFallsBackOnDeadEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	set := generatorFor(srv.URL).Generate(context.Background(), testTranscript, "Go Programming")
	requireContract(t, set)
}

func TestGenerateWithoutAPIKeyUsesFallback(t *testing.T) {
	ai := NewAIService(config.AIConfig{})
	gen := NewQuizGenerator(ai, rand.New(rand.NewSource(1)))

	set := gen.Generate(context.Background(), testTranscript, "Knitting")

	requireContract(t, set)
	require.Equal(t, "Question 3 about Knitting", set.Questions[2].Text)
	require.Equal(t, "Answer 3", set.Questions[2].Answer)
}

func TestGenerateShortTranscriptUsesFallback(t *testing.T) {
	srv := chatStub(t, validModelJSON(10, 12))
	defer srv.Close()

	set := generatorFor(srv.URL).Generate(context.Background(), "too short", "Go Programming")

	requireContract(t, set)
	require.Equal(t, "Question 1 about Go Programming", set.Questions[0].Text)
}

func TestFallbackShufflesDeterministically(t *testing.T) {
	ai := NewAIService(config.AIConfig{})

	a := NewQuizGenerator(ai, rand.New(rand.NewSource(42))).Generate(context.Background(), "", "Chess")
	b := NewQuizGenerator(ai, rand.New(rand.NewSource(42))).Generate(context.Background(), "", "Chess")

	require.Equal(t, a.Options, b.Options)
	requireContract(t, a)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json language tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
