package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"skillswap_backend/internal/model"
	"skillswap_backend/pkg/logger"
	"skillswap_backend/pkg/monitoring"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// minTranscriptLength is the shortest transcript worth sending to the
// model; anything below it produces placeholder questions instead.
const minTranscriptLength = 50

type GeneratedQuestion struct {
	Number int    `json:"number"`
	Text   string `json:"question"`
	Answer string `json:"answer"`
}

// QuestionSet is the generator's output contract: exactly 10 questions
// and 12 candidate options, with every answer present verbatim among
// the options. Both the AI path and the fallback satisfy it.
type QuestionSet struct {
	Questions []GeneratedQuestion
	Options   []string
}

// QuizGenerator builds a question set from a session transcript. Any
// failure on the AI path (network, malformed JSON, contract violation)
// degrades to the deterministic fallback; Generate never fails.
type QuizGenerator struct {
	ai *AIService

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuizGenerator uses rng for option shuffling; pass a seeded source
// for reproducible output in tests.
func NewQuizGenerator(ai *AIService, rng *rand.Rand) *QuizGenerator {
	return &QuizGenerator{ai: ai, rng: rng}
}

func (g *QuizGenerator) Generate(ctx context.Context, transcript, skillName string) QuestionSet {
	if g.ai == nil || !g.ai.Configured() || len(strings.TrimSpace(transcript)) < minTranscriptLength {
		monitoring.QuizGenerationTotal.WithLabelValues("fallback").Inc()
		return g.fallback(skillName)
	}

	set, err := g.generateFromTranscript(ctx, transcript, skillName)
	if err != nil {
		logger.Log.Warn("quiz generation failed, using fallback",
			zap.String("skill", skillName), zap.Error(err))
		monitoring.QuizGenerationTotal.WithLabelValues("fallback").Inc()
		return g.fallback(skillName)
	}

	monitoring.QuizGenerationTotal.WithLabelValues("generated").Inc()
	return set
}

type generatedPayload struct {
	Questions []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"questions"`
	Options []string `json:"options"`
}

func (g *QuizGenerator) generateFromTranscript(ctx context.Context, transcript, skillName string) (QuestionSet, error) {
	prompt := buildQuizPrompt(transcript, skillName)

	raw, err := g.ai.Chat(ctx, prompt)
	if err != nil {
		return QuestionSet{}, err
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return QuestionSet{}, fmt.Errorf("parse model response: %w", err)
	}

	return validatePayload(payload, skillName)
}

func validatePayload(payload generatedPayload, skillName string) (QuestionSet, error) {
	if len(payload.Questions) < model.QuizQuestionCount {
		return QuestionSet{}, fmt.Errorf("model returned %d questions, need %d", len(payload.Questions), model.QuizQuestionCount)
	}
	if len(payload.Options) < model.QuizOptionCount {
		return QuestionSet{}, fmt.Errorf("model returned %d options, need %d", len(payload.Options), model.QuizOptionCount)
	}

	// Oversized responses are usable: keep the first 10/12 and log it.
	if len(payload.Questions) > model.QuizQuestionCount || len(payload.Options) > model.QuizOptionCount {
		logger.Log.Warn("model returned more questions or options than requested, truncating",
			zap.String("skill", skillName),
			zap.Int("questions", len(payload.Questions)),
			zap.Int("options", len(payload.Options)))
		payload.Questions = payload.Questions[:model.QuizQuestionCount]
		payload.Options = payload.Options[:model.QuizOptionCount]
	}

	optionSet := make(map[string]bool, len(payload.Options))
	for _, o := range payload.Options {
		optionSet[o] = true
	}

	set := QuestionSet{Options: payload.Options}
	for i, q := range payload.Questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return QuestionSet{}, fmt.Errorf("question %d has empty text or answer", i+1)
		}
		if !optionSet[q.Answer] {
			return QuestionSet{}, fmt.Errorf("answer %q for question %d is not among the options", q.Answer, i+1)
		}
		set.Questions = append(set.Questions, GeneratedQuestion{
			Number: i + 1,
			Text:   q.Question,
			Answer: q.Answer,
		})
	}

	return set, nil
}

func buildQuizPrompt(transcript, skillName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are generating a knowledge check for a learner who just finished a %s session.\n\n", skillName)
	fmt.Fprintf(&b, "Session transcript:\n%s\n\n", transcript)
	fmt.Fprintf(&b, "Create exactly %d short-answer questions based on the transcript. ", model.QuizQuestionCount)
	b.WriteString("Each answer must be at most 8 words. ")
	fmt.Fprintf(&b, "Also provide 2 plausible but wrong distractor strings, so there are exactly %d option strings in total, ", model.QuizOptionCount)
	b.WriteString("and every correct answer appears verbatim in the options.\n\n")
	b.WriteString("Respond with ONLY a JSON document, no prose and no markdown, shaped as:\n")
	b.WriteString(`{"questions":[{"question":"...","answer":"..."}],"options":["..."]}`)
	return b.String()
}

// stripCodeFence removes a surrounding markdown code fence, which
// models emit even when told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// fallback synthesizes a placeholder question set that satisfies the
// same contract as the AI path, so downstream invariants hold no
// matter which path produced the quiz.
func (g *QuizGenerator) fallback(skillName string) QuestionSet {
	set := QuestionSet{}
	for i := 1; i <= model.QuizQuestionCount; i++ {
		set.Questions = append(set.Questions, GeneratedQuestion{
			Number: i,
			Text:   fmt.Sprintf("Question %d about %s", i, skillName),
			Answer: fmt.Sprintf("Answer %d", i),
		})
	}

	for i := 1; i <= model.QuizOptionCount; i++ {
		set.Options = append(set.Options, fmt.Sprintf("Answer %d", i))
	}

	g.mu.Lock()
	g.rng.Shuffle(len(set.Options), func(i, j int) {
		set.Options[i], set.Options[j] = set.Options[j], set.Options[i]
	})
	g.mu.Unlock()

	return set
}
