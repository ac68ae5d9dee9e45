package service

import (
	"skillswap_backend/internal/model"
	"strings"
)

// answerMatches compares a learner's answer to the expected one,
// ignoring case and surrounding whitespace.
func answerMatches(userAnswer, correctAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
}

// gradeQuestions marks IsCorrect on every question and returns the
// number answered correctly. Pure computation, no persistence.
func gradeQuestions(questions []model.QuizQuestion) int {
	score := 0
	for i := range questions {
		q := &questions[i]
		q.IsCorrect = q.UserAnswer != nil && answerMatches(*q.UserAnswer, q.CorrectAnswer)
		if q.IsCorrect {
			score++
		}
	}
	return score
}

// isPassing applies the percentage threshold: 7 of 10 passes.
func isPassing(score int) bool {
	return score*100 >= model.QuizPassPercent*model.QuizQuestionCount
}
