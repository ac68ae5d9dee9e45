package repository

import (
	"testing"

	"skillswap_backend/internal/model"
	"skillswap_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newAttempt(sessionID, learnerID uint) *model.Quiz {
	quiz := &model.Quiz{SessionID: sessionID, LearnerID: learnerID, SkillID: 1, Status: model.QuizInProgress}
	quiz.SetOptions([]string{"a", "b"})
	for i := 1; i <= model.QuizQuestionCount; i++ {
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{Number: i, Text: "q", CorrectAnswer: "a"})
	}
	return quiz
}

func gradeOut(t *testing.T, r *QuizRepository, quiz *model.Quiz) {
	t.Helper()
	score := 0
	passed := false
	quiz.Status = model.QuizGraded
	quiz.Score = &score
	quiz.Passed = &passed
	require.NoError(t, r.SaveGraded(quiz))
}

func TestCreateAttemptNumbersSequentially(t *testing.T) {
	r := NewQuizRepository(newTestDB(t))

	first := newAttempt(1, 1)
	require.NoError(t, r.CreateAttempt(first))
	require.Equal(t, 1, first.AttemptNumber)
	gradeOut(t, r, first)

	second := newAttempt(1, 1)
	require.NoError(t, r.CreateAttempt(second))
	require.Equal(t, 2, second.AttemptNumber)
}

func TestCreateAttemptRejectsWhileInProgress(t *testing.T) {
	r := NewQuizRepository(newTestDB(t))

	require.NoError(t, r.CreateAttempt(newAttempt(1, 1)))

	err := r.CreateAttempt(newAttempt(1, 1))
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCreateAttemptRejectsAfterBudget(t *testing.T) {
	r := NewQuizRepository(newTestDB(t))

	for i := 0; i < model.QuizMaxAttempts; i++ {
		quiz := newAttempt(1, 1)
		require.NoError(t, r.CreateAttempt(quiz))
		gradeOut(t, r, quiz)
	}

	err := r.CreateAttempt(newAttempt(1, 1))
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAttemptsAreScopedPerLearnerAndSession(t *testing.T) {
	r := NewQuizRepository(newTestDB(t))

	require.NoError(t, r.CreateAttempt(newAttempt(1, 1)))
	require.NoError(t, r.CreateAttempt(newAttempt(1, 2))) // other learner
	require.NoError(t, r.CreateAttempt(newAttempt(2, 1))) // other session

	count, err := r.CountAttempts(1, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestFindInProgressOrdersQuestions(t *testing.T) {
	r := NewQuizRepository(newTestDB(t))
	require.NoError(t, r.CreateAttempt(newAttempt(1, 1)))

	quiz, err := r.FindInProgress(1, 1)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, model.QuizQuestionCount)
	for i, q := range quiz.Questions {
		require.Equal(t, i+1, q.Number)
	}
}

func TestSaveGradedWritesQuestionResults(t *testing.T) {
	r := NewQuizRepository(newTestDB(t))

	quiz := newAttempt(1, 1)
	require.NoError(t, r.CreateAttempt(quiz))
	quiz.Questions[0].IsCorrect = true
	gradeOut(t, r, quiz)

	reloaded, err := r.FindByID(quiz.ID)
	require.NoError(t, err)
	require.Equal(t, model.QuizGraded, reloaded.Status)
	require.True(t, reloaded.Questions[0].IsCorrect)
	require.False(t, reloaded.Questions[1].IsCorrect)
}
