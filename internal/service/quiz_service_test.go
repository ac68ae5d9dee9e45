package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skillswap_backend/internal/model"
	"skillswap_backend/internal/util"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateQuizEligibility(t *testing.T) {
	t.Run("session not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.quizService().GetOrCreateQuiz(context.Background(), 9999, f.Learner.ID)
		require.ErrorIs(t, err, util.ErrSessionNotFound)
	})

	t.Run("learner not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.quizService().GetOrCreateQuiz(context.Background(), f.Session.ID, 9999)
		require.ErrorIs(t, err, util.ErrUserNotFound)
	})

	t.Run("session not completed", func(t *testing.T) {
		f := newFixture(t)
		f.Session.Status = model.SessionScheduled
		require.NoError(t, f.DB.Save(f.Session).Error)

		_, err := f.quizService().GetOrCreateQuiz(context.Background(), f.Session.ID, f.Learner.ID)
		require.ErrorIs(t, err, util.ErrSessionNotDone)
	})

	t.Run("no booking", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.quizService().GetOrCreateQuiz(context.Background(), f.Session.ID, f.Mentor.ID)
		require.ErrorIs(t, err, util.ErrNotAttended)
	})

	t.Run("booked but absent", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.DB.Model(&model.Booking{}).
			Where("session_id = ? AND learner_id = ?", f.Session.ID, f.Learner.ID).
			Update("attended", false).Error)

		_, err := f.quizService().GetOrCreateQuiz(context.Background(), f.Session.ID, f.Learner.ID)
		require.ErrorIs(t, err, util.ErrNotAttended)
	})
}

func TestGetOrCreateQuizCreatesFirstAttempt(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()

	quiz, err := svc.GetOrCreateQuiz(context.Background(), f.Session.ID, f.Learner.ID)
	require.NoError(t, err)

	require.Equal(t, model.QuizInProgress, quiz.Status)
	require.Equal(t, 1, quiz.AttemptNumber)
	require.Equal(t, f.Skill.ID, quiz.SkillID)
	require.Len(t, quiz.Questions, model.QuizQuestionCount)
	require.Len(t, quiz.OptionList(), model.QuizOptionCount)

	options := map[string]bool{}
	for _, o := range quiz.OptionList() {
		options[o] = true
	}
	for _, q := range quiz.Questions {
		require.True(t, options[q.CorrectAnswer], "answer %q missing from options", q.CorrectAnswer)
	}
}

func TestGetOrCreateQuizResumesInProgress(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()

	first, err := svc.GetOrCreateQuiz(context.Background(), f.Session.ID, f.Learner.ID)
	require.NoError(t, err)
	second, err := svc.GetOrCreateQuiz(context.Background(), f.Session.ID, f.Learner.ID)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.DB.Model(&model.Quiz{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAttemptBudget(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()
	ctx := context.Background()

	remaining, err := svc.RemainingAttempts(f.Session.ID, f.Learner.ID)
	require.NoError(t, err)
	require.Equal(t, 2, remaining)

	first, err := svc.GetOrCreateQuiz(ctx, f.Session.ID, f.Learner.ID)
	require.NoError(t, err)
	failQuiz(t, svc, first)

	remaining, err = svc.RemainingAttempts(f.Session.ID, f.Learner.ID)
	require.NoError(t, err)
	require.Equal(t, 1, remaining)

	second, err := svc.GetOrCreateQuiz(ctx, f.Session.ID, f.Learner.ID)
	require.NoError(t, err)
	require.Equal(t, 2, second.AttemptNumber)
	failQuiz(t, svc, second)

	remaining, err = svc.RemainingAttempts(f.Session.ID, f.Learner.ID)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)

	_, err = svc.GetOrCreateQuiz(ctx, f.Session.ID, f.Learner.ID)
	require.ErrorIs(t, err, util.ErrAttemptsExhausted)
}

func TestRemainingAttemptsUnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.quizService().RemainingAttempts(9999, f.Learner.ID)
	require.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSavePartialAnswer(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()
	ctx := context.Background()

	quiz, err := svc.GetOrCreateQuiz(ctx, f.Session.ID, f.Learner.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SavePartialAnswer(quiz.ID, 3, "first answer"))
	require.NoError(t, svc.SavePartialAnswer(quiz.ID, 3, "revised answer"))

	reloaded, err := svc.GetQuizWithQuestions(quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Questions[2].UserAnswer)
	require.Equal(t, "revised answer", *reloaded.Questions[2].UserAnswer)

	require.ErrorIs(t, svc.SavePartialAnswer(quiz.ID, 11, "x"), util.ErrQuestionNotFound)
	require.ErrorIs(t, svc.SavePartialAnswer(9999, 1, "x"), util.ErrQuizNotFound)
}

func TestSubmitQuizRequiresAllAnswers(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()
	ctx := context.Background()

	quiz, err := svc.GetOrCreateQuiz(ctx, f.Session.ID, f.Learner.ID)
	require.NoError(t, err)

	// Nothing answered yet.
	_, err = svc.SubmitQuiz(ctx, quiz.ID)
	require.ErrorIs(t, err, util.ErrQuizIncomplete)

	// All but one answered; the last one is whitespace.
	for _, q := range quiz.Questions[:model.QuizQuestionCount-1] {
		require.NoError(t, svc.SavePartialAnswer(quiz.ID, q.Number, q.CorrectAnswer))
	}
	require.NoError(t, svc.SavePartialAnswer(quiz.ID, model.QuizQuestionCount, "   "))

	_, err = svc.SubmitQuiz(ctx, quiz.ID)
	require.ErrorIs(t, err, util.ErrQuizIncomplete)

	// Still in progress and retryable.
	reloaded, err := svc.GetQuizWithQuestions(quiz.ID)
	require.NoError(t, err)
	require.Equal(t, model.QuizInProgress, reloaded.Status)
}

func TestSubmitQuizPassIssuesCredential(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()
	ctx := context.Background()

	quiz, err := svc.GetOrCreateQuiz(ctx, f.Session.ID, f.Learner.ID)
	require.NoError(t, err)

	// 7 correct (one via case and whitespace variation), 3 wrong.
	answerQuestions(t, svc, quiz, 7)

	graded, err := svc.SubmitQuiz(ctx, quiz.ID)
	require.NoError(t, err)

	require.Equal(t, model.QuizGraded, graded.Status)
	require.NotNil(t, graded.Score)
	require.Equal(t, 7, *graded.Score)
	require.NotNil(t, graded.Passed)
	require.True(t, *graded.Passed)
	require.NotNil(t, graded.CompletedAt)

	var creds []model.SkillCredential
	require.NoError(t, f.DB.Find(&creds).Error)
	require.Len(t, creds, 1)
	require.Equal(t, f.Learner.ID, creds[0].LearnerID)
	require.Equal(t, f.Skill.ID, creds[0].SkillID)
	require.Equal(t, quiz.ID, creds[0].QuizID)
	require.Equal(t, 7, creds[0].Score)
}

func TestSubmitQuizFailNoCredential(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()
	ctx := context.Background()

	quiz, err := svc.GetOrCreateQuiz(ctx, f.Session.ID, f.Learner.ID)
	require.NoError(t, err)

	answerQuestions(t, svc, quiz, 6)

	graded, err := svc.SubmitQuiz(ctx, quiz.ID)
	require.NoError(t, err)

	require.Equal(t, 6, *graded.Score)
	require.False(t, *graded.Passed)

	var count int64
	require.NoError(t, f.DB.Model(&model.SkillCredential{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestGradedQuizIsImmutable(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()
	ctx := context.Background()

	quiz, err := svc.GetOrCreateQuiz(ctx, f.Session.ID, f.Learner.ID)
	require.NoError(t, err)
	answerQuestions(t, svc, quiz, 10)
	graded, err := svc.SubmitQuiz(ctx, quiz.ID)
	require.NoError(t, err)

	before, err := svc.GetQuizWithQuestions(quiz.ID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.SavePartialAnswer(quiz.ID, 1, "late edit"), util.ErrQuizNotActive)

	_, err = svc.SubmitQuiz(ctx, quiz.ID)
	require.ErrorIs(t, err, util.ErrQuizNotActive)

	// Rejected mutations must leave the stored record untouched.
	after, err := svc.GetQuizWithQuestions(quiz.ID)
	require.NoError(t, err)
	require.Equal(t, model.QuizGraded, after.Status)
	require.Equal(t, *graded.Score, *after.Score)
	require.True(t, *after.Passed)
	require.NotNil(t, after.CompletedAt)
	require.Equal(t, *before.Questions[0].UserAnswer, *after.Questions[0].UserAnswer)
	require.NotEqual(t, "late edit", *after.Questions[0].UserAnswer)
}

func TestQuizCreatedWhenGeneratorUpstreamIsDown(t *testing.T) {
	f := newFixture(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused
	svc := f.quizServiceWith(generatorFor(srv.URL))

	quiz, err := svc.GetOrCreateQuiz(context.Background(), f.Session.ID, f.Learner.ID)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, model.QuizQuestionCount)
	require.Len(t, quiz.OptionList(), model.QuizOptionCount)
}

func TestTranscriptPreferredOverNotes(t *testing.T) {
	f := newFixture(t)
	svc := f.quizService()
	ctx := context.Background()

	text, err := svc.Transcripts.TextForSession(ctx, f.Session.ID)
	require.NoError(t, err)
	require.Empty(t, text) // no transcript yet, callers fall back to notes

	_, err = svc.Transcripts.SaveManual(ctx, f.Session.ID, "Processed transcript of the whole session.")
	require.NoError(t, err)

	text, err = svc.Transcripts.TextForSession(ctx, f.Session.ID)
	require.NoError(t, err)
	require.Equal(t, "Processed transcript of the whole session.", text)
}

// answerQuestions fills in every question, the first `correct` of them
// with the right answer and the rest wrong. One correct answer goes in
// upper-cased and padded to cover normalization end to end.
func answerQuestions(t *testing.T, svc *QuizService, quiz *model.Quiz, correct int) {
	t.Helper()
	for i, q := range quiz.Questions {
		answer := "definitely wrong"
		if i < correct {
			answer = q.CorrectAnswer
			if i == 0 {
				answer = "  " + strings.ToUpper(q.CorrectAnswer) + " "
			}
		}
		require.NoError(t, svc.SavePartialAnswer(quiz.ID, q.Number, answer))
	}
}

// failQuiz answers everything wrong and submits, consuming one attempt.
func failQuiz(t *testing.T, svc *QuizService, quiz *model.Quiz) {
	t.Helper()
	answerQuestions(t, svc, quiz, 0)
	graded, err := svc.SubmitQuiz(context.Background(), quiz.ID)
	require.NoError(t, err)
	require.False(t, *graded.Passed)
}
