package service

import (
	"context"
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"
	"skillswap_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService coordinates the post-session evaluation workflow:
// eligibility, the two-attempt budget, question generation, partial
// answers, grading and credentialing.
type QuizService struct {
	Quizzes     *repository.QuizRepository
	Sessions    *repository.SessionRepository
	Users       *repository.UserRepository
	Generator   *QuizGenerator
	Transcripts *TranscriptService
	Credentials *CredentialService
}

func NewQuizService(
	quizzes *repository.QuizRepository,
	sessions *repository.SessionRepository,
	users *repository.UserRepository,
	generator *QuizGenerator,
	transcripts *TranscriptService,
	credentials *CredentialService,
) *QuizService {
	return &QuizService{
		Quizzes:     quizzes,
		Sessions:    sessions,
		Users:       users,
		Generator:   generator,
		Transcripts: transcripts,
		Credentials: credentials,
	}
}

// GetOrCreateQuiz resumes the learner's in-progress quiz for the
// session, or creates a new attempt when the learner attended the
// finished session and has attempts left.
func (s *QuizService) GetOrCreateQuiz(ctx context.Context, sessionID, learnerID uint) (*model.Quiz, error) {
	session, err := s.Sessions.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	if _, err := s.Users.FindByID(learnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if session.Status != model.SessionCompleted {
		return nil, util.ErrSessionNotDone
	}

	booking, err := s.Sessions.FindBooking(sessionID, learnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotAttended
		}
		return nil, err
	}
	if !booking.Attended {
		return nil, util.ErrNotAttended
	}

	// Idempotent resume.
	if quiz, err := s.Quizzes.FindInProgress(sessionID, learnerID); err == nil {
		return quiz, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attempts, err := s.Quizzes.CountAttempts(sessionID, learnerID)
	if err != nil {
		return nil, err
	}
	if attempts >= model.QuizMaxAttempts {
		return nil, util.ErrAttemptsExhausted
	}

	skillName := ""
	if session.Skill != nil {
		skillName = session.Skill.Name
	}

	set := s.Generator.Generate(ctx, s.transcriptText(ctx, session), skillName)

	quiz := &model.Quiz{
		SessionID: sessionID,
		LearnerID: learnerID,
		SkillID:   session.SkillID,
		Status:    model.QuizInProgress,
	}
	if err := quiz.SetOptions(set.Options); err != nil {
		return nil, err
	}
	for _, q := range set.Questions {
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			Number:        q.Number,
			Text:          q.Text,
			CorrectAnswer: q.Answer,
		})
	}

	if err := s.Quizzes.CreateAttempt(quiz); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent create for the same pair:
			// resume whatever attempt won, or report exhaustion.
			if quiz, err := s.Quizzes.FindInProgress(sessionID, learnerID); err == nil {
				return quiz, nil
			}
			return nil, util.ErrAttemptsExhausted
		}
		return nil, err
	}

	logger.Log.Info("quiz attempt created",
		zap.Uint("sessionId", sessionID),
		zap.Uint("learnerId", learnerID),
		zap.Int("attempt", quiz.AttemptNumber))
	return quiz, nil
}

// transcriptText prefers the processed transcript store, then the
// session's inline notes, then empty. The generator turns an empty
// transcript into its fallback question set.
func (s *QuizService) transcriptText(ctx context.Context, session *model.LearningSession) string {
	if s.Transcripts != nil {
		text, err := s.Transcripts.TextForSession(ctx, session.ID)
		if err != nil {
			logger.Log.Warn("transcript lookup failed", zap.Uint("sessionId", session.ID), zap.Error(err))
		} else if text != "" {
			return text
		}
	}
	return session.Notes
}

// SavePartialAnswer overwrites the learner's answer on one question of
// an in-progress quiz. No scoring happens here.
func (s *QuizService) SavePartialAnswer(quizID uint, questionNumber int, answer string) error {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}

	if quiz.Status != model.QuizInProgress {
		return util.ErrQuizNotActive
	}

	question, err := s.Quizzes.FindQuestion(quizID, questionNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}

	return s.Quizzes.SaveAnswer(question.ID, answer)
}

// SubmitQuiz grades an in-progress quiz with every question answered,
// persists the result and, on a pass, registers the skill credential.
// Grading commits independently of the credential trigger: a trigger
// failure is logged and counted, never rolled into the grading
// transaction.
func (s *QuizService) SubmitQuiz(ctx context.Context, quizID uint) (*model.Quiz, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if quiz.Status != model.QuizInProgress {
		return nil, util.ErrQuizNotActive
	}

	for _, q := range quiz.Questions {
		if q.UserAnswer == nil || strings.TrimSpace(*q.UserAnswer) == "" {
			return nil, util.ErrQuizIncomplete
		}
	}

	score := gradeQuestions(quiz.Questions)
	passed := isPassing(score)
	now := time.Now()

	quiz.Score = &score
	quiz.Passed = &passed
	quiz.Status = model.QuizGraded
	quiz.CompletedAt = &now

	if err := s.Quizzes.SaveGraded(quiz); err != nil {
		return nil, err
	}

	logger.Log.Info("quiz graded",
		zap.Uint("quizId", quiz.ID),
		zap.Int("score", score),
		zap.Bool("passed", passed))

	if passed {
		if err := s.Credentials.RegisterFromQuiz(quiz); err != nil {
			monitoring.CredentialTriggerFailures.Inc()
			logger.Log.Error("credential registration failed after passed quiz",
				zap.Uint("quizId", quiz.ID), zap.Error(err))
		}
	}

	return quiz, nil
}

// GetQuizWithQuestions returns one quiz and its questions in order.
func (s *QuizService) GetQuizWithQuestions(quizID uint) (*model.Quiz, error) {
	quiz, err := s.Quizzes.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// RemainingAttempts reports how many of the attempt budget are left
// for the (learner, session) pair. Pure read.
func (s *QuizService) RemainingAttempts(sessionID, learnerID uint) (int, error) {
	if _, err := s.Sessions.FindByID(sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrSessionNotFound
		}
		return 0, err
	}

	attempts, err := s.Quizzes.CountAttempts(sessionID, learnerID)
	if err != nil {
		return 0, err
	}

	remaining := model.QuizMaxAttempts - int(attempts)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
