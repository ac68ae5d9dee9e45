package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("number asc")
	}).First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindInProgress(sessionID, learnerID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("number asc")
	}).Where("session_id = ? AND learner_id = ? AND status = ?",
		sessionID, learnerID, model.QuizInProgress).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) CountAttempts(sessionID, learnerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).
		Where("session_id = ? AND learner_id = ?", sessionID, learnerID).
		Count(&count).Error
	return count, err
}

// CreateAttempt inserts a quiz and its questions after re-checking the
// per-(learner, session) invariants inside one transaction. The checks
// run under a row lock where the dialect supports it; the unique
// (learner, session, attempt) index backstops dialects that do not, so
// two concurrent calls can never both commit a new attempt.
func (r *QuizRepository) CreateAttempt(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		existing := tx.Model(&model.Quiz{})
		if tx.Dialector.Name() == "mysql" {
			existing = existing.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var attempts []model.Quiz
		if err := existing.
			Where("session_id = ? AND learner_id = ?", quiz.SessionID, quiz.LearnerID).
			Find(&attempts).Error; err != nil {
			return err
		}

		if len(attempts) >= model.QuizMaxAttempts {
			return gorm.ErrDuplicatedKey
		}
		for _, a := range attempts {
			if a.Status == model.QuizInProgress {
				return gorm.ErrDuplicatedKey
			}
		}

		quiz.AttemptNumber = len(attempts) + 1
		return tx.Create(quiz).Error
	})
}

func (r *QuizRepository) FindQuestion(quizID uint, number int) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	err := r.DB.Where("quiz_id = ? AND number = ?", quizID, number).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) SaveAnswer(questionID uint, answer string) error {
	return r.DB.Model(&model.QuizQuestion{}).Where("id = ?", questionID).
		Update("user_answer", answer).Error
}

// SaveGraded persists the grading result for the quiz and all of its
// questions atomically. The graded fields are written exactly once.
func (r *QuizRepository) SaveGraded(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range quiz.Questions {
			q := &quiz.Questions[i]
			if err := tx.Model(&model.QuizQuestion{}).Where("id = ?", q.ID).
				Update("is_correct", q.IsCorrect).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Updates(map[string]interface{}{
			"status":       quiz.Status,
			"score":        quiz.Score,
			"passed":       quiz.Passed,
			"completed_at": quiz.CompletedAt,
		}).Error
	})
}
