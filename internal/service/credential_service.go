package service

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CredentialService struct {
	Repo *repository.CredentialRepository
}

func NewCredentialService(repo *repository.CredentialRepository) *CredentialService {
	return &CredentialService{Repo: repo}
}

// RegisterFromQuiz converts a passed quiz into a durable skill
// credential. Idempotent per quiz: a second call for the same quiz is
// a no-op, whether the earlier credential was seen here or raced in
// through the unique quiz_id column.
func (s *CredentialService) RegisterFromQuiz(quiz *model.Quiz) error {
	if _, err := s.Repo.FindByQuizID(quiz.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	score := 0
	if quiz.Score != nil {
		score = *quiz.Score
	}

	cred := &model.SkillCredential{
		LearnerID: quiz.LearnerID,
		SkillID:   quiz.SkillID,
		QuizID:    quiz.ID,
		Score:     score,
		IssuedAt:  time.Now(),
	}

	if err := s.Repo.Create(cred); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	logger.Log.Info("skill credential issued",
		zap.Uint("learnerId", quiz.LearnerID),
		zap.Uint("skillId", quiz.SkillID),
		zap.Uint("quizId", quiz.ID))
	return nil
}

func (s *CredentialService) ListForLearner(learnerID uint) ([]model.SkillCredential, error) {
	return s.Repo.ListByLearner(learnerID)
}

// Verify resolves a credential by its shareable public ID, e.g. from a
// certificate link.
func (s *CredentialService) Verify(publicID string) (*model.SkillCredential, error) {
	cred, err := s.Repo.FindByPublicID(publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCredentialNotFound
		}
		return nil, err
	}
	return cred, nil
}
