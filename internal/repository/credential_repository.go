package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type CredentialRepository struct {
	DB *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{DB: db}
}

func (r *CredentialRepository) Create(c *model.SkillCredential) error {
	return r.DB.Create(c).Error
}

func (r *CredentialRepository) FindByPublicID(publicID string) (*model.SkillCredential, error) {
	var c model.SkillCredential
	err := r.DB.Preload("Skill").Where("public_id = ?", publicID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CredentialRepository) FindByQuizID(quizID uint) (*model.SkillCredential, error) {
	var c model.SkillCredential
	err := r.DB.Where("quiz_id = ?", quizID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CredentialRepository) ListByLearner(learnerID uint) ([]model.SkillCredential, error) {
	var creds []model.SkillCredential
	err := r.DB.Preload("Skill").Where("learner_id = ?", learnerID).
		Order("issued_at desc").Find(&creds).Error
	return creds, err
}
