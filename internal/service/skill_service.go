package service

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"

	"gorm.io/gorm"
)

type SkillService struct {
	Skills *repository.SkillRepository
}

func NewSkillService(skills *repository.SkillRepository) *SkillService {
	return &SkillService{Skills: skills}
}

type CreateSkillReq struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (s *SkillService) Create(req CreateSkillReq) (*model.Skill, error) {
	skill := &model.Skill{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.Skills.Create(skill); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrSkillExists
		}
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) List(category string) ([]model.Skill, error) {
	return s.Skills.List(category)
}

func (s *SkillService) Get(id uint) (*model.Skill, error) {
	skill, err := s.Skills.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}
	return skill, nil
}
