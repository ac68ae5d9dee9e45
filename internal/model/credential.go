package model

import (
	"time"

	"gorm.io/gorm"
)

// SkillCredential is the durable record that a learner passed the
// evaluation for a skill. QuizID is unique: registering the same quiz
// twice is a no-op. PublicID is the externally shareable identifier
// (certificate links, verification), decoupled from the row ID.
// swagger:model SkillCredential
type SkillCredential struct {
	BaseModel
	PublicID  string    `gorm:"size:36;uniqueIndex;not null" json:"publicId"`
	LearnerID uint      `gorm:"index;type:bigint unsigned;not null" json:"learnerId"`
	SkillID   uint      `gorm:"index;type:bigint unsigned;not null" json:"skillId"`
	QuizID    uint      `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"quizId"`
	Score     int       `gorm:"not null" json:"score"`
	IssuedAt  time.Time `gorm:"not null" json:"issuedAt"`

	Skill *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (SkillCredential) TableName() string {
	return "skill_credentials"
}

func (c *SkillCredential) BeforeCreate(tx *gorm.DB) error {
	if c.PublicID == "" {
		c.PublicID = GenerateUUID()
	}
	return nil
}
