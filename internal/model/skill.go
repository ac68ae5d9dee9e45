package model

// swagger:model Skill
type Skill struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	Category    string `gorm:"size:50;index" json:"category"`
	Description string `gorm:"type:text" json:"description"`
}

func (Skill) TableName() string {
	return "skills"
}
