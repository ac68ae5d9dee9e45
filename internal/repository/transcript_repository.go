package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranscriptRepository struct {
	DB *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{DB: db}
}

// Upsert keeps at most one transcript per session; re-ingesting a
// recording replaces the previous text.
func (r *TranscriptRepository) Upsert(t *model.SessionTranscript) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "source", "word_count", "object_name", "updated_at"}),
	}).Create(t).Error
}

func (r *TranscriptRepository) FindBySessionID(sessionID uint) (*model.SessionTranscript, error) {
	var t model.SessionTranscript
	err := r.DB.Where("session_id = ?", sessionID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
