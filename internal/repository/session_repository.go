package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.LearningSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.LearningSession, error) {
	var session model.LearningSession
	err := r.DB.Preload("Skill").Preload("Mentor").First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Update(session *model.LearningSession) error {
	return r.DB.Save(session).Error
}

func (r *SessionRepository) List(page, limit int, status model.SessionStatus) ([]model.LearningSession, int64, error) {
	var total int64
	query := r.DB.Model(&model.LearningSession{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.LearningSession
	offset := (page - 1) * limit
	err := query.Preload("Skill").Order("scheduled_at desc").
		Offset(offset).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

func (r *SessionRepository) CreateBooking(booking *model.Booking) error {
	return r.DB.Create(booking).Error
}

func (r *SessionRepository) FindBooking(sessionID, learnerID uint) (*model.Booking, error) {
	var booking model.Booking
	err := r.DB.Where("session_id = ? AND learner_id = ?", sessionID, learnerID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *SessionRepository) ListBookings(sessionID uint) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.DB.Where("session_id = ?", sessionID).Find(&bookings).Error
	return bookings, err
}

func (r *SessionRepository) UpdateBooking(booking *model.Booking) error {
	return r.DB.Save(booking).Error
}
