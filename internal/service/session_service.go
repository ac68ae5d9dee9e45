package service

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type SessionService struct {
	Sessions *repository.SessionRepository
	Skills   *repository.SkillRepository
}

func NewSessionService(sessions *repository.SessionRepository, skills *repository.SkillRepository) *SessionService {
	return &SessionService{Sessions: sessions, Skills: skills}
}

type CreateSessionReq struct {
	SkillID     uint      `json:"skillId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	Duration    int       `json:"duration"`
	MeetingURL  string    `json:"meetingUrl"`
}

func (s *SessionService) Create(mentorID uint, req CreateSessionReq) (*model.LearningSession, error) {
	if _, err := s.Skills.FindByID(req.SkillID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}

	session := &model.LearningSession{
		MentorID:    mentorID,
		SkillID:     req.SkillID,
		Title:       req.Title,
		ScheduledAt: req.ScheduledAt,
		Duration:    req.Duration,
		MeetingURL:  req.MeetingURL,
		Status:      model.SessionScheduled,
	}
	if session.Duration <= 0 {
		session.Duration = 60
	}

	if err := s.Sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Get(id uint) (*model.LearningSession, error) {
	session, err := s.Sessions.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) List(page, limit int, status model.SessionStatus) ([]model.LearningSession, int64, error) {
	return s.Sessions.List(page, limit, status)
}

// Book confirms a learner onto a session before it runs.
func (s *SessionService) Book(sessionID, learnerID uint) (*model.Booking, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionScheduled {
		return nil, util.ErrSessionNotDone
	}

	if _, err := s.Sessions.FindBooking(sessionID, learnerID); err == nil {
		return nil, util.ErrAlreadyBooked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	booking := &model.Booking{
		SessionID: sessionID,
		LearnerID: learnerID,
		Status:    model.BookingConfirmed,
	}
	if err := s.Sessions.CreateBooking(booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyBooked
		}
		return nil, err
	}
	return booking, nil
}

// MarkAttendance is the mentor's attendance roll call; only attended
// learners become eligible for the post-session quiz.
func (s *SessionService) MarkAttendance(sessionID, mentorID, learnerID uint, attended bool) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if session.MentorID != mentorID {
		return util.ErrPermissionDenied
	}

	booking, err := s.Sessions.FindBooking(sessionID, learnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrBookingNotFound
		}
		return err
	}

	booking.Attended = attended
	return s.Sessions.UpdateBooking(booking)
}

// Complete closes out a finished session; quizzes only open for
// completed sessions.
func (s *SessionService) Complete(sessionID, mentorID uint, notes string) (*model.LearningSession, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.MentorID != mentorID {
		return nil, util.ErrPermissionDenied
	}

	session.Status = model.SessionCompleted
	if notes != "" {
		session.Notes = notes
	}
	if err := s.Sessions.Update(session); err != nil {
		return nil, err
	}
	return session, nil
}
