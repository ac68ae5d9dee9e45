package model

import "time"

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// LearningSession is one scheduled teaching session between a mentor
// and the learners booked onto it, bound to a single skill.
// swagger:model LearningSession
type LearningSession struct {
	BaseModel
	MentorID    uint          `gorm:"index;type:bigint unsigned;not null" json:"mentorId"`
	SkillID     uint          `gorm:"index;type:bigint unsigned;not null" json:"skillId"`
	Title       string        `gorm:"size:255;not null" json:"title"`
	ScheduledAt time.Time     `gorm:"not null" json:"scheduledAt"`
	Duration    int           `gorm:"default:60" json:"duration"` // Minutes
	Status      SessionStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	MeetingURL  string        `gorm:"size:255" json:"meetingUrl"`
	Notes       string        `gorm:"type:text" json:"notes"` // mentor notes, fallback transcript source

	Mentor *User  `gorm:"foreignKey:MentorID" json:"mentor,omitempty"`
	Skill  *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (LearningSession) TableName() string {
	return "learning_sessions"
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// swagger:model Booking
type Booking struct {
	BaseModel
	SessionID uint          `gorm:"uniqueIndex:idx_booking_session_learner;type:bigint unsigned;not null" json:"sessionId"`
	LearnerID uint          `gorm:"uniqueIndex:idx_booking_session_learner;type:bigint unsigned;not null" json:"learnerId"`
	Status    BookingStatus `gorm:"type:varchar(20);default:'confirmed'" json:"status"`
	Attended  bool          `gorm:"default:false" json:"attended"`
}

func (Booking) TableName() string {
	return "bookings"
}
