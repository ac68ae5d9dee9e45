package model

import (
	"encoding/json"
	"time"
)

type QuizStatus string

const (
	QuizInProgress QuizStatus = "in_progress"
	// QuizSubmitted exists in the status domain but no current flow
	// assigns it: grading happens synchronously inside submission, so
	// quizzes jump straight from in_progress to graded. Kept so an
	// async-grading flow can use it without a migration.
	QuizSubmitted QuizStatus = "submitted"
	QuizGraded    QuizStatus = "graded"
)

const (
	QuizQuestionCount = 10
	QuizOptionCount   = 12
	QuizMaxAttempts   = 2
	QuizPassPercent   = 70
)

// Quiz is one evaluation attempt by a learner for a finished session.
// It is a permanent audit record: never deleted, never re-opened once
// graded.
// swagger:model Quiz
type Quiz struct {
	BaseModel
	SessionID     uint       `gorm:"uniqueIndex:idx_quiz_learner_session_attempt;type:bigint unsigned;not null" json:"sessionId"`
	LearnerID     uint       `gorm:"uniqueIndex:idx_quiz_learner_session_attempt;type:bigint unsigned;not null" json:"learnerId"`
	SkillID       uint       `gorm:"index;type:bigint unsigned;not null" json:"skillId"`
	AttemptNumber int        `gorm:"uniqueIndex:idx_quiz_learner_session_attempt;not null" json:"attemptNumber"`
	Status        QuizStatus `gorm:"type:varchar(20);default:'in_progress'" json:"status"`
	// Options is the serialized snapshot of the 12 candidate answers
	// offered for this attempt.
	Options     json.RawMessage `gorm:"type:json" json:"options"`
	Score       *int            `json:"score,omitempty"`
	Passed      *bool           `json:"passed,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (q *Quiz) OptionList() []string {
	var opts []string
	if len(q.Options) > 0 {
		_ = json.Unmarshal(q.Options, &opts)
	}
	return opts
}

func (q *Quiz) SetOptions(opts []string) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = raw
	return nil
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID        uint    `gorm:"uniqueIndex:idx_question_quiz_number;type:bigint unsigned;not null" json:"quizId"`
	Number        int     `gorm:"uniqueIndex:idx_question_quiz_number;not null" json:"number"` // 1..10
	Text          string  `gorm:"type:text;not null" json:"text"`
	CorrectAnswer string  `gorm:"size:255;not null" json:"-"`
	UserAnswer    *string `gorm:"size:255" json:"userAnswer,omitempty"`
	IsCorrect     bool    `gorm:"default:false" json:"isCorrect"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
