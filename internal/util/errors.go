package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionNotDone     = errors.New("session is not completed yet")
	ErrSkillNotFound      = errors.New("skill not found")
	ErrSkillExists        = errors.New("skill already exists")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrAlreadyBooked      = errors.New("session already booked")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNotAttended        = errors.New("learner did not attend this session")
	ErrAttemptsExhausted  = errors.New("no quiz attempts remaining for this session")
	ErrQuizNotActive      = errors.New("quiz is no longer in progress")
	ErrQuizIncomplete     = errors.New("all questions must be answered before submitting")
	ErrTranscriptMissing  = errors.New("transcript not found")
)
