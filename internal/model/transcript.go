package model

type TranscriptSource string

const (
	TranscriptFromRecording TranscriptSource = "recording"
	TranscriptFromNotes     TranscriptSource = "notes"
	TranscriptManual        TranscriptSource = "manual"
)

// SessionTranscript holds the processed text of a session's spoken
// content. At most one row per session; absence only means quiz
// generation falls back to the session notes.
// swagger:model SessionTranscript
type SessionTranscript struct {
	BaseModel
	SessionID  uint             `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"sessionId"`
	Text       string           `gorm:"type:longtext" json:"text"`
	Source     TranscriptSource `gorm:"type:varchar(20);default:'recording'" json:"source"`
	WordCount  int              `gorm:"default:0" json:"wordCount"`
	ObjectName string           `gorm:"size:255" json:"objectName"` // copy in object storage, empty if none
}

func (SessionTranscript) TableName() string {
	return "session_transcripts"
}
