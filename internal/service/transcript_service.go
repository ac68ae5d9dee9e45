package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const transcriptCacheTTL = time.Hour

// TranscriptService manages processed session transcripts: ingestion
// from recordings and lookup for quiz generation.
type TranscriptService struct {
	Repo    *repository.TranscriptRepository
	AI      *AIService
	Storage StorageProvider
	Redis   *redis.Client
}

func NewTranscriptService(repo *repository.TranscriptRepository, ai *AIService, storage StorageProvider, rdb *redis.Client) *TranscriptService {
	return &TranscriptService{Repo: repo, AI: ai, Storage: storage, Redis: rdb}
}

func transcriptCacheKey(sessionID uint) string {
	return fmt.Sprintf("transcript:session:%d", sessionID)
}

// TextForSession returns the processed transcript for a session, or ""
// when none exists. Absence is not an error; callers treat it as a
// fallback trigger.
func (s *TranscriptService) TextForSession(ctx context.Context, sessionID uint) (string, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, transcriptCacheKey(sessionID)).Result(); err == nil {
			return cached, nil
		}
	}

	t, err := s.Repo.FindBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	if s.Redis != nil && t.Text != "" {
		if err := s.Redis.Set(ctx, transcriptCacheKey(sessionID), t.Text, transcriptCacheTTL).Err(); err != nil {
			logger.Log.Warn("transcript cache write failed", zap.Uint("sessionId", sessionID), zap.Error(err))
		}
	}

	return t.Text, nil
}

// Get returns the stored transcript record for a session.
func (s *TranscriptService) Get(sessionID uint) (*model.SessionTranscript, error) {
	t, err := s.Repo.FindBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTranscriptMissing
		}
		return nil, err
	}
	return t, nil
}

// SaveManual stores transcript text supplied directly (e.g. pasted by
// the mentor) without going through the recording pipeline.
func (s *TranscriptService) SaveManual(ctx context.Context, sessionID uint, text string) (*model.SessionTranscript, error) {
	t := &model.SessionTranscript{
		SessionID: sessionID,
		Text:      text,
		Source:    model.TranscriptManual,
		WordCount: len(strings.Fields(text)),
	}
	if err := s.Repo.Upsert(t); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, sessionID)
	return t, nil
}

// IngestRecording extracts the audio track from a session recording,
// transcribes it, and stores the text alongside an object-storage copy.
func (s *TranscriptService) IngestRecording(ctx context.Context, sessionID uint, recordingPath string) (*model.SessionTranscript, error) {
	if _, err := os.Stat(recordingPath); err != nil {
		return nil, fmt.Errorf("recording not readable: %w", err)
	}

	audioPath, err := extractAudio(recordingPath)
	if err != nil {
		return nil, fmt.Errorf("audio extraction: %w", err)
	}
	defer os.Remove(audioPath)

	text, err := s.AI.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}

	objectName := ""
	if s.Storage != nil {
		objectName = fmt.Sprintf("transcripts/session-%d.txt", sessionID)
		reader := strings.NewReader(text)
		if _, err := s.Storage.Upload(ctx, objectName, reader, int64(len(text)), "text/plain; charset=utf-8"); err != nil {
			logger.Log.Warn("transcript object upload failed", zap.Uint("sessionId", sessionID), zap.Error(err))
			objectName = ""
		}
	}

	t := &model.SessionTranscript{
		SessionID:  sessionID,
		Text:       text,
		Source:     model.TranscriptFromRecording,
		WordCount:  len(strings.Fields(text)),
		ObjectName: objectName,
	}
	if err := s.Repo.Upsert(t); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, sessionID)

	logger.Log.Info("session transcript ingested",
		zap.Uint("sessionId", sessionID),
		zap.Int("wordCount", t.WordCount))
	return t, nil
}

func (s *TranscriptService) invalidateCache(ctx context.Context, sessionID uint) {
	if s.Redis != nil {
		s.Redis.Del(ctx, transcriptCacheKey(sessionID))
	}
}

// extractAudio pulls a 16 kHz mono WAV out of the recording, the
// format the transcription endpoint handles best.
func extractAudio(recordingPath string) (string, error) {
	audioPath := filepath.Join(os.TempDir(),
		strings.TrimSuffix(filepath.Base(recordingPath), filepath.Ext(recordingPath))+".wav")

	err := ffmpeg.Input(recordingPath).
		Output(audioPath, ffmpeg.KwArgs{
			"vn":  "",
			"ac":  1,
			"ar":  16000,
			"f":   "wav",
			"y":   "",
			"map": "0:a",
		}).
		Silent(true).
		Run()
	if err != nil {
		return "", err
	}

	return audioPath, nil
}
