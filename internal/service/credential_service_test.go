package service

import (
	"testing"
	"time"

	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"

	"github.com/stretchr/testify/require"
)

func passedQuiz(t *testing.T, f *testFixture) *model.Quiz {
	t.Helper()
	score := 8
	passed := true
	quiz := &model.Quiz{
		SessionID:     f.Session.ID,
		LearnerID:     f.Learner.ID,
		SkillID:       f.Skill.ID,
		AttemptNumber: 1,
		Status:        model.QuizGraded,
		Score:         &score,
		Passed:        &passed,
	}
	require.NoError(t, f.DB.Create(quiz).Error)
	return quiz
}

func TestRegisterFromQuiz(t *testing.T) {
	f := newFixture(t)
	svc := NewCredentialService(repository.NewCredentialRepository(f.DB))
	quiz := passedQuiz(t, f)

	require.NoError(t, svc.RegisterFromQuiz(quiz))

	creds, err := svc.ListForLearner(f.Learner.ID)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	require.Equal(t, quiz.ID, creds[0].QuizID)
	require.Equal(t, 8, creds[0].Score)
	require.False(t, creds[0].IssuedAt.IsZero())
	require.Len(t, creds[0].PublicID, 36)
}

func TestVerifyByPublicID(t *testing.T) {
	f := newFixture(t)
	svc := NewCredentialService(repository.NewCredentialRepository(f.DB))
	quiz := passedQuiz(t, f)
	require.NoError(t, svc.RegisterFromQuiz(quiz))

	creds, err := svc.ListForLearner(f.Learner.ID)
	require.NoError(t, err)
	require.Len(t, creds, 1)

	found, err := svc.Verify(creds[0].PublicID)
	require.NoError(t, err)
	require.Equal(t, creds[0].ID, found.ID)
	require.Equal(t, quiz.ID, found.QuizID)

	_, err = svc.Verify("b5a0a7d6-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, util.ErrCredentialNotFound)
}

func TestRegisterFromQuizIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := NewCredentialService(repository.NewCredentialRepository(f.DB))
	quiz := passedQuiz(t, f)

	require.NoError(t, svc.RegisterFromQuiz(quiz))
	require.NoError(t, svc.RegisterFromQuiz(quiz))
	require.NoError(t, svc.RegisterFromQuiz(quiz))

	var count int64
	require.NoError(t, f.DB.Model(&model.SkillCredential{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegisterFromQuizSurvivesDuplicateInsert(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewCredentialRepository(f.DB)
	svc := NewCredentialService(repo)
	quiz := passedQuiz(t, f)

	// Simulate a concurrent writer landing the row between this
	// service's existence check and its insert: a raw duplicate insert
	// must surface as the translated duplicate-key error and be
	// swallowed.
	require.NoError(t, svc.RegisterFromQuiz(quiz))
	err := repo.Create(&model.SkillCredential{
		LearnerID: quiz.LearnerID,
		SkillID:   quiz.SkillID,
		QuizID:    quiz.ID,
		Score:     8,
		IssuedAt:  time.Now(),
	})
	require.Error(t, err)

	require.NoError(t, svc.RegisterFromQuiz(quiz))
}

func TestListForLearnerScopedToOwner(t *testing.T) {
	f := newFixture(t)
	svc := NewCredentialService(repository.NewCredentialRepository(f.DB))
	quiz := passedQuiz(t, f)
	require.NoError(t, svc.RegisterFromQuiz(quiz))

	creds, err := svc.ListForLearner(f.Mentor.ID)
	require.NoError(t, err)
	require.Empty(t, creds)
}
