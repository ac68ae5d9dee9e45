package service

import (
	"testing"

	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"

	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(repository.NewUserRepository(f.DB), nil)

	user, err := svc.Profile(f.Learner.ID)
	require.NoError(t, err)
	require.Equal(t, f.Learner.Email, user.Email)

	_, err = svc.Profile(9999)
	require.ErrorIs(t, err, util.ErrUserNotFound)
}
