package service

import (
	"testing"
	"time"

	"github.com/bookbuddy/api/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	t.Run("registers an inactive account", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)

		user, err := s.RegisterUser("Pat Reader", "pat@example.com", "pa55word1234")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.False(t, user.Activated)
		s.wg.Wait()
	})

	t.Run("duplicate email fails validation", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)

		_, err := s.RegisterUser("Pat Reader", "pat@example.com", "pa55word1234")
		require.NoError(t, err)
		s.wg.Wait()

		_, err = s.RegisterUser("Other Reader", "pat@example.com", "pa55word1234")
		assert.ErrorIs(t, err, ErrFailedValidation)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)

		_, err := s.RegisterUser("Pat Reader", "pat@example.com", "short")
		assert.ErrorIs(t, err, ErrFailedValidation)
	})
}

func TestActivateUser(t *testing.T) {
	t.Run("redeems an activation token", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)
		user, err := s.RegisterUser("Pat Reader", "pat@example.com", "pa55word1234")
		require.NoError(t, err)
		s.wg.Wait()

		token, err := repo.CreateNewToken(user.ID, time.Hour, data.ScopeActivation)
		require.NoError(t, err)

		activated, err := s.ActivateUser(token.Plaintext)
		require.NoError(t, err)
		assert.True(t, activated.Activated)

		// All activation tokens are consumed by the activation.
		_, err = s.ActivateUser(token.Plaintext)
		assert.ErrorIs(t, err, ErrFailedValidation)
	})

	t.Run("unknown token fails validation", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)

		_, err := s.ActivateUser("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
		assert.ErrorIs(t, err, ErrFailedValidation)
	})
}

func TestCreateAuthenticationToken(t *testing.T) {
	t.Run("issues a token for valid credentials", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)
		_, err := s.RegisterUser("Pat Reader", "pat@example.com", "pa55word1234")
		require.NoError(t, err)
		s.wg.Wait()

		token, err := s.CreateAuthenticationToken("pat@example.com", "pa55word1234")
		require.NoError(t, err)
		assert.NotEmpty(t, token.Plaintext)

		user, err := s.GetUserForToken(data.ScopeAuthentication, token.Plaintext)
		require.NoError(t, err)
		assert.Equal(t, "pat@example.com", user.Email)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)
		_, err := s.RegisterUser("Pat Reader", "pat@example.com", "pa55word1234")
		require.NoError(t, err)
		s.wg.Wait()

		_, err = s.CreateAuthenticationToken("pat@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)

		_, err := s.CreateAuthenticationToken("nobody@example.com", "pa55word1234")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestDeleteAuthenticationTokens(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user, err := s.RegisterUser("Pat Reader", "pat@example.com", "pa55word1234")
	require.NoError(t, err)
	s.wg.Wait()

	token, err := s.CreateAuthenticationToken("pat@example.com", "pa55word1234")
	require.NoError(t, err)

	require.NoError(t, s.DeleteAuthenticationTokens(user.ID))

	_, err = s.GetUserForToken(data.ScopeAuthentication, token.Plaintext)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
