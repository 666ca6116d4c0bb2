package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub-api/models"
	"reviewhub-api/repositories"
)

func newAuthFixture(t *testing.T) (AuthService, repositories.UserRepository, *fakeNotifier, TokenService) {
	t.Helper()

	db := newTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	n := &fakeNotifier{}

	return NewAuthService(userRepo, tokens, n), userRepo, n, tokens
}

func TestSignupCreatesUserAndMailsCode(t *testing.T) {
	auth, userRepo, n, tokens := newAuthFixture(t)

	resp, err := auth.Signup(models.SignupRequest{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "reader", resp.Username)
	assert.Equal(t, "reader@example.com", resp.Email)

	user, err := userRepo.GetByUsername("reader")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	require.Len(t, n.sent, 1)
	assert.Equal(t, []string{"reader@example.com"}, n.sent[0].To)

	// The mailed code resolves back to the created identity.
	code := strings.TrimPrefix(n.sent[0].Body, "Your confirmation code: ")
	userID, err := tokens.Resolve(code)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestSignupReservedUsername(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	for _, email := range []string{"me@example.com", "other@example.com"} {
		_, err := auth.Signup(models.SignupRequest{Username: "me", Email: email})
		assert.ErrorIs(t, err, models.ErrReservedUsername)
	}
}

func TestSignupInvalidUsername(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	_, err := auth.Signup(models.SignupRequest{Username: "bad name!", Email: "x@example.com"})
	assert.ErrorIs(t, err, models.ErrInvalidUsername)
}

func TestSignupIsIdempotentForSameIdentity(t *testing.T) {
	auth, _, n, _ := newAuthFixture(t)

	req := models.SignupRequest{Username: "reader", Email: "reader@example.com"}
	_, err := auth.Signup(req)
	require.NoError(t, err)

	// Same pair again just reissues a code.
	_, err = auth.Signup(req)
	require.NoError(t, err)
	assert.Len(t, n.sent, 2)
}

func TestSignupConflicts(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	_, err := auth.Signup(models.SignupRequest{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	// Same username, different email.
	_, err = auth.Signup(models.SignupRequest{Username: "reader", Email: "other@example.com"})
	assert.ErrorIs(t, err, models.ErrConflict)

	// Same email, different username.
	_, err = auth.Signup(models.SignupRequest{Username: "other", Email: "reader@example.com"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestSignupSurvivesDeliveryFailure(t *testing.T) {
	auth, userRepo, n, _ := newAuthFixture(t)
	n.err = models.ErrDeliveryFailed

	_, err := auth.Signup(models.SignupRequest{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = userRepo.GetByUsername("reader")
	assert.NoError(t, err)
}

func TestGetTokenFlow(t *testing.T) {
	auth, userRepo, _, tokens := newAuthFixture(t)

	_, err := auth.Signup(models.SignupRequest{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	user, err := userRepo.GetByUsername("reader")
	require.NoError(t, err)

	code, err := tokens.Issue(user)
	require.NoError(t, err)

	resp, err := auth.GetToken(models.TokenRequest{Username: "reader", ConfirmationCode: code})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	userID, err := tokens.Resolve(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestGetTokenUnknownUser(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	_, err := auth.GetToken(models.TokenRequest{Username: "ghost", ConfirmationCode: "whatever"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetTokenInvalidCode(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	_, err := auth.Signup(models.SignupRequest{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = auth.GetToken(models.TokenRequest{Username: "reader", ConfirmationCode: "garbage"})
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestGetTokenIdentityMismatch(t *testing.T) {
	auth, userRepo, _, tokens := newAuthFixture(t)

	_, err := auth.Signup(models.SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = auth.Signup(models.SignupRequest{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	bob, err := userRepo.GetByUsername("bob")
	require.NoError(t, err)

	bobCode, err := tokens.Issue(bob)
	require.NoError(t, err)

	_, err = auth.GetToken(models.TokenRequest{Username: "alice", ConfirmationCode: bobCode})
	assert.ErrorIs(t, err, models.ErrIdentityMismatch)
}
