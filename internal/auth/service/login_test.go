package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/couchloft/pgpauth/internal/auth/domain"
	"github.com/couchloft/pgpauth/pkg/pgpx"
)

type loginEnv struct {
	login  *LoginService
	users  *UserService
	keys   *KeyStore
	client *pgpx.KeyPair
}

func newLoginEnv(t *testing.T) *loginEnv {
	t.Helper()

	st := newTestStore(t)

	server, err := pgpx.GenerateKeyPair("server", "server@localhost")
	require.NoError(t, err)
	decoy, err := pgpx.GenerateKeyPair("decoy", "decoy@localhost")
	require.NoError(t, err)
	client, err := pgpx.GenerateKeyPair("alice", "alice@example.com")
	require.NoError(t, err)

	keys := NewKeyStore(server, decoy)

	return &loginEnv{
		login:  &LoginService{Store: st, Keys: keys},
		users:  &UserService{Store: st},
		keys:   keys,
		client: client,
	}
}

// encryptEcho builds the armored blob a client submits as its password:
// the JSON echo encrypted to the server key and signed by the client key.
func (e *loginEnv) encryptEcho(t *testing.T, signer *pgpx.KeyPair, name string, at time.Time) string {
	t.Helper()

	payload, err := json.Marshal(domain.ChallengeEcho{Name: name, Time: at})
	require.NoError(t, err)

	serverEntity, err := pgpx.ReadPublicKey(e.keys.PublicKeyArmored())
	require.NoError(t, err)

	blob, err := pgpx.EncryptSigned(payload, serverEntity, signer.Entity())
	require.NoError(t, err)
	return blob
}

func TestVerify_Success(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	_, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, []string{"reader", "writer"})
	require.NoError(t, err)

	blob := env.encryptEcho(t, env.client, "alice", time.Now())

	grant, err := env.login.Verify(ctx, "alice", blob)
	require.NoError(t, err)
	require.Equal(t, "alice", grant.Name)
	require.Equal(t, []string{"reader", "writer"}, grant.Roles)
}

func TestVerify_ChallengeNearExpiry(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	_, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, nil)
	require.NoError(t, err)

	// An echo anchored slightly in the future is still inside the window
	blob := env.encryptEcho(t, env.client, "alice", time.Now().Add(10*time.Second))

	_, err = env.login.Verify(ctx, "alice", blob)
	require.NoError(t, err)
}

func TestVerify_UnknownUser(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	blob := env.encryptEcho(t, env.client, "ghost", time.Now())

	_, err := env.login.Verify(ctx, "ghost", blob)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_WrongSigningKey(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	_, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, nil)
	require.NoError(t, err)

	// Signed with a key that is not the one on record
	impostor, err := pgpx.GenerateKeyPair("impostor", "impostor@example.com")
	require.NoError(t, err)
	blob := env.encryptEcho(t, impostor, "alice", time.Now())

	_, err = env.login.Verify(ctx, "alice", blob)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_NameMismatch(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	_, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, nil)
	require.NoError(t, err)

	// Valid ciphertext and signature, but the echo names somebody else
	blob := env.encryptEcho(t, env.client, "mallory", time.Now())

	_, err = env.login.Verify(ctx, "alice", blob)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_ExpiredChallenge(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	_, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, nil)
	require.NoError(t, err)

	blob := env.encryptEcho(t, env.client, "alice", time.Now().Add(-DefaultChallengeWindow-time.Second))

	_, err = env.login.Verify(ctx, "alice", blob)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_MissingTime(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	_, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, nil)
	require.NoError(t, err)

	blob := env.encryptEcho(t, env.client, "alice", time.Time{})

	_, err = env.login.Verify(ctx, "alice", blob)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_MalformedPassword(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	_, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, nil)
	require.NoError(t, err)

	for _, password := range []string{"", "hunter2", "-----BEGIN PGP MESSAGE-----\nabc"} {
		_, err := env.login.Verify(ctx, "alice", password)
		require.ErrorIs(t, err, ErrUnauthorized)
	}
}

func TestVerify_RemovedUserCannotLogIn(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)

	u, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, nil)
	require.NoError(t, err)
	require.NoError(t, env.users.Remove(ctx, "alice", u.Rev))

	blob := env.encryptEcho(t, env.client, "alice", time.Now())

	_, err = env.login.Verify(ctx, "alice", blob)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_CustomWindow(t *testing.T) {
	ctx := context.Background()
	env := newLoginEnv(t)
	env.login.Window = time.Minute

	_, err := env.users.SignUp(ctx, "alice", env.client.PublicArmored, nil)
	require.NoError(t, err)

	// Outside the default window but inside the configured one
	blob := env.encryptEcho(t, env.client, "alice", time.Now().Add(-30*time.Second))

	_, err = env.login.Verify(ctx, "alice", blob)
	require.NoError(t, err)
}

func TestChallengeIssue(t *testing.T) {
	env := newLoginEnv(t)
	challenges := &ChallengeService{Keys: env.keys}

	before := time.Now().UTC()
	ch := challenges.Issue()
	after := time.Now().UTC()

	require.Equal(t, env.keys.KeyID(), ch.KeyID)
	require.Equal(t, env.keys.PublicKeyArmored(), ch.PublicKey)
	require.False(t, ch.IssuedAt.Before(before))
	require.False(t, ch.IssuedAt.After(after))

	// The advertised key must parse as a usable public key
	_, err := pgpx.ReadPublicKey(ch.PublicKey)
	require.NoError(t, err)
}
