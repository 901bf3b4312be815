package auth_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/couchloft/pgpauth/pkg/authsdk"
	"github.com/couchloft/pgpauth/pkg/pgpx"
)

// TestLoginFlow walks the whole lifecycle: signup, challenge fetch, login,
// session inspection, logout, and re-login.
func TestLoginFlow(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := authsdk.NewClient(baseURL)

	kp, _ := signUpUser(t, client, "alice", []string{"reader"})

	// Before login the caller is anonymous
	sess, err := client.Session(ctx)
	require.NoError(t, err)
	assertAnonymous(t, sess)

	logIn(t, client, kp, "alice")

	// The cookie session should now carry the stored identity
	sess, err = client.Session(ctx)
	require.NoError(t, err)
	require.True(t, sess.OK)
	require.NotNil(t, sess.UserCtx.Name)
	require.Equal(t, "alice", *sess.UserCtx.Name)
	require.Equal(t, []string{"reader"}, sess.UserCtx.Roles)
	require.Equal(t, "cookie", sess.Info.Authenticated)
	require.Equal(t, "_users", sess.Info.AuthenticationDB)
	require.Contains(t, sess.Info.AuthenticationHandlers, "cookie")

	// Logout drops the identity entirely
	out, err := client.LogOut(ctx)
	require.NoError(t, err)
	require.True(t, out.OK)

	sess, err = client.Session(ctx)
	require.NoError(t, err)
	assertAnonymous(t, sess)

	// A fresh challenge exchange logs back in
	logIn(t, client, kp, "alice")
}

// TestLogoutInvalidatesToken replays the pre-logout cookie after logout and
// expects it to be dead: the server-side session row is gone.
func TestLogoutInvalidatesToken(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := authsdk.NewClient(baseURL)

	kp, _ := signUpUser(t, client, "alice", nil)
	logIn(t, client, kp, "alice")

	base, err := url.Parse(baseURL)
	require.NoError(t, err)

	cookies := client.HTTPClient.Jar.Cookies(base)
	require.NotEmpty(t, cookies, "login should have set a session cookie")

	_, err = client.LogOut(ctx)
	require.NoError(t, err)

	// Restore the stolen cookie and probe the session
	client.HTTPClient.Jar.SetCookies(base, cookies)

	sess, err := client.Session(ctx)
	require.NoError(t, err)
	assertAnonymous(t, sess)
}

func TestLogin_UniformFailures(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := authsdk.NewClient(baseURL)

	kp, _ := signUpUser(t, client, "alice", nil)

	keyResp, err := client.ServerKey(ctx)
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		password := encryptEcho(t, kp, keyResp.PK, challengeEcho{Name: "ghost", Time: time.Now()})
		_, err := client.LogIn(ctx, "ghost", password)
		assertUnauthorized(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		impostor, err := pgpx.GenerateKeyPair("impostor", "impostor@example.com")
		require.NoError(t, err)

		password := encryptEcho(t, impostor, keyResp.PK, challengeEcho{Name: "alice", Time: time.Now()})
		_, err = client.LogIn(ctx, "alice", password)
		assertUnauthorized(t, err)
	})

	t.Run("name mismatch inside echo", func(t *testing.T) {
		password := encryptEcho(t, kp, keyResp.PK, challengeEcho{Name: "mallory", Time: time.Now()})
		_, err := client.LogIn(ctx, "alice", password)
		assertUnauthorized(t, err)
	})

	t.Run("expired challenge", func(t *testing.T) {
		password := encryptEcho(t, kp, keyResp.PK, challengeEcho{Name: "alice", Time: time.Now().Add(-time.Minute)})
		_, err := client.LogIn(ctx, "alice", password)
		assertUnauthorized(t, err)
	})

	t.Run("literal password", func(t *testing.T) {
		_, err := client.LogIn(ctx, "alice", "hunter2")
		assertUnauthorized(t, err)
	})

	t.Run("empty body fields", func(t *testing.T) {
		_, err := client.LogIn(ctx, "", "")
		assertUnauthorized(t, err)
	})

	// None of the failures should have produced a session
	sess, err := client.Session(ctx)
	require.NoError(t, err)
	assertAnonymous(t, sess)
}

func TestServerKey(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := authsdk.NewClient(baseURL)

	resp, err := client.ServerKey(ctx)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.NotEmpty(t, resp.KID)
	require.Contains(t, resp.PK, "BEGIN PGP PUBLIC KEY BLOCK")
	require.WithinDuration(t, time.Now(), resp.Time, time.Minute)

	// The advertised key must be usable for encryption
	_, err = pgpx.ReadPublicKey(resp.PK)
	require.NoError(t, err)

	// Stable across calls while the server runs
	resp2, err := client.ServerKey(ctx)
	require.NoError(t, err)
	require.Equal(t, resp.KID, resp2.KID)
	require.Equal(t, resp.PK, resp2.PK)
}
