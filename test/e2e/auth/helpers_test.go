package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/couchloft/pgpauth/pkg/authsdk"
	"github.com/couchloft/pgpauth/pkg/pgpx"
)

/*
 * Common constants and helper functions for the authentication service
 * end-to-end tests: container setup, key handling, and login plumbing.
 */

const (
	testImageName = "pgpauth-test:latest"

	adminUsername = "admin"
	adminPassword = "Admin123!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building pgpauth Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up pgpauth Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/pgpauth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupAuthContainer starts the service in a container and returns the base
// URL. Rate limits are relaxed so rapid test requests don't trip the strict
// production profiles.
func setupAuthContainer(t *testing.T) (string, func()) {
	t.Helper()
	return setupAuthContainerWithEnv(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	})
}

// setupAuthContainerWithDefaultRateLimits starts the service with the
// production rate limit profiles, specifically for testing that rate
// limiting actually works.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	t.Helper()
	return setupAuthContainerWithEnv(t, nil)
}

func setupAuthContainerWithEnv(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"PGPAUTH_ADMIN_USER":     adminUsername,
		"PGPAUTH_ADMIN_PASSWORD": adminPassword,
		"PGPAUTH_DATABASE_FILE":  "/home/pgpauth/pgpauth.db",
		"ENV":                    "test",
		"LOG_LEVEL":              "info",
		"LOG_FORMAT":             "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// challengeEcho is the plaintext a client encrypts as its login password.
type challengeEcho struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
}

// buildLoginPassword fetches the server key and produces the armored blob
// for name: the {name, time} echo encrypted to the server key and signed
// with the client's private key.
func buildLoginPassword(t *testing.T, client *authsdk.Client, kp *pgpx.KeyPair, name string) string {
	t.Helper()
	ctx := context.Background()

	keyResp, err := client.ServerKey(ctx)
	require.NoError(t, err)
	require.True(t, keyResp.OK)
	require.NotEmpty(t, keyResp.PK)
	require.False(t, keyResp.Time.IsZero())

	return encryptEcho(t, kp, keyResp.PK, challengeEcho{Name: name, Time: keyResp.Time})
}

// encryptEcho encrypts an arbitrary echo payload to the given armored server
// key, signing with kp.
func encryptEcho(t *testing.T, kp *pgpx.KeyPair, serverKeyArmored string, echo challengeEcho) string {
	t.Helper()

	payload, err := json.Marshal(echo)
	require.NoError(t, err)

	serverEntity, err := pgpx.ReadPublicKey(serverKeyArmored)
	require.NoError(t, err)

	blob, err := pgpx.EncryptSigned(payload, serverEntity, kp.Entity())
	require.NoError(t, err)
	return blob
}

// signUpUser registers a user with a fresh keypair and returns the pair plus
// the record revision.
func signUpUser(t *testing.T, client *authsdk.Client, name string, roles []string) (*pgpx.KeyPair, string) {
	t.Helper()
	ctx := context.Background()

	kp, err := pgpx.GenerateKeyPair(name, name+"@example.com")
	require.NoError(t, err)

	resp, err := client.SignUp(ctx, name, kp.PublicArmored, roles)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, "org.couchdb.user:"+name, resp.ID)
	require.NotEmpty(t, resp.Rev)

	return kp, resp.Rev
}

// logIn performs the full challenge exchange for name and asserts success.
func logIn(t *testing.T, client *authsdk.Client, kp *pgpx.KeyPair, name string) {
	t.Helper()

	password := buildLoginPassword(t, client, kp, name)
	resp, err := client.LogIn(context.Background(), name, password)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, name, resp.Name)
}

// assertUnauthorized checks that err is the uniform login failure: status
// 401 with the fixed name and message.
func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)

	apiErr, ok := err.(*authsdk.APIError)
	require.True(t, ok, "expected APIError, got %T: %v", err, err)
	require.Equal(t, 401, apiErr.Status)
	require.Equal(t, "unauthorized", apiErr.Name)
	require.Equal(t, "Name or password is incorrect.", apiErr.Message)
}

// assertAnonymous checks a session response describes an unauthenticated
// caller: null name, empty roles.
func assertAnonymous(t *testing.T, resp authsdk.SessionResponse) {
	t.Helper()
	require.True(t, resp.OK)
	require.Nil(t, resp.UserCtx.Name)
	require.Empty(t, resp.UserCtx.Roles)
}
