package pgpx_test

import (
	"testing"

	"github.com/couchloft/pgpauth/pkg/pgpx"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyPair(t *testing.T) {
	kp, err := pgpx.GenerateKeyPair("alice", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, kp.KeyID)
	require.Contains(t, kp.PublicArmored, "BEGIN PGP PUBLIC KEY BLOCK")
	require.Contains(t, kp.PrivateArmored, "BEGIN PGP PRIVATE KEY BLOCK")
}

func TestRestoreKeyPair(t *testing.T) {
	kp, err := pgpx.GenerateKeyPair("alice", "alice@example.com")
	require.NoError(t, err)

	restored, err := pgpx.RestoreKeyPair(kp.PrivateArmored)
	require.NoError(t, err)
	require.Equal(t, kp.KeyID, restored.KeyID)

	// The restored pair must still be able to decrypt messages encrypted for
	// the original.
	client, err := pgpx.GenerateKeyPair("bob", "bob@example.com")
	require.NoError(t, err)

	msg, err := pgpx.EncryptSigned([]byte("hello"), kp.Entity(), client.Entity())
	require.NoError(t, err)

	plaintext, err := restored.DecryptVerify(msg, client.Entity())
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), plaintext)
}

func TestRestoreKeyPair_Invalid(t *testing.T) {
	_, err := pgpx.RestoreKeyPair("not a key")
	require.Error(t, err)

	// A public key holds no private half to restore
	kp, err := pgpx.GenerateKeyPair("alice", "alice@example.com")
	require.NoError(t, err)
	_, err = pgpx.RestoreKeyPair(kp.PublicArmored)
	require.Error(t, err)
}

func TestEncryptSignedDecryptVerify(t *testing.T) {
	server, err := pgpx.GenerateKeyPair("server", "server@example.com")
	require.NoError(t, err)
	client, err := pgpx.GenerateKeyPair("client", "client@example.com")
	require.NoError(t, err)

	plaintext := []byte(`{"name":"alice","time":"2020-01-01T00:00:00Z"}`)

	msg, err := pgpx.EncryptSigned(plaintext, server.Entity(), client.Entity())
	require.NoError(t, err)
	require.Contains(t, msg, "BEGIN PGP MESSAGE")

	got, err := server.DecryptVerify(msg, client.Entity())
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestDecryptVerify_WrongSigner(t *testing.T) {
	server, err := pgpx.GenerateKeyPair("server", "server@example.com")
	require.NoError(t, err)
	client, err := pgpx.GenerateKeyPair("client", "client@example.com")
	require.NoError(t, err)
	impostor, err := pgpx.GenerateKeyPair("impostor", "impostor@example.com")
	require.NoError(t, err)

	// Signed by the impostor but claimed to be from the client
	msg, err := pgpx.EncryptSigned([]byte("payload"), server.Entity(), impostor.Entity())
	require.NoError(t, err)

	_, err = server.DecryptVerify(msg, client.Entity())
	require.ErrorIs(t, err, pgpx.ErrDecrypt)
}

func TestDecryptVerify_WrongRecipient(t *testing.T) {
	server, err := pgpx.GenerateKeyPair("server", "server@example.com")
	require.NoError(t, err)
	other, err := pgpx.GenerateKeyPair("other", "other@example.com")
	require.NoError(t, err)
	client, err := pgpx.GenerateKeyPair("client", "client@example.com")
	require.NoError(t, err)

	// Encrypted to a different recipient; the server cannot open it
	msg, err := pgpx.EncryptSigned([]byte("payload"), other.Entity(), client.Entity())
	require.NoError(t, err)

	_, err = server.DecryptVerify(msg, client.Entity())
	require.ErrorIs(t, err, pgpx.ErrDecrypt)
}

func TestDecryptVerify_Garbage(t *testing.T) {
	server, err := pgpx.GenerateKeyPair("server", "server@example.com")
	require.NoError(t, err)

	tests := []struct {
		name string
		msg  string
	}{
		{"empty", ""},
		{"not armored", "just some text"},
		{"truncated armor", "-----BEGIN PGP MESSAGE-----\nabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := server.DecryptVerify(tt.msg, nil)
			require.ErrorIs(t, err, pgpx.ErrDecrypt)
		})
	}
}

func TestReadPublicKey(t *testing.T) {
	kp, err := pgpx.GenerateKeyPair("alice", "alice@example.com")
	require.NoError(t, err)

	ent, err := pgpx.ReadPublicKey(kp.PublicArmored)
	require.NoError(t, err)
	require.Equal(t, kp.KeyID, ent.PrimaryKey.KeyIdString())

	_, err = pgpx.ReadPublicKey("garbage")
	require.Error(t, err)
}

func TestIsPublicKey(t *testing.T) {
	kp, err := pgpx.GenerateKeyPair("alice", "alice@example.com")
	require.NoError(t, err)

	require.True(t, pgpx.IsPublicKey(kp.PublicArmored))
	require.False(t, pgpx.IsPublicKey("hunter2"))
	require.False(t, pgpx.IsPublicKey(""))
	// Private keys must not pass as public keys
	require.False(t, pgpx.IsPublicKey(kp.PrivateArmored))
}
