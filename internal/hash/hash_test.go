package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

func TestBcryptRoundTrip(t *testing.T) {
	h, err := HashPassword("segredo")
	require.NoError(t, err)
	require.NotEqual(t, "segredo", h)
	require.True(t, CheckPassword(h, "segredo"))
	require.False(t, CheckPassword(h, "outro"))
}

func TestWerkzeugPBKDF2(t *testing.T) {
	key := pbkdf2.Key([]byte("segredo"), []byte("abc123"), 1000, sha256.Size, sha256.New)
	stored := "pbkdf2:sha256:1000$abc123$" + hex.EncodeToString(key)

	require.True(t, CheckPassword(stored, "segredo"))
	require.False(t, CheckPassword(stored, "errado"))
}

func TestWerkzeugScrypt(t *testing.T) {
	key, err := scrypt.Key([]byte("segredo"), []byte("salt"), 1024, 8, 1, 64)
	require.NoError(t, err)
	stored := "scrypt:1024:8:1$salt$" + hex.EncodeToString(key)

	require.True(t, CheckPassword(stored, "segredo"))
	require.False(t, CheckPassword(stored, "errado"))
}

func TestMalformedHashes(t *testing.T) {
	for _, h := range []string{
		"",
		"plain",
		"pbkdf2:sha256$salt",
		"pbkdf2:md5:1000$salt$00",
		"pbkdf2:sha256:x$salt$00",
		"scrypt:1:2$salt$00",
		"argon2$salt$00",
	} {
		require.False(t, CheckPassword(h, "segredo"), h)
	}
}
