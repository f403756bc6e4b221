package hash

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	stdhash "hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

// CheckPassword accepts bcrypt hashes and the werkzeug "method$salt$hex" format
// (pbkdf2:<digest>:<iterations> or scrypt:<n>:<r>:<p>) written by the legacy admin tooling.
func CheckPassword(hash, password string) bool {
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}

	method, salt, want, ok := splitWerkzeug(hash)
	if !ok {
		return false
	}
	got, ok := derive(method, salt, password)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(got)), []byte(want)) == 1
}

func splitWerkzeug(hash string) (method, salt, digest string, ok bool) {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], strings.ToLower(parts[2]), true
}

var digests = map[string]struct {
	fn   func() stdhash.Hash
	size int
}{
	"sha1":   {sha1.New, sha1.Size},
	"sha256": {sha256.New, sha256.Size},
	"sha512": {sha512.New, sha512.Size},
}

func derive(method, salt, password string) ([]byte, bool) {
	fields := strings.Split(method, ":")
	switch fields[0] {
	case "pbkdf2":
		if len(fields) != 3 {
			return nil, false
		}
		d, ok := digests[fields[1]]
		if !ok {
			return nil, false
		}
		iter, err := strconv.Atoi(fields[2])
		if err != nil || iter <= 0 {
			return nil, false
		}
		return pbkdf2.Key([]byte(password), []byte(salt), iter, d.size, d.fn), true
	case "scrypt":
		if len(fields) != 4 {
			return nil, false
		}
		n, errN := strconv.Atoi(fields[1])
		r, errR := strconv.Atoi(fields[2])
		p, errP := strconv.Atoi(fields[3])
		if errN != nil || errR != nil || errP != nil {
			return nil, false
		}
		key, err := scrypt.Key([]byte(password), []byte(salt), n, r, p, 64)
		if err != nil {
			return nil, false
		}
		return key, true
	default:
		return nil, false
	}
}
