package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type (
	// Tokens issues and verifies the signed bearer tokens handed out
	// after a successful login. Tokens are not persisted anywhere,
	// validity is purely a function of the signature and the embedded
	// expiry.
	Tokens struct {
		secret []byte
	}

	claims struct {
		UserID int64 `json:"userId"`
		jwt.RegisteredClaims
	}
)

const (
	// TokenSecretEnvVar is the default environment variable holding the
	// signing secret.
	TokenSecretEnvVar = "TASKBOX_TOKEN_SECRET"

	tokenTTL = time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

func NewTokens(secret []byte) *Tokens {
	return &Tokens{secret: secret}
}

// SecretFromEnv reads the signing secret from the environment variable
// varname and removes it from the environment, so the secret does not
// leak to child processes. getfn/setfn default to os.Getenv/os.Setenv
// when nil.
func SecretFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) ([]byte, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	if len(val) == 0 {
		return nil, fmt.Errorf("auth: environment variable %v does not contain a signing secret", varname)
	}
	return []byte(val), nil
}

// Issue signs a token proving that userID authenticated, valid for one
// hour from now.
func (t *Tokens) Issue(userID int64) (string, error) {
	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	signed, err := tk.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("unable to sign token, cause %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry of token, returning the user id it
// was issued for along with the expiry instant. Any malformed, tampered
// or expired token fails with ErrInvalidToken.
func (t *Tokens) Verify(token string) (userID int64, expiry time.Time, err error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tk.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid || c.ExpiresAt == nil {
		return 0, time.Time{}, ErrInvalidToken
	}
	return c.UserID, c.ExpiresAt.Time, nil
}
