package oauth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// SpreadsheetsScope grants read/write access to Google Sheets.
const SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

var ErrMissingServiceAccount = errors.New("service account email and private key are required")

// ServiceAccount identifies a Google service account by its email and PEM key.
type ServiceAccount struct {
	Email      string
	PrivateKey string
}

// NormalizePrivateKey restores newlines in keys stored with escaped "\n",
// which is how they survive single-line environment variables.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// JWTConfig builds the two-legged JWT flow configuration for the given scopes.
func (sa ServiceAccount) JWTConfig(scopes ...string) (*jwt.Config, error) {
	if sa.Email == "" || sa.PrivateKey == "" {
		return nil, ErrMissingServiceAccount
	}
	return &jwt.Config{
		Email:      sa.Email,
		PrivateKey: []byte(NormalizePrivateKey(sa.PrivateKey)),
		Scopes:     scopes,
		TokenURL:   google.JWTTokenURL,
	}, nil
}

// NewServiceAccountClient returns an HTTP client that signs requests as the
// service account. Tokens are cached and refreshed by the oauth2 package.
func NewServiceAccountClient(ctx context.Context, sa ServiceAccount, scopes ...string) (*http.Client, error) {
	conf, err := sa.JWTConfig(scopes...)
	if err != nil {
		return nil, err
	}
	return conf.Client(ctx), nil
}
