package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

// Some deployments reuse the token file written by an existing Python bot,
// which stores Google credentials in the google-auth "authorized user"
// layout. normalizeToken accepts either format so the rest of the engine
// only ever sees the native Token.

type foreignToken struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry"`
	Account      string   `json:"account"`
}

func normalizeToken(data []byte) (*Token, error) {
	var native Token
	if err := json.Unmarshal(data, &native); err == nil && native.AccessToken != "" {
		return &native, nil
	}

	var foreign foreignToken
	if err := json.Unmarshal(data, &foreign); err != nil {
		return nil, fmt.Errorf("unrecognized token file: %w", err)
	}
	if foreign.Token == "" && foreign.RefreshToken == "" {
		return nil, fmt.Errorf("unrecognized token file: no usable credentials")
	}

	return &Token{
		AccessToken:  foreign.Token,
		RefreshToken: foreign.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       parseForeignExpiry(foreign.Expiry),
		Email:        foreign.Account,
	}, nil
}

// parseForeignExpiry handles the timestamp variants google-auth emits. An
// unparseable value yields the zero time, which simply forces a refresh.
func parseForeignExpiry(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02 15:04:05.999999",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ImportExternalToken normalizes a foreign token file's contents and
// installs it as the active session, rewriting the native format to disk.
func (tm *TokenManager) ImportExternalToken(data []byte) error {
	token, err := normalizeToken(data)
	if err != nil {
		return err
	}
	tm.mu.Lock()
	tm.token = token
	err = tm.saveLocked()
	tm.mu.Unlock()
	return err
}
