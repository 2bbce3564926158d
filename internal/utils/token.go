package utils

import (
	"github.com/google/uuid"
)

// GenerateInvitationToken returns a random version 4 UUID in its canonical
// 36 character form.
func GenerateInvitationToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NormalizeInvitationToken parses a token in any form accepted by uuid.Parse
// and returns its canonical representation.
func NormalizeInvitationToken(token string) (string, bool) {
	id, err := uuid.Parse(token)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
