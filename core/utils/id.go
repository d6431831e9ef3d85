package utils

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const inviteCodeAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// GenerateInviteCode returns a short human-shareable group code.
func GenerateInviteCode() string {
	id, err := gonanoid.Generate(inviteCodeAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// ToUUID parses s, returning uuid.Nil when it is not a valid UUID.
func ToUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
