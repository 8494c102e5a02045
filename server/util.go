package main

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// GenerateUUID returns a random version 4 UUID, used as session IDs
func GenerateUUID() string {
	return uuid.NewString()
}

// truncate cuts s to at most n bytes
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
