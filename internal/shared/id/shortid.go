// Package id generates Stripe-style prefixed identifiers such as
// "tkt_4fXk2LmQa9Zp".
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultLength = 12
)

const (
	PrefixTicket     = "tkt"
	PrefixMessage    = "msg"
	PrefixAttachment = "att"
	PrefixUser       = "usr"
	PrefixTeam       = "team"
	PrefixAgent      = "agt"
)

var alphabetLen = big.NewInt(int64(len(alphabet)))

// Generate returns a cryptographically random base62 string.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

func GenerateWithPrefix(prefix string, length int) (string, error) {
	s, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + s, nil
}

func MustGenerateWithPrefix(prefix string, length int) string {
	s, err := GenerateWithPrefix(prefix, length)
	if err != nil {
		panic(err)
	}
	return s
}

// ParsePrefixedID splits "tkt_abc" into ("tkt", "abc").
func ParsePrefixedID(prefixedID string) (prefix, shortID string, err error) {
	prefix, shortID, ok := strings.Cut(prefixedID, "_")
	if !ok || prefix == "" || shortID == "" {
		return "", "", fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	return prefix, shortID, nil
}

// ValidatePrefix reports an error unless prefixedID is well formed and uses
// the expected prefix.
func ValidatePrefix(prefixedID, expectedPrefix string) error {
	prefix, shortID, err := ParsePrefixedID(prefixedID)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	for _, r := range shortID {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid character %q in ID %s", r, prefixedID)
		}
	}
	return nil
}

func NewTicketID() string     { return MustGenerateWithPrefix(PrefixTicket, DefaultLength) }
func NewMessageID() string    { return MustGenerateWithPrefix(PrefixMessage, DefaultLength) }
func NewAttachmentID() string { return MustGenerateWithPrefix(PrefixAttachment, DefaultLength) }
func NewUserID() string       { return MustGenerateWithPrefix(PrefixUser, DefaultLength) }
func NewTeamID() string       { return MustGenerateWithPrefix(PrefixTeam, DefaultLength) }
func NewAgentID() string      { return MustGenerateWithPrefix(PrefixAgent, DefaultLength) }
