package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
)

// PIILevel controls how contact data is written to logs.
type PIILevel string

const (
	// PIILevelNone drops user content entirely
	PIILevelNone PIILevel = "none"
	// PIILevelHashed replaces emails and phone numbers with salted hashes
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull logs content verbatim
	PIILevelFull PIILevel = "full"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d{0,3}[\s.-]?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
)

// Redactor scrubs contact details out of strings before they reach a log sink.
type Redactor struct {
	level PIILevel
	salt  string
}

// NewRedactor creates a redactor; unknown levels behave like PIILevelHashed.
func NewRedactor(level PIILevel, salt string) *Redactor {
	return &Redactor{level: level, salt: salt}
}

// Text returns input scrubbed according to the configured level.
func (r *Redactor) Text(input string) string {
	if r == nil {
		return input
	}
	switch r.level {
	case PIILevelNone:
		if input == "" {
			return ""
		}
		return "[REDACTED]"
	case PIILevelFull:
		return input
	default:
		result := emailPattern.ReplaceAllStringFunc(input, func(match string) string {
			return fmt.Sprintf("[EMAIL:%s]", r.hash(match))
		})
		return phonePattern.ReplaceAllStringFunc(result, func(match string) string {
			return fmt.Sprintf("[PHONE:%s]", r.hash(match))
		})
	}
}

// UserID hashes a user id unless full logging is enabled.
func (r *Redactor) UserID(userID string) string {
	if r == nil || userID == "" || r.level == PIILevelFull {
		return userID
	}
	return r.hash(userID)
}

func (r *Redactor) hash(data string) string {
	h := sha256.Sum256([]byte(data + r.salt))
	return hex.EncodeToString(h[:])[:8]
}
