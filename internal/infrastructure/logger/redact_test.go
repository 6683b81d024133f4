package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactorLevels(t *testing.T) {
	input := `{"name":"Ada","email":"ada@example.com","phone":"+1 (555) 010-9999"}`

	tests := []struct {
		name  string
		level PIILevel
		check func(t *testing.T, out string)
	}{
		{
			name:  "none",
			level: PIILevelNone,
			check: func(t *testing.T, out string) { assert.Equal(t, "[REDACTED]", out) },
		},
		{
			name:  "full",
			level: PIILevelFull,
			check: func(t *testing.T, out string) { assert.Equal(t, input, out) },
		},
		{
			name:  "hashed",
			level: PIILevelHashed,
			check: func(t *testing.T, out string) {
				assert.NotContains(t, out, "ada@example.com")
				assert.NotContains(t, out, "010-9999")
				assert.Contains(t, out, "[EMAIL:")
				assert.Contains(t, out, "[PHONE:")
				assert.Contains(t, out, `"name":"Ada"`)
			},
		},
		{
			name:  "unknown level hashes",
			level: PIILevel("bogus"),
			check: func(t *testing.T, out string) { assert.Contains(t, out, "[EMAIL:") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NewRedactor(tt.level, "salt").Text(input))
		})
	}
}

func TestRedactorHashIsStablePerSalt(t *testing.T) {
	a := NewRedactor(PIILevelHashed, "one")
	b := NewRedactor(PIILevelHashed, "two")

	assert.Equal(t, a.UserID("user-1"), a.UserID("user-1"))
	assert.NotEqual(t, a.UserID("user-1"), b.UserID("user-1"))
	assert.Len(t, a.UserID("user-1"), 8)
	assert.Equal(t, "user-1", NewRedactor(PIILevelFull, "").UserID("user-1"))

	var nilRedactor *Redactor
	assert.Equal(t, "x@y.io", nilRedactor.Text("x@y.io"))
}
