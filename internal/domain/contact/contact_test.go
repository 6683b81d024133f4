package contact

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestStatusBadgesCoverEveryStatus(t *testing.T) {
	require.Len(t, Statuses, int(statusCount))
	seen := map[string]bool{}
	for _, s := range Statuses {
		badge := s.Badge()
		assert.NotEmpty(t, badge.Label, s.String())
		assert.NotEmpty(t, badge.Tone, s.String())
		assert.NotEmpty(t, badge.Icon, s.String())
		assert.False(t, seen[s.String()], "duplicate name %s", s)
		seen[s.String()] = true
	}
	assert.Equal(t, "Customer", StatusCustomer.Badge().Label)
}

func TestStatusDecodingFailsFast(t *testing.T) {
	var c Contact
	err := json.Unmarshal([]byte(`{"id":"c1","name":"Ada","status":"vip"}`), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vip")

	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","name":"Ada","status":"prospect"}`), &c))
	assert.Equal(t, StatusProspect, c.Status)

	_, err = json.Marshal(Contact{Status: Status(42)})
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	c := Contact{Name: "Ada Lovelace", Email: strPtr("ada@analytical.engine"), Company: strPtr("Babbage & Co"), Notes: strPtr("secret")}

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"LOVE", true},
		{"analytical", true},
		{"babbage", true},
		{"secret", false},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Matches(tt.term))
		})
	}
	assert.False(t, Contact{Name: "Bob"}.Matches("acme"))
}

func TestForms(t *testing.T) {
	assert.Equal(t, StatusLead, NewForm().Status)

	c := Contact{ID: "c1", Name: "Ada", Phone: strPtr("+44 20"), Status: StatusCustomer}
	form := FormOf(c)
	assert.Equal(t, Form{Name: "Ada", Phone: "+44 20", Status: StatusCustomer}, form)

	ctx := context.Background()
	assert.NoError(t, form.Validate(ctx))
	assert.Error(t, Form{Name: "  "}.Validate(ctx))
	assert.Error(t, Form{Name: "Ada", Email: "nope"}.Validate(ctx))
	assert.NoError(t, Form{Name: "Ada", Email: " ada@example.com "}.Validate(ctx))
	assert.Error(t, Form{Name: "Ada", Status: Status(9)}.Validate(ctx))
}

func TestFormNormalized(t *testing.T) {
	form := Form{Name: "  Ada  ", Email: " ada@example.com ", Phone: " +44 "}.Normalized()
	assert.Equal(t, "Ada", form.Name)
	assert.Equal(t, "ada@example.com", form.Email)
	assert.Equal(t, " +44 ", form.Phone)
}
