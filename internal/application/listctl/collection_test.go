package listctl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/domain/textmatch"
)

type item struct {
	ID   string
	Name string
}

func (i item) Key() string              { return i.ID }
func (i item) Matches(term string) bool { return textmatch.AnyContains(term, i.Name) }

type plain struct{ ID string }

func (p plain) Key() string { return p.ID }

func staticList(items ...item) Lister[item] {
	return func(context.Context) ([]item, error) { return items, nil }
}

func TestCollectionFetch(t *testing.T) {
	ctx := context.Background()
	rec := &notify.Recorder{}
	c := NewCollection("items", staticList(item{ID: "1", Name: "Ada"}), rec, zerolog.Nop())

	assert.True(t, c.Loading())
	assert.Empty(t, c.Items())

	require.True(t, c.Fetch(ctx))
	assert.False(t, c.Loading())
	assert.Equal(t, []item{{ID: "1", Name: "Ada"}}, c.Items())
	assert.Empty(t, rec.All())

	got, ok := c.Find("1")
	assert.True(t, ok)
	assert.Equal(t, "Ada", got.Name)
	_, ok = c.Find("2")
	assert.False(t, ok)
}

func TestCollectionFetchFailureKeepsItems(t *testing.T) {
	ctx := context.Background()
	rec := &notify.Recorder{}
	fail := false
	c := NewCollection("items", func(context.Context) ([]item, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []item{{ID: "1"}}, nil
	}, rec, zerolog.Nop())

	require.True(t, c.Fetch(ctx))
	fail = true
	assert.False(t, c.Fetch(ctx))
	assert.Len(t, c.Items(), 1)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Failure("Failed to fetch items"), last)
}

func TestCollectionFirstFetchFailureClearsLoading(t *testing.T) {
	c := NewCollection("items", func(context.Context) ([]item, error) {
		return nil, errors.New("boom")
	}, nil, zerolog.Nop())

	c.Fetch(context.Background())
	assert.False(t, c.Loading())
	assert.Empty(t, c.Items())
}

func TestCollectionDiscardsStaleResponse(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0

	c := NewCollection("items", func(context.Context) ([]item, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return []item{{ID: "old"}}, nil
		}
		return []item{{ID: "new"}}, nil
	}, nil, zerolog.Nop())

	slow := make(chan bool)
	go func() { slow <- c.Fetch(ctx) }()
	<-started

	require.True(t, c.Fetch(ctx))
	close(release)
	assert.False(t, <-slow, "older response must not be applied")
	assert.Equal(t, []item{{ID: "new"}}, c.Items())
}

func TestCollectionClearInvalidatesInFlight(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	c := NewCollection("items", func(context.Context) ([]item, error) {
		close(started)
		<-release
		return []item{{ID: "late"}}, nil
	}, nil, zerolog.Nop())

	done := make(chan bool)
	go func() { done <- c.Fetch(ctx) }()
	<-started
	c.Clear()
	close(release)

	assert.False(t, <-done)
	assert.Empty(t, c.Items())
}

func TestCollectionSearch(t *testing.T) {
	c := NewCollection("items", staticList(
		item{ID: "1", Name: "Ada Lovelace"},
		item{ID: "2", Name: "Grace Hopper"},
		item{ID: "3", Name: "Straße"},
	), nil, zerolog.Nop())
	c.Fetch(context.Background())

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3"}},
		{"ada", []string{"1"}},
		{"HOPPER", []string{"2"}},
		{"strasse", []string{"3"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var ids []string
			for _, it := range c.Search(tt.term) {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, c.Search(tt.term), c.Search(strings.ToUpper(tt.term)))
			assert.Equal(t, c.Search(tt.term), c.Search(strings.ToLower(tt.term)))
		})
	}

	c.SetSearch("grace")
	assert.Equal(t, "grace", c.SearchTerm())
	assert.Len(t, c.Visible(), 1)
	assert.Len(t, c.Items(), 3, "search never changes the cache")
}

func TestCollectionSearchWithoutMatcher(t *testing.T) {
	c := NewCollection("plain", func(context.Context) ([]plain, error) {
		return []plain{{ID: "a"}}, nil
	}, nil, zerolog.Nop())
	c.Fetch(context.Background())

	assert.Len(t, c.Search(""), 1)
	assert.Empty(t, c.Search("a"))
}
