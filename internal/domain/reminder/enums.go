package reminder

import (
	"github.com/janhq/jan-crm/internal/domain/display"
	"github.com/janhq/jan-crm/internal/domain/enum"
)

// Status is whether a follow-up is still open.
type Status int

const (
	StatusPending Status = iota
	StatusCompleted
	statusCount
)

// Statuses lists every status.
var Statuses = []Status{StatusPending, StatusCompleted}

var statusNames = [...]string{
	StatusPending:   "pending",
	StatusCompleted: "completed",
}

var statusBadges = [...]display.Badge{
	StatusPending:   {Label: "Pending", Tone: display.ToneWarning, Icon: display.IconClock},
	StatusCompleted: {Label: "Completed", Tone: display.ToneSuccess, Icon: display.IconCheck},
}

// OverdueBadge replaces the pending badge once the due date has passed.
var OverdueBadge = display.Badge{Label: "Overdue", Tone: display.ToneDestructive, Icon: display.IconAlert}

const (
	_ = uint(len(statusNames) - int(statusCount))
	_ = uint(int(statusCount) - len(statusNames))
	_ = uint(len(statusBadges) - int(statusCount))
	_ = uint(int(statusCount) - len(statusBadges))
)

func (s Status) String() string { return enum.Name(s, statusNames[:], "reminder.Status") }

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s >= 0 && s < statusCount }

// Badge returns the display metadata for s.
func (s Status) Badge() display.Badge {
	if !s.Valid() {
		return display.Badge{Label: s.String(), Tone: display.ToneMuted, Icon: display.IconAlert}
	}
	return statusBadges[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return enum.Marshal(s, statusNames[:], "reminder status")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := enum.Parse[Status](text, statusNames[:], "reminder status")
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Priority ranks follow-ups.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	priorityCount
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

var priorityNames = [...]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

var priorityBadges = [...]display.Badge{
	PriorityLow:    {Label: "Low", Tone: display.ToneMuted, Icon: display.IconClock},
	PriorityMedium: {Label: "Medium", Tone: display.ToneWarning, Icon: display.IconClock},
	PriorityHigh:   {Label: "High", Tone: display.ToneDestructive, Icon: display.IconAlert},
}

const (
	_ = uint(len(priorityNames) - int(priorityCount))
	_ = uint(int(priorityCount) - len(priorityNames))
	_ = uint(len(priorityBadges) - int(priorityCount))
	_ = uint(int(priorityCount) - len(priorityBadges))
)

func (p Priority) String() string { return enum.Name(p, priorityNames[:], "reminder.Priority") }

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool { return p >= 0 && p < priorityCount }

// Badge returns the display metadata for p.
func (p Priority) Badge() display.Badge {
	if !p.Valid() {
		return display.Badge{Label: p.String(), Tone: display.ToneMuted, Icon: display.IconAlert}
	}
	return priorityBadges[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return enum.Marshal(p, priorityNames[:], "reminder priority")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := enum.Parse[Priority](text, priorityNames[:], "reminder priority")
	if err != nil {
		return err
	}
	*p = v
	return nil
}
