package contact

import (
	"github.com/janhq/jan-crm/internal/domain/display"
	"github.com/janhq/jan-crm/internal/domain/enum"
)

// Status is the lifecycle stage of a contact.
type Status int

const (
	StatusLead Status = iota
	StatusProspect
	StatusCustomer
	StatusInactive
	statusCount
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusLead, StatusProspect, StatusCustomer, StatusInactive}

var statusNames = [...]string{
	StatusLead:     "lead",
	StatusProspect: "prospect",
	StatusCustomer: "customer",
	StatusInactive: "inactive",
}

var statusBadges = [...]display.Badge{
	StatusLead:     {Label: "Lead", Tone: display.ToneInfo, Icon: display.IconClock},
	StatusProspect: {Label: "Prospect", Tone: display.ToneWarning, Icon: display.IconClock},
	StatusCustomer: {Label: "Customer", Tone: display.ToneSuccess, Icon: display.IconCheck},
	StatusInactive: {Label: "Inactive", Tone: display.ToneMuted, Icon: display.IconAlert},
}

// Both tables must cover every status.
const (
	_ = uint(len(statusNames) - int(statusCount))
	_ = uint(int(statusCount) - len(statusNames))
	_ = uint(len(statusBadges) - int(statusCount))
	_ = uint(int(statusCount) - len(statusBadges))
)

func (s Status) String() string { return enum.Name(s, statusNames[:], "contact.Status") }

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
	return enum.Marshal(s, statusNames[:], "contact status")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := enum.Parse[Status](text, statusNames[:], "contact status")
	if err != nil {
		return err
	}
	*s = v
	return nil
}
