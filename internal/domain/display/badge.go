// Package display holds presentation metadata attached to domain enums.
package display

// Tone is the color family a badge is drawn with.
type Tone string

const (
	ToneInfo        Tone = "info"
	ToneWarning     Tone = "warning"
	ToneSuccess     Tone = "success"
	ToneMuted       Tone = "muted"
	ToneDestructive Tone = "destructive"
)

// Icon names the glyph shown next to a badge label.
type Icon string

const (
	IconClock Icon = "clock"
	IconCheck Icon = "check"
	IconAlert Icon = "alert-circle"
)

// Badge is the label, tone and icon rendered for an enum value.
type Badge struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
	Icon  Icon   `json:"icon"`
}
