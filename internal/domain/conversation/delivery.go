package conversation

import (
	"github.com/janhq/jan-crm/internal/domain/display"
	"github.com/janhq/jan-crm/internal/domain/enum"
)

// DeliveryStatus tracks an outgoing message through the channel.
type DeliveryStatus int

const (
	DeliverySent DeliveryStatus = iota
	DeliveryDelivered
	DeliveryRead
	DeliveryFailed
	deliveryCount
)

// DeliveryStatuses lists every delivery status.
var DeliveryStatuses = []DeliveryStatus{DeliverySent, DeliveryDelivered, DeliveryRead, DeliveryFailed}

// Glyph is the tick mark drawn under an outgoing bubble.
type Glyph struct {
	Symbol string       `json:"symbol"`
	Tone   display.Tone `json:"tone,omitempty"`
}

var deliveryNames = [...]string{
	DeliverySent:      "sent",
	DeliveryDelivered: "delivered",
	DeliveryRead:      "read",
	DeliveryFailed:    "failed",
}

var deliveryGlyphs = [...]Glyph{
	DeliverySent:      {Symbol: "✓"},
	DeliveryDelivered: {Symbol: "✓✓"},
	DeliveryRead:      {Symbol: "✓✓", Tone: display.ToneInfo},
	DeliveryFailed:    {Symbol: "!", Tone: display.ToneDestructive},
}

const (
	_ = uint(len(deliveryNames) - int(deliveryCount))
	_ = uint(int(deliveryCount) - len(deliveryNames))
	_ = uint(len(deliveryGlyphs) - int(deliveryCount))
	_ = uint(int(deliveryCount) - len(deliveryGlyphs))
)

func (d DeliveryStatus) String() string {
	return enum.Name(d, deliveryNames[:], "conversation.DeliveryStatus")
}

// Valid reports whether d is a known delivery status.
func (d DeliveryStatus) Valid() bool { return d >= 0 && d < deliveryCount }

// Glyph returns the marker shown for d.
func (d DeliveryStatus) Glyph() Glyph {
	if !d.Valid() {
		return Glyph{Symbol: "?", Tone: display.ToneMuted}
	}
	return deliveryGlyphs[d]
}

// MarshalText implements encoding.TextMarshaler.
func (d DeliveryStatus) MarshalText() ([]byte, error) {
	return enum.Marshal(d, deliveryNames[:], "delivery status")
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DeliveryStatus) UnmarshalText(text []byte) error {
	v, err := enum.Parse[DeliveryStatus](text, deliveryNames[:], "delivery status")
	if err != nil {
		return err
	}
	*d = v
	return nil
}
