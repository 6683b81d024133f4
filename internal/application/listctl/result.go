package listctl

import "fmt"

// Result is the outcome of a user action.
type Result int

const (
	// Applied means the remote call succeeded and the collection was re-fetched.
	Applied Result = iota
	// Failed means the remote call failed and a notification was emitted.
	Failed
	// Skipped means the action was a silent no-op, e.g. no signed-in user.
	Skipped
	// Invalid means the form failed validation; no remote call was made.
	Invalid
	resultCount
)

var resultNames = [...]string{
	Applied: "applied",
	Failed:  "failed",
	Skipped: "skipped",
	Invalid: "invalid",
}

const (
	_ = uint(len(resultNames) - int(resultCount))
	_ = uint(int(resultCount) - len(resultNames))
)

func (r Result) String() string {
	if r < 0 || r >= resultCount {
		return fmt.Sprintf("Result(%d)", int(r))
	}
	return resultNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
