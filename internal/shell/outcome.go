package shell

// Reasons reported when a command has no effect.
const (
	ReasonNoWindow    = "no window"
	ReasonNoHandle    = "native window handle unavailable"
	ReasonUnsupported = "not supported on this platform"
)

// Outcome tells the UI whether a window command changed anything.
type Outcome struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

func applied() Outcome { return Outcome{Applied: true} }

func noEffect(reason string) Outcome { return Outcome{Reason: reason} }
