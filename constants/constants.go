package constants

// Staves are walked in this order when flattening a measure; any other staff
// ids follow in lexical order.
var DefaultStaffOrder = []string{"treble", "bass", "upper", "lower"}

const (
	DefaultVelocity = 100
	DefaultChannel  = 0

	DefaultServerPort = "8080"
	DefaultMidiPort   = 0

	// env prefix for every config key, e.g. CHORALE_SERVER_PORT
	EnvPrefix = "CHORALE"
)
