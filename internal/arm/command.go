// internal/arm/command.go
package arm

// CommandKind selects how Command.Value is interpreted.
type CommandKind int

const (
	CommandStop    CommandKind = iota
	CommandVoltage             // Value in volts
	CommandStick               // Value in [-1, 1], scaled by OpenLoopScale
	CommandAngle               // Value in degrees, closed loop
)

func (k CommandKind) String() string {
	switch k {
	case CommandStop:
		return "stop"
	case CommandVoltage:
		return "voltage"
	case CommandStick:
		return "stick"
	case CommandAngle:
		return "angle"
	default:
		return "unknown"
	}
}

// ParseCommandKind maps the wire name of a command kind.
func ParseCommandKind(s string) (CommandKind, bool) {
	for _, k := range []CommandKind{CommandStop, CommandVoltage, CommandStick, CommandAngle} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Command is one operator request for the arm.
type Command struct {
	Kind  CommandKind
	Value float64
}

// CommandSource yields the commands received since the previous call.
// Drain is called from the control loop; implementations buffer under their own lock.
type CommandSource interface {
	Drain() []Command
}
