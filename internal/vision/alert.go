// internal/vision/alert.go
package vision

import "fmt"

// AlertLevel mirrors the severity shown to the operator.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertError
)

func (l AlertLevel) String() string {
	switch l {
	case AlertInfo:
		return "info"
	case AlertWarning:
		return "warning"
	case AlertError:
		return "error"
	default:
		return "unknown"
	}
}

// Alert is a persistent operator-facing condition.
type Alert struct {
	Text   string
	Level  AlertLevel
	Active bool
}

func disconnectedAlert(index int) Alert {
	return Alert{
		Text:  fmt.Sprintf("Vision camera %d is disconnected.", index),
		Level: AlertWarning,
	}
}
