// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/pose-fusion/internal/config"
	"github.com/tamzrod/pose-fusion/internal/modbus"
)

// BuildPlan converts the status and camera config into a write plan.
// Assumes config has already passed validation.
func BuildPlan(s cfg.StatusConfig, cameras []cfg.CameraConfig) (Plan, error) {
	if s.Endpoint == "" {
		return Plan{}, errors.New("writer: status endpoint required")
	}

	plan := Plan{
		Endpoint: s.Endpoint,
		UnitID:   s.UnitID,
	}
	for i, c := range cameras {
		plan.Cameras = append(plan.Cameras, CameraSlot{
			Index: i,
			Name:  c.Name,
			Slot:  s.BaseSlot + uint16(i),
		})
	}
	return plan, nil
}

// BuildEndpointClient prepares the status endpoint client. It does not dial:
// an unreachable status endpoint must not keep the pipeline from starting.
func BuildEndpointClient(s cfg.StatusConfig) (*modbus.EndpointClient, func() error, error) {
	c, err := modbus.NewEndpointClient(modbus.Config{
		Endpoint: s.Endpoint,
		Timeout:  time.Duration(s.TimeoutMs) * time.Millisecond,
		Lazy:     true,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}
