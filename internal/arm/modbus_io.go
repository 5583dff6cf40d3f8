// internal/arm/modbus_io.go
package arm

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/pose-fusion/internal/config"
	"github.com/tamzrod/pose-fusion/internal/modbus"
)

// Controller modes written to the mode register.
const (
	ModeStopped   uint16 = 0
	ModeOpenLoop  uint16 = 1
	ModePosition  uint16 = 2
	inputRegCount        = 8 // angle, volts, amps, velocity as float32
)

// registerClient is the subset of modbus.EndpointClient the arm uses.
type registerClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
	ReadInputRegisters(unitID uint8, addr, qty uint16) ([]uint16, error)
}

// ModbusIO drives a motor controller over Modbus TCP.
//
// Holding registers:
//
//	mode(1)  setpoint(2, float32: volts or degrees)
//
// Input registers:
//
//	angle(2) volts(2) amps(2) velocity(2), all float32
type ModbusIO struct {
	cli    registerClient
	unitID uint8
	mode   uint16
	point  uint16
	inputs uint16

	target float64
}

func NewModbusIO(c cfg.ArmConfig, cli registerClient) (*ModbusIO, error) {
	if cli == nil {
		return nil, errors.New("arm: modbus client required")
	}
	return &ModbusIO{
		cli:    cli,
		unitID: c.UnitID,
		mode:   c.ModeRegister,
		point:  c.SetpointRegister,
		inputs: c.InputsRegister,
	}, nil
}

// Build connects to the arm controller. Connection failure is fatal at startup.
func Build(c cfg.ArmConfig) (*ModbusIO, func() error, error) {
	cli, err := modbus.NewEndpointClient(modbus.Config{
		Endpoint: c.Endpoint,
		Timeout:  time.Duration(c.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	io, err := NewModbusIO(c, cli)
	if err != nil {
		_ = cli.Close()
		return nil, nil, err
	}
	return io, cli.Close, nil
}

func (m *ModbusIO) UpdateInputs(in *Inputs) error {
	regs, err := m.cli.ReadInputRegisters(m.unitID, m.inputs, inputRegCount)
	if err != nil {
		in.Connected = false
		return err
	}

	in.Connected = true
	in.AngleDegrees = float64(modbus.RegistersToFloat32(regs[0], regs[1]))
	in.AppliedVolts = float64(modbus.RegistersToFloat32(regs[2], regs[3]))
	in.CurrentAmps = float64(modbus.RegistersToFloat32(regs[4], regs[5]))
	in.Velocity = float64(modbus.RegistersToFloat32(regs[6], regs[7]))
	in.TargetDegrees = m.target
	return nil
}

func (m *ModbusIO) SetOpenLoopVoltage(volts float64) error {
	return m.command(ModeOpenLoop, volts)
}

func (m *ModbusIO) SetAngle(degrees float64) error {
	if err := m.command(ModePosition, degrees); err != nil {
		return err
	}
	m.target = degrees
	return nil
}

func (m *ModbusIO) Stop() error {
	return m.cli.WriteRegisters(m.unitID, m.mode, []uint16{ModeStopped})
}

// command writes the setpoint before the mode so the controller never
// runs a new mode against a stale setpoint.
func (m *ModbusIO) command(mode uint16, value float64) error {
	sp := modbus.Float32ToRegisters(float32(value))
	if err := m.cli.WriteRegisters(m.unitID, m.point, sp[:]); err != nil {
		return err
	}
	return m.cli.WriteRegisters(m.unitID, m.mode, []uint16{mode})
}
