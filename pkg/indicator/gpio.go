// Package indicator drives optional external hardware that reacts to
// detected north ticks, entirely outside the core pipeline.
package indicator

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/rdf"
)

// TickSink receives one notification per detected north tick, e.g. to
// drive a bench LED or scope trigger.
type TickSink interface {
	OnTick(tick rdf.NorthTick)
}

// GPIOStrobe pulses a GPIO line high for each north tick, using
// github.com/warthog618/go-gpiocdev. Never touched by the core pipeline
// itself; wired in only when a caller (e.g. cmd/rotaryclub) opts in with
// --strobe-chip/--strobe-line.
type GPIOStrobe struct {
	line *gpiocdev.Line
}

// NewGPIOStrobe requests chip/line as an output, initially low.
func NewGPIOStrobe(chip string, line int) (*GPIOStrobe, error) {
	l, err := gpiocdev.RequestLine(chip, line, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("indicator: requesting gpio line %s:%d: %w", chip, line, err)
	}
	return &GPIOStrobe{line: l}, nil
}

// OnTick pulses the line high; callers are expected to drive it back low
// on their own schedule (e.g. next tick, or a short timer) since the
// strobe itself performs no timed pulse.
func (g *GPIOStrobe) OnTick(tick rdf.NorthTick) {
	g.line.SetValue(1)
}

// Reset drives the line low.
func (g *GPIOStrobe) Reset() error {
	return g.line.SetValue(0)
}

// Close releases the GPIO line.
func (g *GPIOStrobe) Close() error {
	return g.line.Close()
}
