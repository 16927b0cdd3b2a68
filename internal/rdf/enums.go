package rdf

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func (c ChannelRole) String() string {
	if c == ChannelRight {
		return "Right"
	}
	return "Left"
}

func (c *ChannelRole) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "Left", "left":
		*c = ChannelLeft
	case "Right", "right":
		*c = ChannelRight
	default:
		return fmt.Errorf("channel role: unknown value %q", s)
	}
	return nil
}

func (m TrackingMode) String() string {
	if m == TrackingDPLL {
		return "Dpll"
	}
	return "Simple"
}

func (m *TrackingMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "Simple", "simple":
		*m = TrackingSimple
	case "Dpll", "dpll", "PLL", "pll":
		*m = TrackingDPLL
	default:
		return fmt.Errorf("tracking mode: unknown value %q", s)
	}
	return nil
}

func (b BearingMethod) String() string {
	if b == MethodZeroCrossing {
		return "ZeroCrossing"
	}
	return "Correlation"
}

func (b *BearingMethod) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "Correlation", "correlation":
		*b = MethodCorrelation
	case "ZeroCrossing", "zero_crossing", "zerocrossing":
		*b = MethodZeroCrossing
	default:
		return fmt.Errorf("bearing method: unknown value %q", s)
	}
	return nil
}
