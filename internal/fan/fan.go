// Package fan holds the fan domain types and the hysteresis policy that
// decides whether the fan should be on.
package fan

import "fmt"

// State is the commanded fan state. Only Off and On are valid.
type State int

const (
	Off State = 0
	On  State = 1
)

// Valid reports whether s is Off or On.
func (s State) Valid() bool {
	return s == Off || s == On
}

func (s State) String() string {
	switch s {
	case Off:
		return "OFF"
	case On:
		return "ON"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Temperature is a CPU temperature in degrees Celsius.
type Temperature float64

const milliDegreesPerDegree = 1000.0

// FromMilliDegrees converts a millidegree Celsius reading.
func FromMilliDegrees(m int) Temperature {
	return Temperature(float64(m) / milliDegreesPerDegree)
}

func (t Temperature) String() string {
	return fmt.Sprintf("%.2f°C", float64(t))
}

// Action is the branch taken by the policy.
type Action int

const (
	Hold Action = iota
	TurnOn
	TurnOff
)

func (a Action) String() string {
	switch a {
	case TurnOn:
		return "turn_on"
	case TurnOff:
		return "turn_off"
	default:
		return "hold"
	}
}

// Decision is the outcome of one policy evaluation.
type Decision struct {
	Previous State
	Next     State
	Action   Action
}

// Changed reports whether the decision transitions the fan.
func (d Decision) Changed() bool {
	return d.Previous != d.Next
}

// Evaluate applies the hysteresis policy. The fan turns on only when it is off
// and the temperature reaches threshold+variance; it turns off whenever the
// temperature drops to threshold-variance. In between, the current state holds.
func Evaluate(current State, temperature Temperature, threshold, variance int) Decision {
	// Bounds are computed in float64 so extreme arguments cannot wrap.
	upper := Temperature(threshold) + Temperature(variance)
	lower := Temperature(threshold) - Temperature(variance)

	switch {
	case current == Off && temperature >= upper:
		return Decision{Previous: current, Next: On, Action: TurnOn}
	case temperature <= lower:
		return Decision{Previous: current, Next: Off, Action: TurnOff}
	default:
		return Decision{Previous: current, Next: current, Action: Hold}
	}
}

// Decide returns the next fan state for the given inputs.
func Decide(current State, temperature Temperature, threshold, variance int) State {
	return Evaluate(current, temperature, threshold, variance).Next
}
