package conditioner

import (
	"math"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
)

// maxAlpha keeps the filter from freezing when smoothing is configured at or above 1.
const maxAlpha = 0.99

// FilterState holds the six running smoothed axis values, in AxisSample order.
type FilterState [6]float64

// Sample returns the state as an AxisSample.
func (s FilterState) Sample() common.AxisSample {
	return common.AxisSampleFromAxes(s)
}

// Output is the result of one conditioning step.
type Output struct {
	// Sample is the conditioned, shaped sample. It is all zeros when Motion is false.
	Sample common.AxisSample
	// Motion is false when the smoothed magnitude fell under the motion epsilon and callers should skip camera work.
	Motion bool
}

// Condition runs one raw sample through the sanitize, remap, deadzone, dominant-axis, smoothing,
// near-zero cutoff and velocity shaping stages.
//
// Parameters:
//   - raw: the device sample for this tick
//   - state: the filter state from the previous tick
//   - cfg: navigation parameters
//
// Returns:
//   - Output: the conditioned sample and motion flag
//   - FilterState: the updated filter state
func Condition(raw common.AxisSample, state FilterState, cfg config.Config) (Output, FilterState) {
	v := Remap(Sanitize(raw, cfg.AxisRange), cfg).Axes()
	for i := range v {
		v[i] = Deadzone(v[i], cfg.Deadzone, cfg.DeadzoneNormalize, cfg.AxisRange)
	}
	if cfg.DominantAxis {
		v = Dominant(v)
	}

	alpha := common.Clamp(cfg.Smoothing, 0, maxAlpha)
	for i := range state {
		state[i] = alpha*state[i] + (1-alpha)*v[i]
	}
	return shape(state, cfg), state
}

// Decay runs the idle pass for a tick with no raw sample: every state value is multiplied by the
// decay factor and snaps to zero once it drops under the motion epsilon.
//
// Parameters:
//   - state: the filter state from the previous tick
//   - cfg: navigation parameters
//
// Returns:
//   - Output: the residual motion, if any
//   - FilterState: the decayed filter state
func Decay(state FilterState, cfg config.Config) (Output, FilterState) {
	k := common.Clamp(cfg.DecayFactor(), 0, maxAlpha)
	for i := range state {
		if math.Abs(state[i]) > cfg.MotionEpsilon {
			state[i] *= k
		} else {
			state[i] = 0
		}
	}
	return shape(state, cfg), state
}

// shape applies the near-zero cutoff and velocity shaping to a smoothed state.
func shape(state FilterState, cfg config.Config) Output {
	var total float64
	for _, s := range state {
		total += math.Abs(s)
	}
	if !(total >= cfg.MotionEpsilon) || total == 0 {
		return Output{}
	}

	out := state
	if cfg.VelocityExponent > 1 {
		fullScale := cfg.AxisRange
		if cfg.DeadzoneNormalize {
			fullScale = 1
		}
		for i := range out {
			out[i] = Shape(out[i], cfg.VelocityExponent, fullScale)
		}
	}
	return Output{Sample: common.AxisSampleFromAxes(out), Motion: true}
}

// Sanitize zeroes non-finite axes and clamps the others to ±axisRange, so one bad reading cannot
// poison the running filter state.
//
// Parameters:
//   - raw: the device sample
//   - axisRange: the full-scale axis value, no clamp when <= 0
//
// Returns:
//   - common.AxisSample: the sanitized sample
func Sanitize(raw common.AxisSample, axisRange float64) common.AxisSample {
	v := raw.Axes()
	for i := range v {
		switch {
		case math.IsNaN(v[i]) || math.IsInf(v[i], 0):
			v[i] = 0
		case axisRange > 0:
			v[i] = common.Clamp(v[i], -axisRange, axisRange)
		}
	}
	return common.AxisSampleFromAxes(v)
}

// Remap applies the Y/Z flip and per-axis inversion to a raw sample.
//
// Parameters:
//   - raw: the device sample
//   - cfg: navigation parameters
//
// Returns:
//   - common.AxisSample: the remapped sample
func Remap(raw common.AxisSample, cfg config.Config) common.AxisSample {
	s := raw
	if cfg.FlipYZ {
		s.TY, s.TZ = raw.TZ, -raw.TY
		s.RY, s.RZ = raw.RZ, -raw.RY
	}
	invert := func(v *float64, on bool) {
		if on {
			*v = -*v
		}
	}
	invert(&s.TX, cfg.InvertTX)
	invert(&s.TY, cfg.InvertTY)
	invert(&s.TZ, cfg.InvertTZ)
	invert(&s.RX, cfg.InvertRX)
	invert(&s.RY, cfg.InvertRY)
	invert(&s.RZ, cfg.InvertRZ)
	return s
}

// Deadzone removes values under dz and shifts the rest toward zero so the response starts at 0
// past the threshold. With normalize set the excess is divided by (axisRange - dz).
//
// Parameters:
//   - v: the axis value
//   - dz: the deadzone threshold
//   - normalize: rescale the excess into the unit range
//   - axisRange: full-scale axis value used when normalizing
//
// Returns:
//   - float64: the filtered value, same sign as v or zero
func Deadzone(v, dz float64, normalize bool, axisRange float64) float64 {
	a := math.Abs(v)
	if a < dz || a == 0 {
		return 0
	}
	out := a - dz
	if normalize && axisRange > dz {
		out /= axisRange - dz
	}
	return math.Copysign(out, v)
}

// Dominant zeroes whichever of the translation and rotation groups has the smaller summed
// magnitude. Translation wins ties.
//
// Parameters:
//   - v: axis values in AxisSample order
//
// Returns:
//   - [6]float64: the arbitrated values
func Dominant(v [6]float64) [6]float64 {
	trans := math.Abs(v[0]) + math.Abs(v[1]) + math.Abs(v[2])
	rot := math.Abs(v[3]) + math.Abs(v[4]) + math.Abs(v[5])
	if rot > trans {
		v[0], v[1], v[2] = 0, 0, 0
	} else {
		v[3], v[4], v[5] = 0, 0, 0
	}
	return v
}

// Shape applies the velocity curve sign(v)·|v|^p. The curve is evaluated on v/axisRange and
// scaled back so full-scale input keeps its magnitude and sensitivities stay in device units.
//
// Parameters:
//   - v: the smoothed axis value
//   - p: the curve exponent, values <= 1 pass v through
//   - axisRange: full-scale axis value
//
// Returns:
//   - float64: the shaped value
func Shape(v, p, axisRange float64) float64 {
	if p <= 1 || v == 0 {
		return v
	}
	if axisRange <= 0 {
		return math.Copysign(math.Pow(math.Abs(v), p), v)
	}
	return math.Copysign(axisRange*math.Pow(math.Abs(v)/axisRange, p), v)
}
