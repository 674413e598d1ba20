package pipeline

import "time"

// Stage names the phase a progress bar is animating through. The bar is
// simulated from elapsed time because the server reports no granular
// progress; each stage climbs toward a cap it never crosses, and 100 is
// only ever shown by Done.
type Stage int

const (
	StageUpload Stage = iota
	StageRecognize
	StageParse
)

func (s Stage) Label() string {
	switch s {
	case StageUpload:
		return "uploading images"
	case StageRecognize:
		return "recognizing homework"
	case StageParse:
		return "organizing items"
	}
	return "working"
}

// tick is the animation step the rates below are expressed in.
const tick = 100 * time.Millisecond

type stageRange struct {
	base, cap, perTick int
}

var stages = map[Stage]stageRange{
	StageUpload:    {base: 0, cap: 30, perTick: 5},
	StageRecognize: {base: 30, cap: 90, perTick: 2},
	StageParse:     {base: 90, cap: 99, perTick: 5},
}

// Percent maps (stage, elapsed-within-stage) to a display percentage.
// Within a stage the value rises from the stage floor and saturates at
// the stage cap, so progress never moves backwards as stages advance.
func Percent(stage Stage, elapsed time.Duration) int {
	r, ok := stages[stage]
	if !ok {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}
	pct := r.base + int(elapsed/tick)*r.perTick
	if pct > r.cap {
		return r.cap
	}
	return pct
}

// Done is the terminal display value on success. Failure paths never
// show it.
func Done() int { return 100 }

// stage durations implied by the rates above: time to climb from the
// stage floor to its cap.
func (r stageRange) full() time.Duration {
	ticks := (r.cap - r.base + r.perTick - 1) / r.perTick
	return time.Duration(ticks) * tick
}

// StageAt maps total elapsed time since the upload started to the stage
// being animated and the elapsed time within it. The server does one
// opaque call, so stage boundaries are simulated: each stage hands off
// once it has saturated its cap, and the last stage holds at its cap
// until the call returns.
func StageAt(total time.Duration) (Stage, time.Duration) {
	for _, s := range []Stage{StageUpload, StageRecognize} {
		full := stages[s].full()
		if total < full {
			return s, total
		}
		total -= full
	}
	return StageParse, total
}
