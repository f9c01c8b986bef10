// Package drift maintains rolling per-axis baselines over trailing history
// and classifies how far a new signature deviates from them. The package is
// stateless given a window: classifying the same signature against the same
// history twice yields the same result.
package drift

import (
	"math"
	"sort"

	"github.com/digitalpulpit/pulpit/internal/model"
)

// Detector classifies signatures against rolling baselines.
type Detector struct {
	cfg model.DriftConfig
}

// NewDetector creates a new drift detector.
func NewDetector(cfg model.DriftConfig) *Detector {
	return &Detector{cfg: cfg}
}

// ComputeBaseline computes mean, sample standard deviation and sample size
// for one axis over a history window. History selection (time- or
// count-bounded) is the caller's concern.
func ComputeBaseline(history []model.Signature, axis string) model.Baseline {
	var vals []float64
	for i := range history {
		if v, ok := history[i].AxisScores[axis]; ok {
			vals = append(vals, v)
		}
	}
	b := model.Baseline{Axis: axis, N: len(vals)}
	if len(vals) == 0 {
		return b
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	b.Mean = sum / float64(len(vals))
	if len(vals) >= 2 {
		variance := 0.0
		for _, v := range vals {
			d := v - b.Mean
			variance += d * d
		}
		b.StdDev = math.Sqrt(variance / float64(len(vals)-1))
	}
	return b
}

// ComputeBaselines computes baselines for every named axis.
func ComputeBaselines(history []model.Signature, axes []string) map[string]model.Baseline {
	out := make(map[string]model.Baseline, len(axes))
	for _, axis := range axes {
		out[axis] = ComputeBaseline(history, axis)
	}
	return out
}

// Classify derives the per-axis and aggregate drift verdict for a signature.
// Axes whose baseline is insufficient (too few samples, or stddev at or
// below epsilon) classify as insufficient_history and produce no z-score;
// that state is never conflated with stable. The aggregate verdict is the
// maximum severity across axes.
func (d *Detector) Classify(sig *model.Signature, baselines map[string]model.Baseline) model.DriftClassification {
	cls := model.DriftClassification{
		TranscriptID: sig.TranscriptID,
		Level:        model.DriftInsufficient,
		AxisLevels:   make(map[string]model.DriftLevel, len(sig.AxisScores)),
		AxisZ:        make(map[string]float64),
		Baselines:    baselines,
	}

	axes := make([]string, 0, len(sig.AxisScores))
	for axis := range sig.AxisScores {
		axes = append(axes, axis)
	}
	sort.Strings(axes)

	for _, axis := range axes {
		b := baselines[axis]
		if !b.Sufficient(d.cfg.MinSamples, d.cfg.StdEpsilon) {
			cls.AxisLevels[axis] = model.DriftInsufficient
			continue
		}
		z := (sig.AxisScores[axis] - b.Mean) / b.StdDev
		cls.AxisZ[axis] = z
		level := d.band(math.Abs(z))
		cls.AxisLevels[axis] = level
		cls.Level = model.MaxDriftLevel(cls.Level, level)
		if math.Abs(z) > cls.MaxAbsZ {
			cls.MaxAbsZ = math.Abs(z)
		}
	}

	return cls
}

func (d *Detector) band(absZ float64) model.DriftLevel {
	switch {
	case absZ >= d.cfg.AnomalyZ:
		return model.DriftAnomaly
	case absZ >= d.cfg.StrongZ:
		return model.DriftStrong
	case absZ >= d.cfg.ModerateZ:
		return model.DriftModerate
	default:
		return model.DriftStable
	}
}
