package drift

import (
	"math"
	"sort"

	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/model"
)

// imbalanceThreshold is how far an axis must lean before it becomes a tension.
const imbalanceThreshold = 0.45

// driftTensionZ is the |z| at which a deviation becomes a tension on its own.
const driftTensionZ = 2.0

// BuildHooks derives conversation hooks from a signature's axis scores and
// z-scores: the dominant emphasis, visible imbalances and drift, plus
// reflection questions for a human reviewer.
func BuildHooks(axisScores, axisZ map[string]float64, lex *lexicon.Lexicon) model.Hooks {
	hooks := model.Hooks{
		Tensions:  []model.Tension{},
		Questions: []string{},
	}

	axes := make([]string, 0, len(axisScores))
	for axis := range axisScores {
		axes = append(axes, axis)
	}
	sort.Strings(axes)

	domAxis := ""
	domVal := 0.0
	for _, axis := range axes {
		if math.Abs(axisScores[axis]) > math.Abs(domVal) {
			domAxis, domVal = axis, axisScores[axis]
		}
	}
	if domAxis != "" {
		hooks.DominantAxis = domAxis
		hooks.DominantStrength = domVal
		if def, ok := lex.Axis(domAxis); ok {
			if domVal >= 0 {
				hooks.DominantDirection = def.Positive
			} else {
				hooks.DominantDirection = def.Negative
			}
		}
	}

	for _, axis := range axes {
		v := axisScores[axis]
		if math.Abs(v) < imbalanceThreshold {
			continue
		}
		def, ok := lex.Axis(axis)
		if !ok {
			continue
		}
		favored, disfavored := def.Positive, def.Negative
		if v < 0 {
			favored, disfavored = def.Negative, def.Positive
		}
		hooks.Tensions = append(hooks.Tensions, model.Tension{
			Type:       "imbalance",
			Axis:       axis,
			Favored:    favored,
			Disfavored: disfavored,
			AxisScore:  v,
		})
	}

	zAxes := make([]string, 0, len(axisZ))
	for axis := range axisZ {
		zAxes = append(zAxes, axis)
	}
	sort.Strings(zAxes)
	for _, axis := range zAxes {
		if math.Abs(axisZ[axis]) >= driftTensionZ {
			hooks.Tensions = append(hooks.Tensions, model.Tension{
				Type: "drift",
				Axis: axis,
				Z:    axisZ[axis],
				Note: "axis deviated strongly from channel baseline",
			})
		}
	}

	hasDrift := false
	hasImbalance := false
	for _, t := range hooks.Tensions {
		switch t.Type {
		case "drift":
			hasDrift = true
		case "imbalance":
			hasImbalance = true
		}
	}
	if domAxis != "" {
		hooks.Questions = append(hooks.Questions,
			"Is this emphasis a one-off sermon topic, or a directional shift for this channel?")
	}
	if hasDrift {
		hooks.Questions = append(hooks.Questions,
			"What changed recently (series, season, leadership, audience context) that could explain this deviation?")
	}
	if hasImbalance {
		hooks.Questions = append(hooks.Questions,
			"Does this imbalance clarify the gospel, or risk distorting it by omission?")
	}

	return hooks
}
