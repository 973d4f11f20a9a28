// Package style generates the stylesheet for highlight spans.
package style

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
)

// Alpha is the opacity of every highlight colour.
const Alpha = 0.5

// Reset is applied to every highlight class so spans do not change layout.
const Reset = "display:inline!important;margin:0!important;padding:0!important;border:0!important;" +
	"outline:0!important;font-size:100%!important;vertical-align:baseline!important;"

// RGB is an opaque colour.
type RGB struct{ R, G, B int }

// Fixed category colours.
var (
	ColorKnown         = RGB{221, 255, 208}
	ColorCurrent       = RGB{140, 255, 120}
	ColorManuallyKnown = RGB{208, 255, 255}
	ColorManuallySeen  = RGB{255, 192, 255}
	ColorMissing       = RGB{190, 190, 190}
)

// Endpoints of the not-yet-known gradient.
var (
	GradientFrom = RGB{255, 255, 128}
	GradientTo   = RGB{255, 128, 128}
)

// Gradient returns the colour of bucket step out of steps, interpolated
// linearly from GradientFrom to GradientTo and truncated.
func Gradient(step, steps int) RGB {
	t := 0.0
	if steps > 1 {
		t = float64(step) / float64(steps-1)
	}
	mix := func(a, b int) int { return int(float64(a)*(1-t) + float64(b)*t) }
	return RGB{
		R: mix(GradientFrom.R, GradientTo.R),
		G: mix(GradientFrom.G, GradientTo.G),
		B: mix(GradientFrom.B, GradientTo.B),
	}
}

// Color returns the background colour of c. ok is false for None.
func Color(c classify.Category, steps int) (RGB, bool) {
	switch c {
	case classify.Known:
		return ColorKnown, true
	case classify.Current:
		return ColorCurrent, true
	case classify.ManuallyKnown:
		return ColorManuallyKnown, true
	case classify.ManuallySeen:
		return ColorManuallySeen, true
	case classify.Missing:
		return ColorMissing, true
	}
	if k, ok := c.Step(); ok {
		return Gradient(k, steps), true
	}
	return RGB{}, false
}

func (c RGB) rgba() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, Alpha)
}

// CSS returns one rule per category a classifier with steps buckets can
// produce, using the class names of a SpanMarker with prefix.
func CSS(steps int, prefix string) string {
	if steps < 1 {
		steps = classify.DefaultStepCount
	}
	m := markup.SpanMarker{Prefix: prefix}

	var sb strings.Builder
	for _, c := range classify.Categories(steps) {
		col, _ := Color(c, steps)
		fmt.Fprintf(&sb, ".%s { %s background-color: %s !important; }\n", m.Class(c), Reset, col.rgba())
	}
	return sb.String()
}
