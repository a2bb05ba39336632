package render

import (
	"fmt"
	"math"
	"strings"

	"heart-risk/internal/prediction"
)

const (
	chartSize    = 320.0
	chartRadius  = 110.0
	chartCenter  = chartSize / 2
	captionSpace = 40.0

	// first slice starts at twelve o'clock, slices run counterclockwise
	startAngle = 90.0

	colorAtRisk  = "red"
	colorHealthy = "green"

	ChartCaption = "Illustrative split derived from the predicted label, not a model probability."
)

type slice struct {
	label   string
	color   string
	percent float64
}

// Chart draws the display split as a standalone SVG pie.
func Chart(split prediction.Split) string {
	slices := []slice{
		{label: "At Risk", color: colorAtRisk, percent: float64(split.AtRisk)},
		{label: "Healthy", color: colorHealthy, percent: float64(split.Healthy)},
	}

	var total float64
	for _, s := range slices {
		total += s.percent
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" class="split-chart" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" role="img" aria-label="%s">`,
		chartSize, chartSize+captionSpace, chartSize, chartSize+captionSpace, ChartCaption)

	if total <= 0 {
		b.WriteString(`</svg>`)
		return b.String()
	}

	angle := startAngle
	for _, s := range slices {
		if s.percent <= 0 {
			continue
		}
		sweep := s.percent / total * 360
		writeSlice(&b, s, angle, sweep)
		angle += sweep
	}

	fmt.Fprintf(&b,
		`<text x="%.2f" y="%.2f" text-anchor="middle" font-size="11" font-style="italic">%s</text>`,
		chartCenter, chartSize+captionSpace/2, ChartCaption)
	b.WriteString(`</svg>`)
	return b.String()
}

func writeSlice(b *strings.Builder, s slice, from, sweep float64) {
	if sweep >= 360 {
		fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`,
			chartCenter, chartCenter, chartRadius, s.color)
	} else {
		x0, y0 := polar(from, chartRadius)
		x1, y1 := polar(from+sweep, chartRadius)
		largeArc := 0
		if sweep > 180 {
			largeArc = 1
		}
		// sweep-flag 0 draws the arc counterclockwise on screen
		fmt.Fprintf(b,
			`<path d="M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 0 %.2f %.2f Z" fill="%s"/>`,
			chartCenter, chartCenter, x0, y0, chartRadius, chartRadius, largeArc, x1, y1, s.color)
	}

	mid := from + sweep/2
	px, py := polar(mid, chartRadius*0.6)
	fmt.Fprintf(b,
		`<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" fill="white" font-size="14">%.1f%%</text>`,
		px, py, s.percent)

	lx, ly := polar(mid, chartRadius*1.15)
	anchor := "start"
	if lx < chartCenter {
		anchor = "end"
	}
	fmt.Fprintf(b,
		`<text x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="middle" font-size="13">%s</text>`,
		lx, ly, anchor, s.label)
}

// polar converts an angle in degrees, measured counterclockwise from three o'clock,
// to SVG coordinates where y grows downwards.
func polar(deg, radius float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return chartCenter + radius*math.Cos(rad), chartCenter - radius*math.Sin(rad)
}
