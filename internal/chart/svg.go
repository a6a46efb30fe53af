// Package chart renders the Benford observed-vs-expected comparison as
// self-contained SVG markup. Layout is deterministic from the numeric input;
// writing the markup anywhere is the caller's concern.
package chart

import (
	"fmt"
	"strings"
)

const (
	width  = 900.0
	height = 500.0
	margin = 60.0

	barFill   = "#4C78A8"
	lineColor = "#F58518"
	gridColor = "#E0E0E0"
)

// RenderSVG draws one bar per digit for the observed proportions and a
// connected line-with-markers overlay for the expected proportions. The
// vertical scale is normalized to the maximum across both series with a
// small floor so an all-zero input still renders.
func RenderSVG(digits []int, observed, expected []float64) string {
	chartWidth := width - 2*margin
	chartHeight := height - 2*margin

	maxValue := 0.01
	for _, v := range observed {
		if v > maxValue {
			maxValue = v
		}
	}
	for _, v := range expected {
		if v > maxValue {
			maxValue = v
		}
	}

	slots := len(digits) - 1
	if slots < 1 {
		slots = 1
	}
	xPos := func(i int) float64 {
		return margin + float64(i)*(chartWidth/float64(slots))
	}
	yPos := func(v float64) float64 {
		return height - margin - (v/maxValue)*chartHeight
	}

	barWidth := chartWidth / float64(len(digits)) * 0.6

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f">`+"\n", width, height)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>` + "\n")
	fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" text-anchor="middle" font-family="Arial" font-size="18">Benford&#39;s Law Analysis</text>`+"\n",
		width/2, margin/2)

	for i, digit := range digits {
		barX := margin + float64(i)*(chartWidth/float64(len(digits))) + barWidth*0.2
		barHeight := (observed[i] / maxValue) * chartHeight
		barY := height - margin - barHeight
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" opacity="0.85"/>`+"\n",
			barX, barY, barWidth, barHeight, barFill)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial" font-size="12">%d</text>`+"\n",
			barX+barWidth/2, height-margin/2, digit)
	}

	points := make([]string, len(digits))
	for i := range digits {
		points[i] = fmt.Sprintf("%.2f,%.2f", xPos(i), yPos(expected[i]))
	}
	fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		strings.Join(points, " "), lineColor)
	for i := range digits {
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="4" fill="%s"/>`+"\n",
			xPos(i), yPos(expected[i]), lineColor)
	}

	for tick := 0; tick <= 5; tick++ {
		value := maxValue * float64(tick) / 5
		y := yPos(value)
		fmt.Fprintf(&b, `<line x1="%.0f" y1="%.2f" x2="%.0f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
			margin, y, width-margin, y, gridColor)
		fmt.Fprintf(&b, `<text x="%.0f" y="%.2f" text-anchor="end" font-family="Arial" font-size="12">%.2f</text>`+"\n",
			margin-10, y+4, value)
	}

	fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" text-anchor="middle" font-family="Arial" font-size="14">Leading Digit</text>`+"\n",
		width/2, height-10)
	fmt.Fprintf(&b, `<text x="20" y="%.0f" text-anchor="middle" font-family="Arial" font-size="14" transform="rotate(-90 20,%.0f)">Proportion</text>`+"\n",
		height/2, height/2)
	b.WriteString("</svg>")

	return b.String()
}
