package reporting

import (
	"fmt"
	"html/template"
	"strings"

	"surveyclean/pkg/contracts/domain"
)

// Chart geometry constants. Width grows with the category count so
// labels stay readable on wide datasets.
const (
	chartHeight    = 360
	chartPadTop    = 60
	chartPadBottom = 70
	chartPadLeft   = 60
	chartPadRight  = 20
	groupWidth     = 110
	gridLines      = 5
)

// seriesColors cycles across chart series
var seriesColors = []string{"#636efa", "#ef553b", "#00cc96", "#ab63fa"}

// renderChartSVG renders a grouped bar chart as inline SVG so the
// report stays a single self-contained document
func renderChartSVG(spec *domain.ChartSpec) template.HTML {
	if spec == nil || len(spec.Categories) == 0 || len(spec.Series) == 0 {
		return ""
	}

	width := chartPadLeft + chartPadRight + groupWidth*len(spec.Categories)
	plotHeight := chartHeight - chartPadTop - chartPadBottom

	maxValue := 0.0
	for _, s := range spec.Series {
		for _, v := range s.Values {
			if v > maxValue {
				maxValue = v
			}
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="sans-serif">`, width, chartHeight)
	fmt.Fprintf(&b, `<text x="%d" y="30" font-size="16" fill="#333">%s</text>`, chartPadLeft, template.HTMLEscapeString(spec.Title))

	// Horizontal grid lines with axis labels
	for g := 0; g <= gridLines; g++ {
		value := maxValue * float64(g) / gridLines
		y := float64(chartPadTop+plotHeight) - float64(plotHeight)*float64(g)/gridLines
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#e5e5e5"/>`,
			chartPadLeft, y, width-chartPadRight, y)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-size="11" fill="#666" text-anchor="end">%s</text>`,
			chartPadLeft-8, y+4, formatEstimate(value))
	}

	barWidth := float64(groupWidth-30) / float64(len(spec.Series))
	for ci, category := range spec.Categories {
		groupX := float64(chartPadLeft + ci*groupWidth + 15)
		for si, s := range spec.Series {
			if ci >= len(s.Values) {
				continue
			}
			v := s.Values[ci]
			h := float64(plotHeight) * v / maxValue
			if h < 0 {
				h = 0
			}
			x := groupX + float64(si)*barWidth
			y := float64(chartPadTop+plotHeight) - h
			fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s: %s</title></rect>`,
				x, y, barWidth-4, h, seriesColors[si%len(seriesColors)],
				template.HTMLEscapeString(s.Name), formatEstimate(v))
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="12" fill="#333" text-anchor="middle">%s</text>`,
			groupX+float64(groupWidth-30)/2, chartPadTop+plotHeight+25,
			template.HTMLEscapeString(category))
	}

	// Legend
	legendY := chartHeight - 18
	legendX := chartPadLeft
	for si, s := range spec.Series {
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`,
			legendX, legendY-10, seriesColors[si%len(seriesColors)])
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="#333">%s</text>`,
			legendX+18, legendY, template.HTMLEscapeString(s.Name))
		legendX += 18 + 9*len(s.Name) + 30
	}

	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}
