package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

var defaultPieColors = []string{"#0ea5e9", "#f97316", "#22c55e", "#ef4444", "#a855f7", "#eab308"}

// Pie renders a donut chart of named slices. Zero and negative slices are
// skipped; an all-zero input renders an empty ring.
func Pie(size int, values []float64, labels []string, opts PieOpts) (template.HTML, error) {
	if len(values) == 0 || len(values) != len(labels) {
		return "", fmt.Errorf("svg: values and labels must align")
	}
	if size <= 0 {
		size = DefaultHeight
	}

	colors := opts.Colors
	if len(colors) == 0 {
		colors = defaultPieColors
	}
	labelColor := fallback(opts.LabelColor, "#475569")

	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}

	cx := float64(size) / 2
	cy := float64(size) / 2
	radius := float64(size)/2 - 10
	inner := radius * 0.55

	titleID := makeID(opts.Title, "pie-title")
	descID := makeID(opts.Title, "pie-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", size, size, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Pie chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Share by category"))))

	if total <= 0 {
		b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"#e2e8f0\" stroke-width=\"%.2f\"></circle>", cx, cy, (radius+inner)/2, radius-inner))
		b.WriteString("</svg>")
		return template.HTML(b.String()), nil
	}

	angle := -math.Pi / 2
	for i, v := range values {
		if v <= 0 {
			continue
		}
		share := v / total
		end := angle + share*2*math.Pi
		b.WriteString(slicePath(cx, cy, radius, inner, angle, end, colors[i%len(colors)], labels[i]))
		mid := (angle + end) / 2
		lx := cx + math.Cos(mid)*(radius+inner)/2
		ly := cy + math.Sin(mid)*(radius+inner)/2
		if share >= 0.05 {
			b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%.0f%%</text>", lx, ly, labelColor, share*100))
		}
		angle = end
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func slicePath(cx, cy, radius, inner, start, end float64, color, label string) string {
	largeArc := 0
	if end-start > math.Pi {
		largeArc = 1
	}
	x1 := cx + math.Cos(start)*radius
	y1 := cy + math.Sin(start)*radius
	x2 := cx + math.Cos(end)*radius
	y2 := cy + math.Sin(end)*radius
	x3 := cx + math.Cos(end)*inner
	y3 := cy + math.Sin(end)*inner
	x4 := cx + math.Cos(start)*inner
	y4 := cy + math.Sin(start)*inner
	return fmt.Sprintf("<path d=\"M %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 0 %.2f %.2f Z\" fill=\"%s\" aria-label=\"%s\"></path>",
		x1, y1, radius, radius, largeArc, x2, y2, x3, y3, inner, inner, largeArc, x4, y4, color, template.HTMLEscapeString(label))
}
