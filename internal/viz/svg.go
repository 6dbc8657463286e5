package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/nbody"
)

// Track is the sampled path of one body.
type Track struct {
	Name   string
	Points []nbody.Point
}

var trackColors = []string{"#ffd700", "#00ccff", "#ff6b6b", "#5fd068", "#ff9ff3", "#feca57", "#a29bfe", "#ffffff"}

// CanvasSVG converts a Braille canvas to SVG, one circle per dot.
func CanvasSVG(canvas *Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w := float64(canvas.PixelWidth()) * scale
	h := float64(canvas.PixelHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#e0f0ff">
`, w, h, w, h)

	for y := 0; y < canvas.PixelHeight(); y++ {
		for x := 0; x < canvas.PixelWidth(); x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, scale*0.4)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectorySVG draws every track as a polyline on the XY plane. All
// tracks share one scale so relative distances are preserved. Returns ""
// if there is nothing to draw.
func TrajectorySVG(tracks []Track, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	points := 0
	for _, t := range tracks {
		for _, p := range t.Points {
			if !p.IsFinite() {
				continue
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			points++
		}
	}
	if points == 0 {
		return ""
	}

	// Equal scale on both axes, padded by 10%.
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	size := float64(min(width, height))
	toScreen := func(p nbody.Point) (float64, float64) {
		x := float64(width)/2 + (p.X-cx)/span*size
		y := float64(height)/2 - (p.Y-cy)/span*size
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, t := range tracks {
		color := trackColors[i%len(trackColors)]
		var d strings.Builder
		var last nbody.Point
		for _, p := range t.Points {
			if !p.IsFinite() {
				continue
			}
			x, y := toScreen(p)
			if d.Len() == 0 {
				fmt.Fprintf(&d, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
			}
			last = p
		}
		if d.Len() == 0 {
			continue
		}

		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n", color, d.String())
		x, y := toScreen(last)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"><title>%s</title></circle>\n", x, y, color, escapeXML(t.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
