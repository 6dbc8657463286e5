package viz

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
)

// Camera projects world positions onto the canvas. The view is
// orthographic, centred on Center and rotated about the X then Y axis.
type Camera struct {
	Center     nbody.Point
	Extent     float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(1e3, c.Zoom*1.25) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(1e-3, c.Zoom/1.25) }

// Fit centres the view on the centre of mass and grows Extent to cover
// every body. Extent never shrinks, so escaping bodies zoom the view out
// instead of making it jitter.
func (c *Camera) Fit(particles []nbody.Particle) {
	if len(particles) == 0 {
		return
	}

	var total float64
	var com nbody.Vector
	for _, p := range particles {
		total += p.Mass
		com = com.Add(p.Position.Sub(nbody.Point{}).Scale(p.Mass))
	}
	c.Center = nbody.Point{}.Add(com.Scale(1 / total))

	for _, p := range particles {
		if d := p.Position.Distance(c.Center); d > c.Extent && !math.IsInf(d, 0) && !math.IsNaN(d) {
			c.Extent = d
		}
	}
}

// Reset forgets the fitted extent and rotation.
func (c *Camera) Reset() {
	*c = Camera{Zoom: 1}
}

func (c *Camera) rotate(v nbody.Vector) nbody.Vector {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	v.Y, v.Z = v.Y*cx-v.Z*sx, v.Y*sx+v.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	v.X, v.Z = v.X*cy+v.Z*sy, -v.X*sy+v.Z*cy
	return v
}

// Project maps p onto a pw x ph pixel area. The last result reports
// whether the point falls inside it.
func (c *Camera) Project(p nbody.Point, pw, ph int) (int, int, bool) {
	extent := c.Extent
	if extent == 0 {
		extent = 1
	}
	half := float64(min(pw, ph)) / 2 * 0.9
	scale := half * c.Zoom / extent

	v := c.rotate(p.Sub(c.Center))
	fx := float64(pw)/2 + v.X*scale
	fy := float64(ph)/2 - v.Y*scale
	if math.IsNaN(fx) || math.IsNaN(fy) || math.Abs(fx) > 1e9 || math.Abs(fy) > 1e9 {
		return 0, 0, false
	}

	x, y := int(math.Floor(fx)), int(math.Floor(fy))
	return x, y, x >= 0 && x < pw && y >= 0 && y < ph
}
