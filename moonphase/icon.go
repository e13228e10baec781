package moonphase

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// DefaultSize is used for icons without a usable size
const DefaultSize = 24

// Icon is a square SVG rendition of a moon phase. The lit part is filled with Color, the disc is outlined with it.
type Icon struct {
	Phase Phase
	Size  float64
	Color string
}

// Rect is an axis aligned bounding box in icon coordinates, y grows downwards
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewIcon returns the icon for a phase
func NewIcon(p Phase, size float64, color string) Icon {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		size = DefaultSize
	}
	if color == "" {
		color = "currentColor"
	}
	return Icon{
		Phase: p,
		Size:  size,
		Color: color,
	}
}

func (i Icon) strokeWidth() float64 {
	return i.Size / 24
}

func (i Icon) center() float64 {
	return i.Size / 2
}

// radius keeps the outline inside the box
func (i Icon) radius() float64 {
	return i.Size/2 - i.strokeWidth()/2
}

// litRight is true if the lit limb is on the right, as seen from the northern hemisphere
func (i Icon) litRight() bool {
	return i.Phase.Waxing()
}

// terminator returns the horizontal radius of the terminator ellipse and if it bulges towards the lit limb.
// A radius of zero is a straight line through the center.
func (i Icon) terminator() (float64, bool) {
	r := i.radius()
	switch i.Phase {
	case WaxingCrescent, WaningCrescent:
		return r / 2, true
	case WaxingGibbous, WaningGibbous:
		return r / 2, false
	}
	return 0, false
}

// Filled reports if the icon has a lit area
func (i Icon) Filled() bool {
	return i.Phase != NewMoon
}

// Path returns the SVG path data of the lit area. For the new moon it's the outline of the disc.
func (i Icon) Path() string {
	c, r := i.center(), i.radius()
	if i.Phase == NewMoon || i.Phase == FullMoon {
		return fmt.Sprintf("M %s %s A %s %s 0 1 0 %s %s A %s %s 0 1 0 %s %s Z",
			num(c-r), num(c), num(r), num(r), num(c+r), num(c), num(r), num(r), num(c-r), num(c))
	}

	// Limb from top to bottom around the lit side, then the terminator back up
	limbSweep := 0
	if i.litRight() {
		limbSweep = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s A %s %s 0 0 %d %s %s ", num(c), num(c-r), num(r), num(r), limbSweep, num(c), num(c+r))

	rx, towardLit := i.terminator()
	if rx == 0 {
		fmt.Fprintf(&b, "L %s %s Z", num(c), num(c-r))
		return b.String()
	}
	terminatorSweep := 1
	if towardLit == i.litRight() {
		terminatorSweep = 0
	}
	fmt.Fprintf(&b, "A %s %s 0 0 %d %s %s Z", num(rx), num(r), terminatorSweep, num(c), num(c-r))
	return b.String()
}

// Bounds returns the bounding box of the lit area, or of the outline for the new moon
func (i Icon) Bounds() Rect {
	c, r := i.center(), i.radius()
	disc := Rect{MinX: c - r, MinY: c - r, MaxX: c + r, MaxY: c + r}
	if i.Phase == NewMoon || i.Phase == FullMoon {
		return disc
	}

	rx, towardLit := i.terminator()
	inner := c
	if towardLit {
		inner += rx
	} else {
		inner -= rx
	}
	if i.litRight() {
		disc.MinX = inner
		return disc
	}
	// Mirror of the waxing shape across the vertical axis
	disc.MaxX = i.Size - inner
	return disc
}

// SVG returns an inline SVG fragment of the icon
func (i Icon) SVG() string {
	c, r := i.center(), i.radius()
	color := html.EscapeString(i.Color)
	name := html.EscapeString(i.Phase.String())

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" role="img" aria-label="%s">`,
		num(i.Size), num(i.Size), num(i.Size), num(i.Size), name)
	fmt.Fprintf(&b, `<title>%s</title>`, name)
	fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		num(c), num(c), num(r), color, num(i.strokeWidth()))
	if i.Filled() {
		fmt.Fprintf(&b, `<path d="%s" fill="%s"/>`, i.Path(), color)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func num(v float64) string {
	v = math.Round(v*1000) / 1000
	// No negative zero in the output
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
