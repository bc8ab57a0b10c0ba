package canvas

import (
	"image"
	"image/color"
	"math"
	"math/big"
)

// capsule is an alpha mask covering every pixel whose centre lies within r
// of the segment a-b. Stamping consecutive capsules gives round caps and
// round joins.
type capsule struct {
	ax, ay, bx, by float64
	r              float64
}

// newCapsule makes the mask for a-b, cut down to the part that can touch
// within. It reports false when no part can.
func newCapsule(a, b image.Point, r float64, within image.Rectangle) (*capsule, bool) {
	box := within.Inset(-(int(math.Ceil(r)) + 1))
	ax, ay, bx, by, ok := clip(a, b, box)
	if !ok {
		return nil, false
	}
	return &capsule{ax: ax, ay: ay, bx: bx, by: by, r: r}, true
}

// clip trims a-b to box (Liang-Barsky). Points may be anywhere in int range,
// past float64 precision, so it works in exact rationals.
func clip(a, b image.Point, box image.Rectangle) (ax, ay, bx, by float64, ok bool) {
	x0, y0 := ratOf(a.X), ratOf(a.Y)
	dx := new(big.Rat).Sub(ratOf(b.X), x0)
	dy := new(big.Rat).Sub(ratOf(b.Y), y0)

	t0, t1 := new(big.Rat), big.NewRat(1, 1)
	edges := [4][2]*big.Rat{
		{new(big.Rat).Neg(dx), new(big.Rat).Sub(x0, ratOf(box.Min.X))},
		{dx, new(big.Rat).Sub(ratOf(box.Max.X), x0)},
		{new(big.Rat).Neg(dy), new(big.Rat).Sub(y0, ratOf(box.Min.Y))},
		{dy, new(big.Rat).Sub(ratOf(box.Max.Y), y0)},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p.Sign() == 0 {
			if q.Sign() < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := new(big.Rat).Quo(q, p)
		if p.Sign() < 0 {
			if t.Cmp(t1) > 0 {
				return 0, 0, 0, 0, false
			}
			if t.Cmp(t0) > 0 {
				t0 = t
			}
		} else {
			if t.Cmp(t0) < 0 {
				return 0, 0, 0, 0, false
			}
			if t.Cmp(t1) < 0 {
				t1 = t
			}
		}
	}

	along := func(start, d, t *big.Rat) float64 {
		v := new(big.Rat).Mul(d, t)
		f, _ := v.Add(v, start).Float64()
		return f
	}
	return along(x0, dx, t0), along(y0, dy, t0), along(x0, dx, t1), along(y0, dy, t1), true
}

func ratOf(v int) *big.Rat {
	return new(big.Rat).SetInt64(int64(v))
}

func (c *capsule) ColorModel() color.Model {
	return color.AlphaModel
}

func (c *capsule) Bounds() image.Rectangle {
	pad := math.Ceil(c.r) + 1
	return image.Rect(
		int(math.Floor(math.Min(c.ax, c.bx)-pad)),
		int(math.Floor(math.Min(c.ay, c.by)-pad)),
		int(math.Ceil(math.Max(c.ax, c.bx)+pad)),
		int(math.Ceil(math.Max(c.ay, c.by)+pad)),
	)
}

func (c *capsule) At(x, y int) color.Color {
	if c.dist2(float64(x), float64(y)) <= c.r*c.r {
		return color.Alpha{255}
	}
	return color.Alpha{0}
}

// dist2 is the squared distance from the pixel at x,y to the segment,
// measured between pixel centres.
func (c *capsule) dist2(x, y float64) float64 {
	dx, dy := c.bx-c.ax, c.by-c.ay
	px, py := x-c.ax, y-c.ay

	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = (px*dx + py*dy) / l2
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	ex, ey := px-t*dx, py-t*dy
	return ex*ex + ey*ey
}
