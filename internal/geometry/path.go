package geometry

import "math"

// PathLength returns the summed segment length of path.
func PathLength(path []Point) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1], path[i]).Euclidean
	}
	return total
}

// Centroid returns the arithmetic mean of the points.
func Centroid(path []Point) Point {
	if len(path) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range path {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(path))
	return Point{X: sx / n, Y: sy / n}
}

// BoundingBox returns the smallest rectangle containing every point.
func BoundingBox(path []Point) Rect {
	if len(path) == 0 {
		return Rect{}
	}
	minX, maxX := path[0].X, path[0].X
	minY, maxY := path[0].Y, path[0].Y
	for _, p := range path[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{
		Position:   Point{X: minX, Y: minY},
		Dimensions: Dimensions{Width: maxX - minX, Height: maxY - minY},
	}
}

// ResamplePath returns n points spaced equally along the arc length of path.
// The first and last points of the result coincide with those of path.
func ResamplePath(path []Point, n int) []Point {
	if len(path) == 0 || n <= 0 {
		return nil
	}
	if len(path) == 1 || n == 1 {
		out := make([]Point, n)
		for i := range out {
			out[i] = path[0]
		}
		return out
	}

	total := PathLength(path)
	if total == 0 {
		out := make([]Point, n)
		for i := range out {
			out[i] = path[0]
		}
		return out
	}

	interval := total / float64(n-1)
	out := make([]Point, 0, n)
	out = append(out, path[0])

	var acc float64
	prev := path[0]
	for i := 1; i < len(path) && len(out) < n; i++ {
		cur := path[i]
		d := Distance(prev, cur).Euclidean
		for d > 0 && acc+d >= interval && len(out) < n {
			t := (interval - acc) / d
			q := Point{X: prev.X + t*(cur.X-prev.X), Y: prev.Y + t*(cur.Y-prev.Y)}
			out = append(out, q)
			prev = q
			d = Distance(prev, cur).Euclidean
			acc = 0
		}
		acc += d
		prev = cur
	}

	// Float error can leave the last slot empty.
	for len(out) < n {
		out = append(out, path[len(path)-1])
	}
	out[n-1] = path[len(path)-1]
	return out
}

// IndicativeAngle is the angle of the vector from the centroid to the first point.
func IndicativeAngle(path []Point) float64 {
	if len(path) == 0 {
		return 0
	}
	c := Centroid(path)
	return math.Atan2(path[0].Y-c.Y, path[0].X-c.X)
}

// RotateBy rotates every point by theta radians around the centroid.
func RotateBy(path []Point, theta float64) []Point {
	c := Centroid(path)
	cos, sin := math.Cos(theta), math.Sin(theta)
	out := make([]Point, len(path))
	for i, p := range path {
		dx, dy := p.X-c.X, p.Y-c.Y
		out[i] = Point{
			X: dx*cos - dy*sin + c.X,
			Y: dx*sin + dy*cos + c.Y,
		}
	}
	return out
}

// ScaleToUnit scales the path non-uniformly so its bounding box is 1x1.
// Degenerate axes are left unscaled.
func ScaleToUnit(path []Point) []Point {
	box := BoundingBox(path)
	sx, sy := 1.0, 1.0
	if box.Dimensions.Width > 1e-9 {
		sx = 1 / box.Dimensions.Width
	}
	if box.Dimensions.Height > 1e-9 {
		sy = 1 / box.Dimensions.Height
	}
	out := make([]Point, len(path))
	for i, p := range path {
		out[i] = Point{X: p.X * sx, Y: p.Y * sy}
	}
	return out
}

// TranslateTo moves the path so its centroid sits at target.
func TranslateTo(path []Point, target Point) []Point {
	c := Centroid(path)
	out := make([]Point, len(path))
	for i, p := range path {
		out[i] = Point{X: p.X + target.X - c.X, Y: p.Y + target.Y - c.Y}
	}
	return out
}

// NormalizePath resamples path to n points, rotates it so its indicative
// angle is zero, scales it to a unit bounding box and moves its centroid to
// the origin, in that order.
func NormalizePath(path []Point, n int) []Point {
	pts := ResamplePath(path, n)
	if len(pts) == 0 {
		return nil
	}
	pts = RotateBy(pts, -IndicativeAngle(pts))
	pts = ScaleToUnit(pts)
	return TranslateTo(pts, Point{})
}

// PathDistance is the mean distance between corresponding points.
// Paths of different length are compared over their common prefix.
func PathDistance(a, b []Point) float64 {
	d := DistancesBetween(a, b)
	if len(d) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, v := range d {
		sum += v
	}
	return sum / float64(len(d))
}
