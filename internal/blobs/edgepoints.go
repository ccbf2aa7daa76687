package blobs

import "github.com/barrelcam/lightgun-driver/internal/geometry"

// EdgePoints returns the union of the left-most, right-most, top-most,
// and bottom-most foreground pixel per row and per column of blob's
// label, deduplicated (spec.md §4.3 "Edge-point extraction").
func (c *Counter) EdgePoints(blob Blob) ([]geometry.Point, error) {
	if !c.processed {
		return nil, ErrNoImageProcessed
	}

	idx := func(x, y int) int { return y*c.width + x }
	seen := map[geometry.Point]bool{}
	var pts []geometry.Point

	add := func(p geometry.Point) {
		if !seen[p] {
			seen[p] = true
			pts = append(pts, p)
		}
	}

	for y := blob.Rect.MinY; y <= blob.Rect.MaxY; y++ {
		left, right := -1, -1
		for x := blob.Rect.MinX; x <= blob.Rect.MaxX; x++ {
			if c.labels[idx(x, y)] != blob.ID {
				continue
			}
			if left == -1 {
				left = x
			}
			right = x
		}
		if left != -1 {
			add(geometry.Point{X: left, Y: y})
			add(geometry.Point{X: right, Y: y})
		}
	}

	for x := blob.Rect.MinX; x <= blob.Rect.MaxX; x++ {
		top, bottom := -1, -1
		for y := blob.Rect.MinY; y <= blob.Rect.MaxY; y++ {
			if c.labels[idx(x, y)] != blob.ID {
				continue
			}
			if top == -1 {
				top = y
			}
			bottom = y
		}
		if top != -1 {
			add(geometry.Point{X: x, Y: top})
			add(geometry.Point{X: x, Y: bottom})
		}
	}

	return pts, nil
}
