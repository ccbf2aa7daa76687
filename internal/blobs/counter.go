// Package blobs implements the two-pass, union-find connected-component
// labeling the vision pipeline uses to find candidate screen-border
// blobs in a thresholded camera frame (spec.md §4.3).
package blobs

import (
	"errors"
	"math"
)

// ErrNoImageProcessed is returned by Blobs/EdgePoints when called before
// a successful ProcessImage call.
var ErrNoImageProcessed = errors.New("blobs: no image has been processed")

// Blob describes one connected foreground region.
type Blob struct {
	ID         int
	Rect       Rect
	Area       int
	Fullness   float64
	ColourMean [3]float64
	ColourStd  [3]float64
}

// Rect is an axis-aligned integer bounding box, inclusive of Max.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

func (r Rect) W() int { return r.MaxX - r.MinX + 1 }
func (r Rect) H() int { return r.MaxY - r.MinY + 1 }
func (r Rect) Area() int { return r.W() * r.H() }

// Counter runs connected-component labeling over successive frames. A
// single Counter is reused across frames the way the frame processor
// reuses one blob counter per camera loop (spec.md §4.5 step 3).
type Counter struct {
	// Threshold is the per-channel foreground threshold. For Gray8
	// images only Threshold[0] is consulted.
	Threshold [3]byte

	FilterBlobs          bool
	CoupledSizeFiltering bool
	MinW, MaxW           int
	MinH, MaxH           int

	width, height int
	labels        []int // 0 = background, else a dense blob id (1..N)
	blobs         []Blob
	processed     bool
}

// isForeground applies spec.md §4.3's threshold rule: 8-bpp pixels are
// foreground iff they exceed the (single-channel) threshold; colour
// pixels are foreground iff any of R, G, B exceeds its threshold.
func (c *Counter) isForeground(img Image, x, y int) bool {
	r, g, b := img.at(x, y)
	if img.Format == Gray8 {
		return r > c.Threshold[0]
	}
	return r > c.Threshold[0] || g > c.Threshold[1] || b > c.Threshold[2]
}

// ProcessImage labels every connected foreground region in img and
// collects per-blob statistics, applying size filtering if configured.
func (c *Counter) ProcessImage(img Image) error {
	c.processed = false
	switch img.Format {
	case Gray8, RGB24, RGBA32:
	default:
		return ErrUnsupportedFormat
	}
	if img.Width < 2 {
		return ErrTooNarrow
	}

	c.width, c.height = img.Width, img.Height
	c.labels = make([]int, img.Width*img.Height)

	uf := newUnionFind(img.Width * img.Height / 2)
	nextLabel := 0

	idx := func(x, y int) int { return y*img.Width + x }

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if !c.isForeground(img, x, y) {
				continue
			}
			neighbours := make([]int, 0, 4)
			// left, upper-left, upper, upper-right, in that priority.
			if x > 0 && c.labels[idx(x-1, y)] != 0 {
				neighbours = append(neighbours, c.labels[idx(x-1, y)])
			}
			if x > 0 && y > 0 && c.labels[idx(x-1, y-1)] != 0 {
				neighbours = append(neighbours, c.labels[idx(x-1, y-1)])
			}
			if y > 0 && c.labels[idx(x, y-1)] != 0 {
				neighbours = append(neighbours, c.labels[idx(x, y-1)])
			}
			if y > 0 && x < img.Width-1 && c.labels[idx(x+1, y-1)] != 0 {
				neighbours = append(neighbours, c.labels[idx(x+1, y-1)])
			}

			if len(neighbours) == 0 {
				nextLabel++
				uf.add(nextLabel)
				c.labels[idx(x, y)] = nextLabel
				continue
			}

			root := uf.find(neighbours[0])
			for _, n := range neighbours[1:] {
				root = uf.union(root, n)
			}
			c.labels[idx(x, y)] = root
		}
	}

	// Compact raw roots into a dense 1..N range and rewrite the label
	// image (spec.md §4.3: "compact labels to a dense 1..N range and
	// rewrite the label image").
	dense := map[int]int{}
	for i, raw := range c.labels {
		if raw == 0 {
			continue
		}
		root := uf.find(raw)
		id, ok := dense[root]
		if !ok {
			id = len(dense) + 1
			dense[root] = id
		}
		c.labels[i] = id
	}

	c.collectBlobs(img, len(dense))
	if c.FilterBlobs {
		c.applySizeFilter()
	}
	c.processed = true
	return nil
}

func (c *Counter) collectBlobs(img Image, n int) {
	type accum struct {
		rect      Rect
		area      int
		sum       [3]float64
		sumSq     [3]float64
		seen      bool
	}
	accs := make([]accum, n+1)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			id := c.labels[y*img.Width+x]
			if id == 0 {
				continue
			}
			a := &accs[id]
			r, g, b := img.at(x, y)
			if !a.seen {
				a.rect = Rect{MinX: x, MinY: y, MaxX: x, MaxY: y}
				a.seen = true
			} else {
				if x < a.rect.MinX {
					a.rect.MinX = x
				}
				if x > a.rect.MaxX {
					a.rect.MaxX = x
				}
				if y < a.rect.MinY {
					a.rect.MinY = y
				}
				if y > a.rect.MaxY {
					a.rect.MaxY = y
				}
			}
			a.area++
			chans := [3]float64{float64(r), float64(g), float64(b)}
			for i, v := range chans {
				a.sum[i] += v
				a.sumSq[i] += v * v
			}
		}
	}

	c.blobs = c.blobs[:0]
	for id := 1; id <= n; id++ {
		a := accs[id]
		if !a.seen || a.area == 0 {
			continue
		}
		var mean, std [3]float64
		for i := 0; i < 3; i++ {
			mean[i] = a.sum[i] / float64(a.area)
			variance := a.sumSq[i]/float64(a.area) - mean[i]*mean[i]
			if variance < 0 {
				variance = 0
			}
			std[i] = math.Sqrt(variance)
		}
		c.blobs = append(c.blobs, Blob{
			ID:         id,
			Rect:       a.rect,
			Area:       a.area,
			Fullness:   float64(a.area) / float64(a.rect.Area()),
			ColourMean: mean,
			ColourStd:  std,
		})
	}
}

// applySizeFilter drops blobs outside the configured size window and
// renumbers the survivors densely, per spec.md §4.3's "After filtering,
// remap labels densely and renumber blob IDs."
func (c *Counter) applySizeFilter() {
	kept := make([]Blob, 0, len(c.blobs))
	remap := map[int]int{}
	for _, b := range c.blobs {
		w, h := b.Rect.W(), b.Rect.H()
		var reject bool
		if c.CoupledSizeFiltering {
			reject = (w < c.MinW && h < c.MinH) || (w > c.MaxW && h > c.MaxH)
		} else {
			reject = w < c.MinW || w > c.MaxW || h < c.MinH || h > c.MaxH
		}
		if reject {
			continue
		}
		newID := len(kept) + 1
		remap[b.ID] = newID
		b.ID = newID
		kept = append(kept, b)
	}
	for i, id := range c.labels {
		if id == 0 {
			continue
		}
		if newID, ok := remap[id]; ok {
			c.labels[i] = newID
		} else {
			c.labels[i] = 0
		}
	}
	c.blobs = kept
}

// Blobs returns the blobs found by the most recent ProcessImage call.
func (c *Counter) Blobs() ([]Blob, error) {
	if !c.processed {
		return nil, ErrNoImageProcessed
	}
	return c.blobs, nil
}
