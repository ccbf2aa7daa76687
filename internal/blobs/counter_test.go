package blobs

import (
	"errors"
	"testing"
)

func makeGray8(rows []string) Image {
	height := len(rows)
	width := len(rows[0])
	px := make([]byte, width*height)
	for y, row := range rows {
		for x := 0; x < width; x++ {
			if row[x] == '#' {
				px[y*width+x] = 255
			}
		}
	}
	return Image{Width: width, Height: height, Stride: width, Format: Gray8, Pixels: px}
}

func TestProcessImageTwoSeparateBlobs(t *testing.T) {
	img := makeGray8([]string{
		"##....##",
		"##....##",
		"........",
	})
	c := &Counter{}
	if err := c.ProcessImage(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.Blobs()
	if err != nil {
		t.Fatalf("Blobs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 blobs, got %d: %+v", len(got), got)
	}
	for _, b := range got {
		if b.Area != 4 {
			t.Fatalf("expected area 4, got %d for blob %+v", b.Area, b)
		}
	}
}

func TestProcessImageDiagonalMerge(t *testing.T) {
	// The upper-right neighbour priority should connect these two
	// otherwise-disjoint runs into a single blob.
	img := makeGray8([]string{
		"...#",
		"..#.",
	})
	c := &Counter{}
	if err := c.ProcessImage(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := c.Blobs()
	if len(got) != 1 {
		t.Fatalf("expected diagonal pixels to merge into 1 blob, got %d: %+v", len(got), got)
	}
}

func TestProcessImageTooNarrow(t *testing.T) {
	img := Image{Width: 1, Height: 5, Stride: 1, Format: Gray8, Pixels: make([]byte, 5)}
	c := &Counter{}
	if err := c.ProcessImage(img); !errors.Is(err, ErrTooNarrow) {
		t.Fatalf("expected ErrTooNarrow, got %v", err)
	}
}

func TestProcessImageUnsupportedFormat(t *testing.T) {
	img := Image{Width: 4, Height: 4, Stride: 4, Format: PixelFormat(99), Pixels: make([]byte, 16)}
	c := &Counter{}
	if err := c.ProcessImage(img); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBlobsWithoutProcessImage(t *testing.T) {
	c := &Counter{}
	if _, err := c.Blobs(); !errors.Is(err, ErrNoImageProcessed) {
		t.Fatalf("expected ErrNoImageProcessed, got %v", err)
	}
}

func TestSizeFilterCoupled(t *testing.T) {
	img := makeGray8([]string{
		"#.........",
		"..........",
		"..........",
		"..........",
		".####.....",
		".####.....",
		".####.....",
		".####.....",
	})
	c := &Counter{
		FilterBlobs:          true,
		CoupledSizeFiltering: true,
		MinW: 3, MaxW: 20,
		MinH: 3, MaxH: 20,
	}
	if err := c.ProcessImage(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := c.Blobs()
	if len(got) != 1 {
		t.Fatalf("expected the 1x1 speck to be dropped, got %d blobs: %+v", len(got), got)
	}
	if got[0].Rect.W() != 4 || got[0].Rect.H() != 4 {
		t.Fatalf("unexpected surviving blob rect: %+v", got[0].Rect)
	}
}

func TestEdgePointsRequiresProcessImage(t *testing.T) {
	c := &Counter{}
	if _, err := c.EdgePoints(Blob{}); !errors.Is(err, ErrNoImageProcessed) {
		t.Fatalf("expected ErrNoImageProcessed, got %v", err)
	}
}

func TestEdgePointsSquare(t *testing.T) {
	img := makeGray8([]string{
		"####",
		"#..#",
		"#..#",
		"####",
	})
	c := &Counter{}
	if err := c.ProcessImage(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blobs, _ := c.Blobs()
	if len(blobs) != 1 {
		t.Fatalf("expected 1 blob, got %d", len(blobs))
	}
	pts, err := c.EdgePoints(blobs[0])
	if err != nil {
		t.Fatalf("EdgePoints: %v", err)
	}
	if len(pts) == 0 {
		t.Fatal("expected a non-empty edge point set")
	}
}
