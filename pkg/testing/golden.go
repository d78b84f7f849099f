package testing

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// UpdateEnv is the environment variable that rewrites golden files.
const UpdateEnv = "HTMLVIEW_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesGolden, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// MatchesGolden compares img against the PNG at path. On mismatch it
// reports the number of differing pixels and the first one. When
// HTMLVIEW_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func MatchesGolden(t TestingT, img image.Image, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := WriteGolden(path, img); err != nil {
			t.Fatalf("failed to update golden image: %v", err)
		}
		return
	}

	want, err := LoadGolden(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden image missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load golden image: %v", err)
		return
	}

	if diff := DiffImages(img, want); diff != "" {
		t.Errorf("golden mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// WriteGolden encodes img as PNG at path, creating directories as needed.
func WriteGolden(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadGolden decodes the PNG at path.
func LoadGolden(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// DiffImages compares two images pixel by pixel in non-premultiplied
// RGBA. It returns an empty string when they are identical.
func DiffImages(got, want image.Image) string {
	gb, wb := got.Bounds(), want.Bounds()
	if gb.Size() != wb.Size() {
		return fmt.Sprintf("size %dx%d, want %dx%d", gb.Dx(), gb.Dy(), wb.Dx(), wb.Dy())
	}
	var (
		count int
		first image.Point
		g, w  color.NRGBA
	)
	for y := 0; y < gb.Dy(); y++ {
		for x := 0; x < gb.Dx(); x++ {
			gc := color.NRGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y)).(color.NRGBA)
			wc := color.NRGBAModel.Convert(want.At(wb.Min.X+x, wb.Min.Y+y)).(color.NRGBA)
			if gc != wc {
				if count == 0 {
					first, g, w = image.Pt(x, y), gc, wc
				}
				count++
			}
		}
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("%d pixels differ; first at %v: got %v, want %v", count, first, g, w)
}
