package filter

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"sync"
	"testing"
)

func makeSolid(w, h int, c color.NRGBA) []byte {
	buf := make([]byte, w*h*4)
	for i := 0; i < len(buf); i += 4 {
		buf[i+0] = c.R
		buf[i+1] = c.G
		buf[i+2] = c.B
		buf[i+3] = c.A
	}
	return buf
}

// makeNoise returns a deterministic random buffer with varied alpha.
func makeNoise(w, h int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	buf := make([]byte, w*h*4)
	rng.Read(buf)
	return buf
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func saveTestOutput(t *testing.T, name string, buf []byte, w, h int) {
	t.Helper()
	if os.Getenv("PHOTOFILTER_SAVE_TEST_OUTPUT") != "1" {
		return
	}
	img, err := FromBuffer(buf, w, h)
	if err != nil {
		t.Fatalf("FromBuffer: %v", err)
	}
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	png.Encode(f, img)
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"blur", Blur, true},
		{" Sepia ", Sepia, true},
		{"EDGE", Edge, true},
		{"none", None, true},
		{"gaussian", Gaussian, true},
		{"posterize", None, false},
		{"", None, false},
	}
	for _, c := range cases {
		got, ok := ParseKind(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseKind(%q) = %q,%v; want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestApplyRejectsMismatchedBuffer(t *testing.T) {
	buf := makeSolid(2, 2, color.NRGBA{10, 20, 30, 255})
	orig := clone(buf)
	cases := []struct{ w, h int }{{3, 2}, {2, 1}, {-1, 2}, {0, 2}}
	for _, c := range cases {
		out, err := Apply(buf, c.w, c.h, Invert, 0)
		if err == nil {
			t.Fatalf("Apply with %dx%d: expected error", c.w, c.h)
		}
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("expected ErrInvalidDimensions, got %v", err)
		}
		var de *DimensionError
		if !errors.As(err, &de) || de.Len != len(buf) {
			t.Fatalf("expected *DimensionError with Len=%d, got %#v", len(buf), err)
		}
		if out != nil {
			t.Fatalf("expected nil output on error")
		}
	}
	if !bytes.Equal(buf, orig) {
		t.Fatalf("buffer mutated by rejected call")
	}
}

func TestApplyRejectsOverflowingDimensions(t *testing.T) {
	huge := math.MaxInt/2 + 1
	cases := []struct{ w, h int }{{huge, 4}, {4, huge}, {math.MaxInt, 1}, {math.MaxInt/8 + 1, 2}}
	for _, c := range cases {
		for _, k := range Kinds() {
			out, err := Apply(nil, c.w, c.h, k, 5)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Fatalf("%s with %dx%d: expected ErrInvalidDimensions, got %v", k, c.w, c.h, err)
			}
			if out != nil {
				t.Fatalf("%s with %dx%d: expected nil output", k, c.w, c.h)
			}
			if err.Error() == "" {
				t.Fatalf("empty error message")
			}
		}
	}
}

func TestApplyEmptyImage(t *testing.T) {
	for _, k := range Kinds() {
		out, err := Apply([]byte{}, 0, 0, k, 5)
		if err != nil {
			t.Fatalf("%s on 0x0: %v", k, err)
		}
		if len(out) != 0 {
			t.Fatalf("%s on 0x0 returned %d bytes", k, len(out))
		}
	}
}

func TestNoneIsIdentity(t *testing.T) {
	for _, intensity := range []int{0, 5, 100, -3} {
		buf := makeNoise(9, 7, 1)
		orig := clone(buf)
		out, err := Apply(buf, 9, 7, None, intensity)
		if err != nil {
			t.Fatalf("Apply none: %v", err)
		}
		if !bytes.Equal(out, orig) {
			t.Fatalf("none changed pixels at intensity %d", intensity)
		}
	}
}

func TestUnknownKindIsIdentity(t *testing.T) {
	buf := makeNoise(5, 5, 2)
	orig := clone(buf)
	out, err := Apply(buf, 5, 5, Kind("vignette"), 10)
	if err != nil {
		t.Fatalf("unknown kind returned error: %v", err)
	}
	if !bytes.Equal(out, orig) {
		t.Fatalf("unknown kind changed pixels")
	}
}

func TestInvertInvolution(t *testing.T) {
	buf := make([]byte, 256*4)
	for i := 0; i < 256; i++ {
		buf[i*4+0] = byte(i)
		buf[i*4+1] = byte(255 - i)
		buf[i*4+2] = byte(i * 7)
		buf[i*4+3] = byte(i)
	}
	orig := clone(buf)
	if _, err := Apply(buf, 16, 16, Invert, 0); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(buf, orig) {
		t.Fatalf("invert did nothing")
	}
	if _, err := Apply(buf, 16, 16, Invert, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, orig) {
		t.Fatalf("invert(invert(x)) != x")
	}
}

func TestAlphaPreservedAndBounds(t *testing.T) {
	const w, h = 70, 66 // tall enough to take the parallel path
	for _, k := range Kinds() {
		for _, intensity := range []int{0, 1, 5, 20, 300, -4} {
			buf := makeNoise(w, h, int64(len(k))+int64(intensity))
			orig := clone(buf)
			if _, err := Apply(buf, w, h, k, intensity); err != nil {
				t.Fatalf("%s/%d: %v", k, intensity, err)
			}
			for i := 3; i < len(buf); i += 4 {
				if buf[i] != orig[i] {
					t.Fatalf("%s/%d: alpha changed at byte %d: %d -> %d", k, intensity, i, orig[i], buf[i])
				}
			}
			if len(buf) != w*h*4 {
				t.Fatalf("%s/%d: length changed", k, intensity)
			}
		}
	}
}

func TestApplyConcurrentCalls(t *testing.T) {
	const w, h = 67, 72
	kinds := Kinds()
	want := make([][]byte, len(kinds))
	for i, k := range kinds {
		want[i] = makeNoise(w, h, int64(i))
		if _, err := Apply(want[i], w, h, k, 7); err != nil {
			t.Fatalf("%s: %v", k, err)
		}
	}

	const rounds = 4
	got := make([][]byte, len(kinds)*rounds)
	errs := make([]error, len(got))
	var wg sync.WaitGroup
	for n := range got {
		got[n] = makeNoise(w, h, int64(n%len(kinds)))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[n] = Apply(got[n], w, h, kinds[n%len(kinds)], 7)
		}()
	}
	wg.Wait()

	for n := range got {
		k := kinds[n%len(kinds)]
		if errs[n] != nil {
			t.Fatalf("%s: %v", k, errs[n])
		}
		if !bytes.Equal(got[n], want[n%len(kinds)]) {
			t.Fatalf("%s: concurrent result differs from sequential", k)
		}
	}
}

func TestGrayscaleIdempotent(t *testing.T) {
	buf := makeNoise(12, 10, 3)
	if _, err := Apply(buf, 12, 10, Grayscale, 0); err != nil {
		t.Fatal(err)
	}
	once := clone(buf)
	if _, err := Apply(buf, 12, 10, Grayscale, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, once) {
		t.Fatalf("gray(gray(x)) != gray(x)")
	}
	for i := 0; i < len(buf); i += 4 {
		if buf[i] != buf[i+1] || buf[i] != buf[i+2] {
			t.Fatalf("pixel %d not gray: %v", i/4, buf[i:i+3])
		}
	}
}

func TestGrayscaleUniformGray(t *testing.T) {
	buf := makeSolid(3, 3, color.NRGBA{128, 128, 128, 255})
	orig := clone(buf)
	if _, err := Apply(buf, 3, 3, Grayscale, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, orig) {
		t.Fatalf("grayscale changed uniform gray buffer: %v", buf[:4])
	}
}

func TestGrayscaleWeights(t *testing.T) {
	buf := []byte{200, 100, 50, 9}
	if _, err := Apply(buf, 1, 1, Grayscale, 0); err != nil {
		t.Fatal(err)
	}
	// 0.3*200 + 0.59*100 + 0.11*50 = 124.5 -> 124
	want := []byte{124, 124, 124, 9}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %v want %v", buf, want)
	}
}

func TestInvertWhitePixel(t *testing.T) {
	buf := []byte{255, 255, 255, 255}
	if _, err := Apply(buf, 1, 1, Invert, 0); err != nil {
		t.Fatal(err)
	}
	if want := []byte{0, 0, 0, 255}; !bytes.Equal(buf, want) {
		t.Fatalf("got %v want %v", buf, want)
	}
}

func TestSepiaKnownPixel(t *testing.T) {
	buf := []byte{200, 150, 100, 255}
	if _, err := Apply(buf, 1, 1, Sepia, 0); err != nil {
		t.Fatal(err)
	}
	// R = 78.6 + 115.35 + 18.9 = 212.85
	// G = 69.8 + 102.9 + 16.8 = 189.5
	// B = 54.4 + 80.1 + 13.1 = 147.6
	if want := []byte{212, 189, 147, 255}; !bytes.Equal(buf, want) {
		t.Fatalf("got %v want %v", buf, want)
	}
}

func TestSepiaSaturates(t *testing.T) {
	buf := []byte{255, 255, 255, 40}
	if _, err := Apply(buf, 1, 1, Sepia, 0); err != nil {
		t.Fatal(err)
	}
	// R and G exceed 255 before capping; B = 0.937*255 = 238.9
	if want := []byte{255, 255, 238, 40}; !bytes.Equal(buf, want) {
		t.Fatalf("got %v want %v", buf, want)
	}
}

func TestSepiaReadsOriginalTriple(t *testing.T) {
	// if G were computed from the new R the result would differ
	buf := []byte{10, 200, 30, 255}
	r, g, b := sepiaPixel(10, 200, 30)
	if _, err := Apply(buf, 1, 1, Sepia, 0); err != nil {
		t.Fatal(err)
	}
	if buf[0] != r || buf[1] != g || buf[2] != b {
		t.Fatalf("got %v want %v", buf[:3], []byte{r, g, b})
	}
	if g != uint8((349*10+686*200+168*30)/1000) {
		t.Fatalf("sepiaPixel G = %d", g)
	}
}

func TestApplyImageLeavesSourceUntouched(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	copy(src.Pix, makeNoise(4, 4, 5))
	orig := clone(src.Pix)
	out, err := ApplyImage(src, Invert, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src.Pix, orig) {
		t.Fatalf("source mutated")
	}
	if out.Pix[0] != 255-orig[0] {
		t.Fatalf("output not inverted")
	}
}

func TestApplyImageSubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	copy(src.Pix, makeNoise(6, 6, 8))
	sub := src.SubImage(image.Rect(2, 1, 5, 4)).(*image.NRGBA)
	out, err := ApplyImage(sub, None, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds() != image.Rect(0, 0, 3, 3) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if out.NRGBAAt(x, y) != src.NRGBAAt(x+2, y+1) {
				t.Fatalf("pixel (%d,%d) mismatch", x, y)
			}
		}
	}
}

func TestApplyImageNil(t *testing.T) {
	if _, err := ApplyImage(nil, Blur, 3); err == nil {
		t.Fatalf("expected error for nil image")
	}
}
