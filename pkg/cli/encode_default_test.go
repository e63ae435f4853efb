//go:build !imagick

package cli

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWebPNeedsImagick(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.webp")
	err := SaveImage(p, makeSolidNRGBA(2, 2, color.NRGBA{0, 0, 0, 255}), SaveOptions{})
	if !errors.Is(err, ErrFormatUnsupported) {
		t.Fatalf("err = %v, want ErrFormatUnsupported", err)
	}
	if _, serr := os.Stat(p); !os.IsNotExist(serr) {
		t.Fatalf("no file should be created, stat err = %v", serr)
	}
}
