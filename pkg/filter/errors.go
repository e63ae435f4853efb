package filter

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions reports a buffer whose length does not match
// width*height*4, or negative dimensions.
var ErrInvalidDimensions = errors.New("invalid dimensions")

var errNilImage = errors.New("source image is nil")

// DimensionError describes a rejected buffer.
type DimensionError struct {
	Width  int
	Height int
	Len    int
}

func (e *DimensionError) Error() string {
	if e.Width < 0 || e.Height < 0 {
		return fmt.Sprintf("%v: negative size %dx%d", ErrInvalidDimensions, e.Width, e.Height)
	}
	if tooLarge(e.Width, e.Height) {
		return fmt.Sprintf("%v: %dx%d RGBA does not fit in memory", ErrInvalidDimensions, e.Width, e.Height)
	}
	return fmt.Sprintf("%v: buffer has %d bytes, %dx%d RGBA needs %d", ErrInvalidDimensions, e.Len, e.Width, e.Height, e.Width*e.Height*4)
}

func (e *DimensionError) Unwrap() error { return ErrInvalidDimensions }

// tooLarge reports whether width*height*4 overflows int.
func tooLarge(width, height int) bool {
	return width != 0 && height > math.MaxInt/4/width
}

func checkDimensions(buf []byte, width, height int) error {
	if width < 0 || height < 0 || tooLarge(width, height) || len(buf) != width*height*4 {
		return &DimensionError{Width: width, Height: height, Len: len(buf)}
	}
	return nil
}
