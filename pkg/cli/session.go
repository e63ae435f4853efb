package cli

import (
	"errors"
	"fmt"
	"image"
	"strconv"

	"github.com/luli45/photo-filter/pkg/filter"
)

// ErrNoImage is returned by Session operations that need a loaded image.
var ErrNoImage = errors.New("no image loaded")

// clampIntensity clamps v to the slider range of k, which is the range of the
// filter's first argument in the command registry.
func clampIntensity(k filter.Kind, v int) int {
	lo, hi := filter.IntensityRange(k)
	return min(max(v, lo), hi)
}

// Session is one editing session: a pristine source image and the result of
// the currently selected filter. Every Apply starts again from the source, so
// switching filters or moving the slider never compounds effects.
type Session struct {
	Path      string
	Format    string
	Kind      filter.Kind
	Intensity int
	// ExtraArgs holds the filter's arguments after the first, such as the
	// canny low threshold. They are cleared whenever the filter changes.
	ExtraArgs []string

	source   *image.NRGBA
	filtered *image.NRGBA
}

// NewSession returns an empty session with the configured filter selected.
func NewSession(cfg Config) *Session {
	return &Session{Kind: cfg.Filter, Intensity: clampIntensity(cfg.Filter, cfg.Intensity)}
}

// Load replaces the source image and re-applies the current filter.
func (s *Session) Load(path string) error {
	img, format, err := LoadImage(path)
	if err != nil {
		return err
	}
	s.SetSource(img, format)
	s.Path = path
	return s.Apply()
}

// SetSource installs img as the pristine source without touching the disk.
func (s *Session) SetSource(img *image.NRGBA, format string) {
	s.source = img
	s.filtered = nil
	s.Format = format
	s.Path = ""
}

// Loaded reports whether a source image is present.
func (s *Session) Loaded() bool { return s.source != nil }

// SetFilter selects a filter kind and re-clamps the intensity to its range.
// Names are matched case-insensitively.
func (s *Session) SetFilter(name string) error {
	k, ok := filter.ParseKind(name)
	if !ok {
		return fmt.Errorf("unknown filter: %s", name)
	}
	s.Kind = k
	s.ExtraArgs = nil
	s.Intensity = clampIntensity(k, s.Intensity)
	return nil
}

// SetIntensity stores v clamped to the current filter's range.
func (s *Session) SetIntensity(v int) {
	s.Intensity = clampIntensity(s.Kind, v)
}

// Apply recomputes the filtered image from the source.
func (s *Session) Apply() error {
	if s.source == nil {
		return ErrNoImage
	}
	args := append([]string{strconv.Itoa(s.Intensity)}, s.ExtraArgs...)
	out, err := filter.ApplyCommand(s.source, string(s.Kind), args)
	if err != nil {
		return err
	}
	s.filtered = out
	return nil
}

// Reset selects "none" and drops the filtered result.
func (s *Session) Reset() {
	s.Kind = filter.None
	s.ExtraArgs = nil
	s.filtered = nil
}

// Source returns the pristine image.
func (s *Session) Source() *image.NRGBA { return s.source }

// Current returns the filtered image, or the source when nothing has been
// applied yet.
func (s *Session) Current() *image.NRGBA {
	if s.filtered != nil {
		return s.filtered
	}
	return s.source
}

// Export writes Current to path.
func (s *Session) Export(path string, opts SaveOptions) error {
	cur := s.Current()
	if cur == nil {
		return ErrNoImage
	}
	return SaveImage(path, cur, opts)
}
