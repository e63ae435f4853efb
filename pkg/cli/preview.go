package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// Terminal preview for the kitty graphics protocol and the iTerm2 inline
// image sequence (OSC 1337), which WezTerm, Warp, Tabby and VSCode also
// understand. Sixel terminals and everything else get the PNG piped through
// img2sixel or chafa when those are on PATH. Detection is heuristic;
// PREVIEW_BACKEND overrides it with "kitty", "inline", "sixel", "chafa" or
// "none".

// Cell geometry and placement limits, in pixels and character cells.
const (
	cellW    = 8
	cellH    = 16
	maxCols  = 80
	maxRows  = 40
	minCols  = 6
	minRows  = 3
	kittyChk = 4096

	sixelBin = "img2sixel"
	chafaBin = "chafa"
)

// Previewer writes inline previews to a terminal.
type Previewer struct {
	Out     io.Writer
	Backend string // forced backend, empty to detect
	Log     *logrus.Logger

	getenv   func(string) string
	lookPath func(string) (string, error)
	run      func(name string, args []string, stdin []byte, out io.Writer) error
}

// NewPreviewer returns a Previewer writing to out.
func NewPreviewer(out io.Writer, backend string, log *logrus.Logger) *Previewer {
	return &Previewer{
		Out:      out,
		Backend:  strings.ToLower(backend),
		Log:      log,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		run:      runExternal,
	}
}

// runExternal runs name with stdin as its input and its output copied to out.
func runExternal(name string, args []string, stdin []byte, out io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = out
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (p *Previewer) isKitty() bool {
	if p.getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := strings.ToLower(p.getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghostty")
}

func (p *Previewer) isInlineCapable() bool {
	switch p.getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "Tabby":
		return true
	}
	if p.getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(p.getenv("TERM"))
	return strings.Contains(term, "wezterm") || strings.Contains(term, "tabby")
}

// isSixelCapable covers foot, st with the sixel patch, mlterm and Windows
// Terminal. SIXEL_PREVIEW=1 forces it.
func (p *Previewer) isSixelCapable() bool {
	if p.getenv("SIXEL_PREVIEW") == "1" {
		return true
	}
	if p.getenv("WT_SESSION") != "" {
		return true
	}
	term := strings.ToLower(p.getenv("TERM"))
	return strings.Contains(term, "foot") || strings.Contains(term, "mlterm") ||
		term == "st" || strings.HasPrefix(term, "st-")
}

func (p *Previewer) has(bin string) bool {
	_, err := p.lookPath(bin)
	return err == nil
}

// backend resolves which protocol to use; "" means none is available. A
// forced sixel or chafa backend is returned even when the program is missing
// so Preview can report why it failed.
func (p *Previewer) backend() string {
	switch p.Backend {
	case "none":
		return ""
	case "kitty", "inline", "sixel", "chafa":
		return p.Backend
	}
	switch {
	case p.isInlineCapable():
		return "inline"
	case p.isKitty():
		return "kitty"
	case p.isSixelCapable() && p.has(sixelBin):
		return "sixel"
	case p.has(chafaBin):
		return "chafa"
	}
	return ""
}

// Supported reports whether a preview would be drawn.
func (p *Previewer) Supported() bool {
	return p.backend() != ""
}

// PreviewSize is the placement requested from the terminal.
type PreviewSize struct {
	Cols        int
	Rows        int
	PixelWidth  int
	PixelHeight int
}

// computePreviewSize fits the image into maxCols x maxRows cells without
// upscaling and keeps the aspect ratio.
func computePreviewSize(w, h int) PreviewSize {
	scale := min(1.0, float64(maxCols*cellW)/float64(w), float64(maxRows*cellH)/float64(h))
	cols := min(max(int(float64(w)*scale/cellW+0.5), minCols), maxCols)
	rows := min(max(int(float64(h)*scale/cellH+0.5), minRows), maxRows)
	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * cellW, PixelHeight: rows * cellH}
}

// Preview downscales img to the placement size, encodes it as PNG and sends
// it with the detected protocol.
func (p *Previewer) Preview(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("empty image")
	}
	backend := p.backend()
	if backend == "" {
		return fmt.Errorf("no supported terminal preview")
	}
	size := computePreviewSize(b.Dx(), b.Dy())
	thumb := imaging.Fit(img, size.PixelWidth, size.PixelHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	p.debugf("preview via %s: %dx%d cells, %d bytes", backend, size.Cols, size.Rows, buf.Len())
	switch backend {
	case "kitty":
		return p.sendKitty(buf.Bytes(), size)
	case "sixel":
		return p.sendSixel(buf.Bytes())
	case "chafa":
		return p.sendChafa(buf.Bytes(), size)
	}
	return p.sendInline(buf.Bytes(), size)
}

func (p *Previewer) debugf(format string, args ...any) {
	if p.Log != nil {
		p.Log.Debugf(format, args...)
	}
}

// sendKitty transmits the PNG in base64 chunks: the first chunk carries the
// control keys, the rest only m=1/m=0.
func (p *Previewer) sendKitty(data []byte, size PreviewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	for pos := 0; pos < len(enc); pos += kittyChk {
		end := min(pos+kittyChk, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(p.Out, seq); err != nil {
			return err
		}
	}
	_, err := io.WriteString(p.Out, "\n")
	return err
}

func (p *Previewer) sendInline(data []byte, size PreviewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	seq := fmt.Sprintf("\x1b]1337;File=name=preview.png;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n",
		len(data), size.PixelWidth, size.PixelHeight, enc)
	_, err := io.WriteString(p.Out, seq)
	return err
}

// sendSixel pipes the PNG through img2sixel, which reads it from stdin.
func (p *Previewer) sendSixel(data []byte) error {
	if err := p.run(sixelBin, []string{"-"}, data, p.Out); err != nil {
		return fmt.Errorf("sixel preview failed: %w", err)
	}
	_, err := io.WriteString(p.Out, "\n")
	return err
}

// sendChafa renders the PNG as block symbols sized to the placement.
// CHAFA_FILL and CHAFA_SYMBOLS override the symbol classes.
func (p *Previewer) sendChafa(data []byte, size PreviewSize) error {
	fill, symbols := "block", "block"
	if v := p.getenv("CHAFA_FILL"); v != "" {
		fill = v
	}
	if v := p.getenv("CHAFA_SYMBOLS"); v != "" {
		symbols = v
	}
	args := []string{
		"--fill=" + fill,
		"--symbols=" + symbols,
		"-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows),
		"-",
	}
	if err := p.run(chafaBin, args, data, p.Out); err != nil {
		return fmt.Errorf("chafa preview failed: %w", err)
	}
	return nil
}
