package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/luli45/photo-filter/pkg/filter"
)

func usage(out io.Writer) {
	fmt.Fprintln(out, "Commands available:")
	fmt.Fprintln(out, "  /  - select and apply a filter")
	fmt.Fprintln(out, "  i  - set intensity (range depends on the filter)")
	fmt.Fprintln(out, "  o  - open another image")
	fmt.Fprintln(out, "  s  - save the filtered image")
	fmt.Fprintln(out, "  p  - preview the current image")
	fmt.Fprintln(out, "  r  - reset to the original")
	fmt.Fprintln(out, "  u  - check for updates")
	fmt.Fprintln(out, "  h  - show this help message")
	fmt.Fprintln(out, "  q  - quit")
}

// editor is the state behind RunCLI.
type editor struct {
	ctx     context.Context
	cfg     Config
	log     *logrus.Logger
	in      *bufio.Reader
	out     io.Writer
	sess    *Session
	store   *MetaStore
	preview *Previewer
	update  *Updater

	// pickFilter is an optional interactive chooser (fzf); on error the
	// numbered list is used.
	pickFilter func([]filter.CommandSpec) (string, error)
	// pickFile is the matching chooser for 'o' when the user types "/".
	pickFile func(dir string) (string, error)
}

// RunCLI runs the interactive editor until 'q' or end of input. path may be
// empty; an image can be opened later with 'o'. fzf is only offered when in
// is the process stdin.
func RunCLI(ctx context.Context, cfg Config, log *logrus.Logger, path string, in io.Reader, out io.Writer) error {
	e := &editor{
		ctx:     ctx,
		cfg:     cfg,
		log:     log,
		in:      bufio.NewReader(in),
		out:     out,
		sess:    NewSession(cfg),
		store:   NewMetaStore(filter.Commands),
		preview: NewPreviewer(out, cfg.PreviewBackend, log),
	}
	e.update = NewUpdater(in, out, log)
	e.update.In = e.in
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		e.pickFilter = SelectFilterWithFzf
		e.pickFile = SelectFileWithFzf
	}

	if path != "" {
		if err := e.sess.Load(path); err != nil {
			return fmt.Errorf("failed to read image %s: %w", path, err)
		}
		e.show()
	}

	fmt.Fprintln(out, "Photo Filter")
	usage(out)

	for {
		fmt.Fprint(out, "> ")
		line, err := e.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			continue
		}
		switch line[0] {
		case '/':
			e.chooseFilter()
		case 'i':
			e.setIntensity()
		case 'o':
			e.open()
		case 's':
			e.save()
		case 'p':
			e.showPreview()
		case 'r':
			e.sess.Reset()
			fmt.Fprintln(out, "Reset to original")
			e.show()
		case 'u':
			if err := e.update.CheckForUpdates(ctx); err != nil {
				e.log.WithError(err).Error("update check")
			}
		case 'h':
			usage(out)
		case 'q':
			fmt.Fprintln(out, "Exiting...")
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, press h for help\n", line)
		}
	}
}

// readLine returns the next trimmed line. A final line without newline is
// returned before io.EOF.
func (e *editor) readLine() (string, error) {
	line, err := e.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (e *editor) prompt(label string) string {
	fmt.Fprint(e.out, label)
	line, _ := e.readLine()
	return line
}

// show prints the info line and, when the terminal supports it, a preview.
func (e *editor) show() {
	cur := e.sess.Current()
	if cur == nil {
		return
	}
	if e.preview.Supported() {
		if err := e.preview.Preview(cur); err != nil {
			e.log.WithError(err).Debug("preview")
		}
	}
	if info, err := GetImageInfoImage(cur, e.sess.Format); err == nil {
		fmt.Fprintf(e.out, "%s, Filter: %s, Intensity: %d\n", info, e.sess.Kind, e.sess.Intensity)
	}
}

func (e *editor) showPreview() {
	if !e.sess.Loaded() {
		fmt.Fprintln(e.out, "No image loaded. Press 'o' to open an image first.")
		return
	}
	if !e.preview.Supported() {
		fmt.Fprintln(e.out, "terminal preview not supported here (set PREVIEW_BACKEND to kitty, inline, sixel or chafa to force)")
		return
	}
	if err := e.preview.Preview(e.sess.Current()); err != nil {
		e.log.WithError(err).Error("preview")
	}
}

// resolveSelection maps a number, exact name or unique prefix to a command.
func resolveSelection(cmds []filter.CommandSpec, selection string) (string, error) {
	if idx, err := strconv.Atoi(selection); err == nil {
		if idx < 1 || idx > len(cmds) {
			return "", fmt.Errorf("invalid selection %d", idx)
		}
		return cmds[idx-1].Name, nil
	}
	sel := strings.ToLower(selection)
	var matches []string
	for _, c := range cmds {
		if c.Name == sel {
			return c.Name, nil
		}
		if strings.HasPrefix(c.Name, sel) {
			matches = append(matches, c.Name)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown filter: %s", selection)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous selection, candidates: %s", strings.Join(matches, ", "))
	}
}

func (e *editor) chooseFilter() {
	if !e.sess.Loaded() {
		fmt.Fprintln(e.out, "No image loaded. Press 'o' to open an image first, or pass an image path.")
		return
	}
	var name string
	if e.pickFilter != nil {
		if n, err := e.pickFilter(e.store.Commands); err == nil {
			name = n
		} else {
			e.log.WithError(err).Debug("fzf unavailable, using list")
		}
	}
	if name == "" {
		fmt.Fprintln(e.out, "Filters:")
		for i, c := range e.store.Commands {
			fmt.Fprintf(e.out, "  %d) %s - %s\n", i+1, c.Name, c.Description)
		}
		selection := e.prompt("Enter number or filter name (leave empty to cancel): ")
		if selection == "" {
			fmt.Fprintln(e.out, "selection cancelled")
			return
		}
		n, err := resolveSelection(e.store.Commands, selection)
		if err != nil {
			fmt.Fprintln(e.out, err)
			return
		}
		name = n
	}

	tooltip, _, err := e.store.GetCommandHelp(name)
	if err != nil {
		fmt.Fprintln(e.out, err)
		return
	}
	fmt.Fprintln(e.out, "\n"+tooltip+"\n")

	kind, _ := filter.ParseKind(name)
	intensity := filter.DefaultIntensity(kind)
	var extra []string
	if c, ok := filter.LookupCommand(name); ok && len(c.Args) > 0 {
		raws := make([]string, len(c.Args))
		for i, a := range c.Args {
			def := a.Default
			if def == "" {
				def = "auto"
			}
			raws[i] = e.prompt(fmt.Sprintf("%s (%s) [default %s]: ", a.Name, a.Type, def))
		}
		norm, err := e.store.NormalizeArgs(name, raws)
		if err != nil {
			fmt.Fprintf(e.out, "input validation error: %v\n", err)
			return
		}
		if norm[0] != "" {
			intensity, _ = strconv.Atoi(norm[0])
		}
		for _, v := range norm[1:] {
			if v != "" {
				extra = append(extra, v)
			}
		}
	}

	if err := e.sess.SetFilter(name); err != nil {
		fmt.Fprintln(e.out, err)
		return
	}
	e.sess.SetIntensity(intensity)
	e.sess.ExtraArgs = extra
	e.apply()
}

func (e *editor) setIntensity() {
	lo, hi := filter.IntensityRange(e.sess.Kind)
	raw := e.prompt(fmt.Sprintf("Intensity %d-%d [current %d]: ", lo, hi, e.sess.Intensity))
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(e.out, "expected integer, got %q\n", raw)
		return
	}
	e.sess.SetIntensity(v)
	if e.sess.Loaded() {
		e.apply()
	}
}

func (e *editor) apply() {
	start := time.Now()
	if err := e.sess.Apply(); err != nil {
		e.log.WithError(err).Error("apply filter")
		return
	}
	e.log.WithFields(logrus.Fields{
		"filter":    e.sess.Kind,
		"intensity": e.sess.Intensity,
		"elapsed":   time.Since(start).Round(time.Microsecond),
	}).Debug("applied")
	fmt.Fprintf(e.out, "Applied %s\n", e.sess.Kind)
	e.show()
}

func (e *editor) open() {
	prompt := "Enter path to image to open (leave empty to cancel): "
	if e.pickFile != nil {
		prompt = "Enter path to image to open, '/' to browse with fzf (leave empty to cancel): "
	}
	path := e.prompt(prompt)
	if path == "/" && e.pickFile != nil {
		sel, err := e.pickFile(".")
		if err != nil {
			e.log.WithError(err).Debug("fzf unavailable, using typed path")
			path = e.prompt("Enter path to image to open (leave empty to cancel): ")
		} else {
			fmt.Fprintf(e.out, " [fzf] %s\n", sel)
			path = sel
		}
	}
	if path == "" {
		fmt.Fprintln(e.out, "open cancelled")
		return
	}
	if err := e.sess.Load(path); err != nil {
		e.log.WithError(err).Errorf("failed to read image %s", path)
		return
	}
	fmt.Fprintf(e.out, "Opened %s\n", path)
	e.show()
}

func (e *editor) save() {
	if !e.sess.Loaded() {
		fmt.Fprintln(e.out, "No image loaded.")
		return
	}
	def := filepath.Join(e.cfg.ExportDir, DefaultExportName(time.Now()))
	out := e.prompt(fmt.Sprintf("Enter output filename [%s]: ", def))
	if out == "" {
		out = def
	}
	if err := e.sess.Export(out, SaveOptions{JPEGQuality: e.cfg.JPEGQuality}); err != nil {
		e.log.WithError(err).Error("failed to write image")
		return
	}
	fmt.Fprintf(e.out, "Saved to %s\n", out)
}
