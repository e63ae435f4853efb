package filter

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// ApplyCommand applies the named filter to img and returns a new image. It is
// the string-argument front door used by the command line and the editor:
// args[0] is the intensity and canny also reads args[1] as its low
// threshold. Empty args fall back to the registry defaults. Unknown names are
// not an error; like Apply they return an unmodified copy.
func ApplyCommand(img image.Image, commandName string, args []string) (*image.NRGBA, error) {
	if img == nil {
		return nil, errNilImage
	}
	kind, _ := ParseKind(commandName)
	maxArgs := 1
	if c, ok := LookupCommand(string(kind)); ok {
		maxArgs = max(maxArgs, len(c.Args))
	}
	if len(args) > maxArgs {
		return nil, fmt.Errorf("%s takes at most %d arg(s), got %d", kind, maxArgs, len(args))
	}

	vals := make([]*int, len(args))
	for i, a := range args {
		if strings.TrimSpace(a) == "" {
			continue
		}
		v, err := parseIntensity(a)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %d for %s: %w", i+1, kind, err)
		}
		vals[i] = &v
	}

	intensity := DefaultIntensity(kind)
	if len(vals) > 0 && vals[0] != nil {
		intensity = *vals[0]
	}

	if kind == Canny && len(vals) > 1 && vals[1] != nil {
		out := ToNRGBA(img)
		if _, err := ApplyCanny(out.Pix, out.Rect.Dx(), out.Rect.Dy(), *vals[1], intensity); err != nil {
			return nil, fmt.Errorf("apply %s: %w", kind, err)
		}
		return out, nil
	}

	out, err := ApplyImage(img, kind, intensity)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", kind, err)
	}
	return out, nil
}

// parseIntensity accepts an integer, tolerating a trailing "px".
func parseIntensity(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}
