// Registry of filter commands.
//
// This file mirrors the kinds dispatched by Apply in filter.go. Keep the list
// in sync when adding a kind so callers (CLI, help text, validation) read a
// single source of truth.

package filter

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "bool", "string", "path", etc.
	Required    bool
	Default     string // textual default (for help only)
	Description string
	Min, Max    *float64 // optional UI bounds; the engine clamps on its own
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

func bound(v float64) *float64 { return &v }

// Commands is the authoritative list of filter commands, one per Kind.
var Commands = []CommandSpec{
	{
		Name:        string(None),
		Args:        []ArgSpec{},
		Usage:       "none",
		Description: "Original image, no filter.",
	},
	{
		Name: string(Blur),
		Args: []ArgSpec{{
			Name: "radius", Type: "int", Default: "5", Description: "blur radius in pixels",
			Min: bound(0), Max: bound(maxBlurRadius),
		}},
		Usage:       "blur [radius]",
		Description: "Soft blur: three box passes approximating a Gaussian.",
	},
	{
		Name: string(Sharpen),
		Args: []ArgSpec{{
			Name: "intensity", Type: "int", Default: "5", Description: "accepted for compatibility; the kernel is fixed",
			Min: bound(0), Max: bound(100),
		}},
		Usage:       "sharpen [intensity]",
		Description: "3x3 sharpen kernel (centre 5, cross -1).",
	},
	{
		Name:        string(Grayscale),
		Args:        []ArgSpec{},
		Usage:       "grayscale",
		Description: "Luma grayscale (0.30 R + 0.59 G + 0.11 B).",
	},
	{
		Name:        string(Invert),
		Args:        []ArgSpec{},
		Usage:       "invert",
		Description: "Negative of each colour channel.",
	},
	{
		Name:        string(Sepia),
		Args:        []ArgSpec{},
		Usage:       "sepia",
		Description: "Classic sepia colour matrix.",
	},
	{
		Name: string(Edge),
		Args: []ArgSpec{{
			Name: "threshold", Type: "int", Default: "5", Description: "edge sensitivity; scales and cuts the gradient",
			Min: bound(0), Max: bound(maxEdgeThreshold),
		}},
		Usage:       "edge [threshold]",
		Description: "Binary Sobel edge mask.",
	},
	{
		Name: string(BoxBlur),
		Args: []ArgSpec{{
			Name: "radius", Type: "int", Default: "2", Description: "box half width; kernel is (2r+1)x(2r+1)",
			Min: bound(0), Max: bound(maxBlurRadius),
		}},
		Usage:       "boxblur [radius]",
		Description: "Single box blur pass.",
	},
	{
		Name: string(Gaussian),
		Args: []ArgSpec{{
			Name: "sigma", Type: "int", Default: "10", Description: "sigma in tenths of a pixel",
			Min: bound(0), Max: bound(maxGaussianTenths),
		}},
		Usage:       "gaussian [sigma]",
		Description: "Separable Gaussian blur.",
	},
	{
		Name:        string(Sobel),
		Args:        []ArgSpec{},
		Usage:       "sobel",
		Description: "Sobel gradient magnitude, stretched to full range.",
	},
	{
		Name: string(Canny),
		Args: []ArgSpec{
			{
				Name: "high", Type: "int", Default: "150", Description: "upper hysteresis threshold",
				Min: bound(0), Max: bound(maxEdgeThreshold),
			},
			{
				Name: "low", Type: "int", Description: "lower hysteresis threshold; 8/15 of high when omitted",
				Min: bound(0), Max: bound(maxEdgeThreshold),
			},
		},
		Usage:       "canny [high] [low]",
		Description: "Canny edges: non-maximum suppression and hysteresis.",
	},
}

// LookupCommand returns the registry entry for name.
func LookupCommand(name string) (CommandSpec, bool) {
	k, ok := ParseKind(name)
	if !ok {
		return CommandSpec{}, false
	}
	for _, c := range Commands {
		if c.Name == string(k) {
			return c, true
		}
	}
	return CommandSpec{}, false
}

// DefaultIntensity returns the registry default for a kind, or 0 when the
// kind takes no argument.
func DefaultIntensity(k Kind) int {
	c, ok := LookupCommand(string(k))
	if !ok || len(c.Args) == 0 {
		return 0
	}
	v, err := parseIntensity(c.Args[0].Default)
	if err != nil {
		return 0
	}
	return v
}

// IntensityRange returns the bounds of the first argument of k, which is the
// value the intensity slider drives. Kinds without an argument report [0,100].
func IntensityRange(k Kind) (lo, hi int) {
	lo, hi = 0, 100
	c, ok := LookupCommand(string(k))
	if !ok || len(c.Args) == 0 {
		return lo, hi
	}
	if a := c.Args[0]; a.Min != nil && a.Max != nil {
		lo, hi = int(*a.Min), int(*a.Max)
	}
	return lo, hi
}
