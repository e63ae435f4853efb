package cli

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/luli45/photo-filter/pkg/filter"
)

// fzfLines formats commands as "name: description" rows.
func fzfLines(commands []filter.CommandSpec) string {
	var b strings.Builder
	for _, c := range commands {
		fmt.Fprintf(&b, "%s: %s\n", c.Name, c.Description)
	}
	return b.String()
}

// parseFzfSelection returns the command name from a selected row.
func parseFzfSelection(selection string) (string, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(selection), ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("no command selected")
	}
	return name, nil
}

// SelectFilterWithFzf displays the filter list in fzf and returns the selected
// name. It fails when fzf is not installed or the selection is cancelled.
func SelectFilterWithFzf(commands []filter.CommandSpec) (string, error) {
	if _, err := exec.LookPath("fzf"); err != nil {
		return "", err
	}
	cmd := exec.Command("fzf", "--height", "40%", "--prompt", "Filter> ")
	cmd.Stdin = strings.NewReader(fzfLines(commands))
	cmd.Stderr = os.Stderr

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf: %w", err)
	}
	return parseFzfSelection(out.String())
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// imageFiles lists the images LoadImage can read under dir, skipping hidden
// directories. Paths keep dir as their prefix.
func imageFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if imageExts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// SelectFileWithFzf lets the user pick an image under startDir with fzf.
func SelectFileWithFzf(startDir string) (string, error) {
	if _, err := exec.LookPath("fzf"); err != nil {
		return "", err
	}
	files, err := imageFiles(startDir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no images under %s", startDir)
	}
	cmd := exec.Command("fzf", "--height", "100%", "--border", "--prompt", "Files> ")
	cmd.Stdin = strings.NewReader(strings.Join(files, "\n") + "\n")
	cmd.Stderr = os.Stderr

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf for files: %w", err)
	}
	sel := strings.TrimSpace(out.String())
	if sel == "" {
		return "", fmt.Errorf("no file selected")
	}
	return sel, nil
}
