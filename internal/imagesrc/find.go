// Package imagesrc locates, loads and watches the source images memes are
// built from.
package imagesrc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/canvas"
	"github.com/muesli/gitcha"
)

// Result is an image file found on disk.
type Result struct {
	Path    string
	Rel     string // path relative to the search root
	Size    int64
	ModTime time.Time
}

// Patterns returns the glob patterns for image files, in both cases since
// gitcha matches case-sensitively.
func Patterns() []string {
	exts := canvas.ImageExtensions()
	patterns := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		patterns = append(patterns, ext, strings.ToUpper(ext))
	}
	return patterns
}

// Find streams the image files below dir. Unless all is set, files ignored
// by .gitignore and the excludes patterns are skipped.
func Find(dir string, all bool, excludes []string) (<-chan Result, string, error) {
	root, err := resolveRoot(dir)
	if err != nil {
		return nil, "", err
	}
	log.Debug("searching for images", "dir", root, "all", all)

	var found chan gitcha.SearchResult
	if all {
		found, err = gitcha.FindAllFilesExcept(root, Patterns(), nil)
	} else {
		found, err = gitcha.FindFilesExcept(root, Patterns(), excludes)
	}
	if err != nil {
		return nil, "", fmt.Errorf("unable to search %s: %w", root, err)
	}

	out := make(chan Result)
	go func() {
		defer close(out)
		for res := range found {
			if res.Info == nil || res.Info.IsDir() {
				continue
			}
			out <- Result{
				Path:    res.Path,
				Rel:     stripRoot(res.Path, root),
				Size:    res.Info.Size(),
				ModTime: res.Info.ModTime(),
			}
		}
		log.Debug("image search finished", "dir", root)
	}()
	return out, root, nil
}

// Collect drains a Find channel.
func Collect(ch <-chan Result) []Result {
	var results []Result
	for r := range ch {
		results = append(results, r)
	}
	return results
}

func resolveRoot(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return filepath.Abs(dir)
}

func stripRoot(path, root string) string {
	fp, err := filepath.EvalSymlinks(path)
	if err != nil {
		fp = path
	}
	rp, err := filepath.EvalSymlinks(root)
	if err != nil {
		rp = root
	}
	return strings.TrimPrefix(fp, rp+string(os.PathSeparator))
}
