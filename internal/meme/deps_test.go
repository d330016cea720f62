package meme

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePath = "github.com/dgnsrekt/memegen"

func moduleRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found")
		}
		dir = parent
	}
}

// deps returns every import reachable from pkg through packages of this
// module, test files excluded.
func deps(t *testing.T, root, pkg string) map[string]bool {
	t.Helper()
	seen := map[string]bool{}
	queue := []string{pkg}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if seen[p] {
			continue
		}
		seen[p] = true
		if !strings.HasPrefix(p, modulePath) {
			continue
		}

		dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p, modulePath)))
		bp, err := build.Default.ImportDir(dir, 0)
		if err != nil {
			t.Fatalf("reading %s: %v", p, err)
		}
		queue = append(queue, bp.Imports...)
	}
	return seen
}

// The editor packages must build without cgo or sound headers; only the
// device player may pull in oto.
func TestPackagesDoNotNeedAudioDevice(t *testing.T) {
	root := moduleRoot(t)
	for _, pkg := range []string{
		"/internal/meme",
		"/internal/speech",
		"/internal/speech/engines",
		"/internal/canvas",
		"/internal/imagesrc",
		"/ui",
	} {
		t.Run(strings.TrimPrefix(pkg, "/"), func(t *testing.T) {
			for dep := range deps(t, root, modulePath+pkg) {
				if strings.HasPrefix(dep, "github.com/ebitengine/oto") || dep == modulePath+"/internal/audio/device" {
					t.Errorf("%s depends on %s", pkg, dep)
				}
			}
		})
	}
}
