// # internal/watch/watch_test.go
package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchtest")
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"node_modules"}, []string{"*.d.ts"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	testFile := filepath.Join(tmpDir, "index.ts")
	os.WriteFile(testFile, []byte("export const x = 1\n"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Non-source and declaration files must not trigger.
	os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("notes"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "types.d.ts"), []byte("declare const y: number\n"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Ext(p) != ".ts" || filepath.Base(p) == "types.d.ts" {
				t.Errorf("filtered file triggered event: %v", paths)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}

func TestWatcherExcludedDir(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchtest")
	defer os.RemoveAll(tmpDir)
	deps := filepath.Join(tmpDir, "node_modules")
	if err := os.MkdirAll(deps, 0755); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(50*time.Millisecond, []string{"node_modules"}, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	os.WriteFile(filepath.Join(deps, "dep.ts"), []byte("export {}\n"), 0644)

	select {
	case paths := <-changedFiles:
		t.Errorf("excluded directory triggered event: %v", paths)
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}
