package git

import (
	"fmt"
	"os"
	"path/filepath"
)

// MarkerName is the sentinel file recording that tracking was initialized
// for a directory. Its presence gates whether the init offer is shown
// again.
const MarkerName = ".gitdag-go"

func HasInitMarker(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, MarkerName))
	return err == nil && !info.IsDir()
}

func WriteInitMarker(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory not set")
	}
	return os.WriteFile(filepath.Join(dir, MarkerName), nil, 0o644)
}
