package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	CapturesDir   = "captures"
	LatestSymlink = "latest"
)

// Dir is the output directory of one run: renders, frame exports and a copy
// of the config that produced them.
type Dir struct {
	Path      string    // Absolute path to capture directory
	ID        string    // Unique capture identifier
	Timestamp time.Time // When the capture was created
}

// Create makes a new capture directory under root ("captures" if empty) and
// points root/latest at it.
func Create(root string) (*Dir, error) {
	if root == "" {
		root = CapturesDir
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating captures directory: %w", err)
	}

	id := GenerateCaptureID()
	absPath, err := filepath.Abs(filepath.Join(root, id))
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	if err := os.Mkdir(absPath, 0755); err != nil {
		return nil, fmt.Errorf("creating capture directory: %w", err)
	}

	latestPath := filepath.Join(root, LatestSymlink)
	_ = os.Remove(latestPath)
	if err := os.Symlink(id, latestPath); err != nil {
		// Not fatal, the capture itself is intact
		fmt.Printf("Warning: failed to create latest symlink: %v\n", err)
	}

	return &Dir{
		Path:      absPath,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}, nil
}

// FilePath returns the absolute path for a file in the capture directory
func (d *Dir) FilePath(filename string) string {
	return filepath.Join(d.Path, filename)
}

// FramePath names the file for a given frame, e.g. FramePath(12, "png") is
// frame_000012.png
func (d *Dir) FramePath(frame uint64, ext string) string {
	return d.FilePath(fmt.Sprintf("frame_%06d.%s", frame, ext))
}

// CopyConfigFile copies the config the run was started with into the capture
func (d *Dir) CopyConfigFile(srcPath string) error {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := os.WriteFile(d.FilePath(filepath.Base(srcPath)), content, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
