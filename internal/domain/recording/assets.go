package recording

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AssetStore decides where a captured audio file lives for the lifetime of
// its record. The move strategy relocates the file into the permanent
// recordings directory; the reference strategy keeps it where the capture
// layer put it, for environments where relocation is unsupported.
type AssetStore interface {
	// Put takes ownership of the file at tempPath and returns the permanent
	// location. The original path is no longer valid after a successful move.
	Put(tempPath string) (string, error)
	// Remove reclaims the asset at the given permanent location.
	Remove(path string) error
}

// MoveAssets relocates captured files into dir.
type MoveAssets struct {
	dir string
}

func NewMoveAssets(dir string) (*MoveAssets, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}
	return &MoveAssets{dir: dir}, nil
}

func (m *MoveAssets) Put(tempPath string) (string, error) {
	name := filepath.Base(tempPath)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("recording-%d.m4a", NowMillis())
	}
	dest := filepath.Join(m.dir, name)
	if dest == tempPath {
		return dest, nil
	}
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		dest = filepath.Join(m.dir, fmt.Sprintf("%s-%d%s", name[:len(name)-len(ext)], NowMillis(), ext))
	}
	if err := os.Rename(tempPath, dest); err == nil {
		return dest, nil
	}
	// Rename fails across filesystems (capture caches often live on one);
	// fall back to copy-then-remove.
	if err := copyFile(tempPath, dest); err != nil {
		return "", fmt.Errorf("move recording: %w", err)
	}
	if err := os.Remove(tempPath); err != nil {
		return "", fmt.Errorf("remove original recording: %w", err)
	}
	return dest, nil
}

func (m *MoveAssets) Remove(path string) error {
	return os.Remove(path)
}

// ReferenceAssets leaves captured files in place. The record still owns the
// asset, so Remove deletes it.
type ReferenceAssets struct{}

func (ReferenceAssets) Put(tempPath string) (string, error) {
	if _, err := os.Stat(tempPath); err != nil {
		return "", fmt.Errorf("recording file: %w", err)
	}
	return tempPath, nil
}

func (ReferenceAssets) Remove(path string) error {
	return os.Remove(path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
