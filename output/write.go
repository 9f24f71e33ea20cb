package output

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash"
)

// Stdout is the path that makes Write print instead of writing a file
const Stdout = "-"

// Write stores data at path, creating parent directories as needed.
// the file is replaced atomically: readers see either the previous
// document or the new one, never a partial write.
func Write(path string, data []byte) error {
	if path == Stdout {
		_, err := os.Stdout.Write(data)
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Checksum identifies an encoded document. equal inputs give equal documents,
// so it is what reruns are compared by.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
