package crash

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// FileSystem is the crash reporter's own file-system handle. It is
// deliberately separate from anything else in the process touching disk, so
// a report can still be written when the primary file-system layer is the
// thing that crashed.
type FileSystem interface {
	// UniqueFile creates a fresh, collision-free file in dir and returns
	// its path.
	UniqueFile(dir, prefix, suffix string) (string, error)

	// WriteFile synchronously replaces the contents of path.
	WriteFile(path string, data []byte) error
}

type osFileSystem struct{}

// NewFileSystem returns a FileSystem backed directly by the os package.
func NewFileSystem() FileSystem {
	return osFileSystem{}
}

func (osFileSystem) UniqueFile(dir, prefix, suffix string) (string, error) {
	// ULIDs are monotonic enough that a single attempt almost always
	// succeeds; the loop covers the pathological case.
	for attempt := 0; attempt < 5; attempt++ {
		id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		path := filepath.Join(dir, prefix+id+suffix)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", err
		}
		f.Close()
		return path, nil
	}
	return "", fmt.Errorf("could not create a unique %s*%s file in %s", prefix, suffix, dir)
}

func (osFileSystem) WriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
