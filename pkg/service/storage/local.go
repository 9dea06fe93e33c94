package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/utils/safe"
)

// LocalURLPrefix is the path under which local blobs are served
const LocalURLPrefix = "/uploads/"

// Local stores blobs in a directory served by the HTTP server
type Local struct {
	dir string
}

var _ interfaces.BlobStorage = &Local{}

// NewLocal creates dir when missing
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create upload directory", goerr.V("dir", dir))
	}
	return &Local{dir: dir}, nil
}

// Dir returns the directory holding the blobs
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "", goerr.New("invalid blob name", goerr.V("name", name))
	}

	path := filepath.Join(l.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create blob file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", goerr.Wrap(err, "failed to write blob", goerr.V("path", path))
	}

	return LocalURLPrefix + name, nil
}

func (l *Local) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, LocalURLPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}

	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return goerr.Wrap(err, "failed to delete blob", goerr.V("url", url))
	}
	return nil
}
