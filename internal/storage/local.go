package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// LocalBackend stores files on a billy filesystem. Production wires an osfs
// root; tests use memfs. The local backend is not region-sensitive: files
// live wherever the process runs, which VerifyCompliance treats as requiring
// no object-storage credentials.
type LocalBackend struct {
	fs      billy.Filesystem
	baseURL string
}

func NewLocalBackend(fs billy.Filesystem, baseURL string) *LocalBackend {
	return &LocalBackend{fs: fs, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (b *LocalBackend) Type() string { return "local" }

func (b *LocalBackend) Upload(_ context.Context, p string, body io.Reader, _ int64, _ string) (string, error) {
	clean := cleanPath(p)
	if dir := path.Dir(clean); dir != "." {
		if err := b.fs.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create directories: %w", err)
		}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}
	if err := util.WriteFile(b.fs, clean, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return b.urlFor(clean), nil
}

func (b *LocalBackend) Delete(_ context.Context, p string) error {
	clean := cleanPath(strings.TrimPrefix(p, b.baseURL+"/"))
	if err := b.fs.Remove(clean); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (b *LocalBackend) URL(_ context.Context, p string) (string, error) {
	return b.urlFor(cleanPath(p)), nil
}

func (b *LocalBackend) urlFor(p string) string {
	return b.baseURL + "/" + p
}

// cleanPath normalizes a relative path and strips traversal segments so a
// crafted path cannot escape the storage root.
func cleanPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(p, "/")), "/")
}
