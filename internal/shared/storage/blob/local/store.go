package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"resumitory-backend/internal/shared/storage/blob"
	"resumitory-backend/internal/shared/util"
)

// Store implements blob.Store on the local filesystem for development and
// tests. Public URLs use the same /public/{bucket}/{key} shape as the S3
// store so delete parsing behaves identically.
type Store struct {
	baseDir string
	bucket  string
}

// New creates a local blob store rooted at baseDir.
func New(baseDir, bucket string) *Store {
	return &Store{baseDir: baseDir, bucket: bucket}
}

// Upload writes the reader to disk under the user's namespace.
func (s *Store) Upload(ctx context.Context, userID string, fileName string, r io.Reader) (string, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := userID + "/" + uuid.NewString() + "_" + sanitizedName

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write body: %w", err)
	}

	return blob.PublicURL("", s.bucket, key), nil
}

// Delete removes the file behind a public URL.
func (s *Store) Delete(ctx context.Context, publicURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := blob.KeyFromURL(publicURL, s.bucket)
	if key == "" {
		return nil
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil
	}

	if err := os.Remove(filepath.Join(s.baseDir, clean)); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

var _ blob.Store = (*Store)(nil)
