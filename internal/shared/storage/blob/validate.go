package blob

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrFileTooLarge means the file exceeds the configured size cap.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedType means the file extension is not in the allow-list.
	ErrUnsupportedType = errors.New("file type not allowed")
)

// CheckType validates the filename extension against an allow-list of
// extensions without the leading dot (e.g. ["pdf"]). The match is
// case-insensitive.
func CheckType(fileName string, allowed []string) error {
	if strings.TrimSpace(fileName) == "" {
		return fmt.Errorf("%w: filename is required", ErrUnsupportedType)
	}
	dot := strings.LastIndex(fileName, ".")
	if dot < 0 || dot == len(fileName)-1 {
		return fmt.Errorf("%w: missing extension, allowed types: %s", ErrUnsupportedType, strings.Join(allowed, ", "))
	}
	ext := strings.ToLower(fileName[dot+1:])
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return nil
		}
	}
	return fmt.Errorf("%w: .%s, allowed types: %s", ErrUnsupportedType, ext, strings.Join(allowed, ", "))
}

// CheckSize reads the full content to measure it and seeks back to the
// start so the same reader can be consumed again for upload.
func CheckSize(f io.ReadSeeker, maxSizeMB int) error {
	size, err := io.Copy(io.Discard, f)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("reset file: %w", err)
	}
	sizeMB := float64(size) / (1 << 20)
	if sizeMB > float64(maxSizeMB) {
		return fmt.Errorf("%w: maximum size is %dMB, got %.2fMB", ErrFileTooLarge, maxSizeMB, sizeMB)
	}
	return nil
}
