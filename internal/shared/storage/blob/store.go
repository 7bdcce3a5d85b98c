package blob

import (
	"context"
	"io"
	"strings"
)

// Store is the gateway to the external object store holding resume files.
// Implementations must be safe for concurrent use by independent requests.
type Store interface {
	// Upload stores the reader contents under the user's path prefix and
	// returns a publicly resolvable URL.
	Upload(ctx context.Context, userID string, fileName string, r io.Reader) (publicURL string, err error)
	// Delete removes the object behind a previously returned public URL.
	// URLs that do not reference this store's bucket are ignored. Callers
	// treat failures as non-fatal.
	Delete(ctx context.Context, publicURL string) error
}

// KeyFromURL extracts the bucket-relative object key from a public URL of
// the form {base}/public/{bucket}/{key}. Returns "" when the URL does not
// reference the given bucket.
func KeyFromURL(publicURL, bucket string) string {
	marker := "/public/" + bucket + "/"
	i := strings.Index(publicURL, marker)
	if i < 0 {
		return ""
	}
	return publicURL[i+len(marker):]
}

// PublicURL builds the public URL for a bucket-relative key.
func PublicURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/public/" + bucket + "/" + strings.TrimLeft(key, "/")
}
