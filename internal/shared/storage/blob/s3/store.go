package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"resumitory-backend/internal/shared/storage/blob"
	"resumitory-backend/internal/shared/util"
)

// Store implements blob.Store against any S3-compatible object store.
type Store struct {
	client     *s3.Client
	bucket     string
	prefix     string
	publicBase string
}

// New creates a new S3-backed blob store. publicBase is the URL under which
// bucket objects are publicly served ({publicBase}/public/{bucket}/{key}).
func New(ctx context.Context, region, bucket, prefix, publicBase string) (blob.Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(publicBase) == "" {
		return nil, fmt.Errorf("public base URL is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Store{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		prefix:     strings.Trim(strings.TrimSpace(prefix), "/"),
		publicBase: strings.TrimRight(strings.TrimSpace(publicBase), "/"),
	}, nil
}

// Upload puts the reader contents under the user's path prefix and returns
// the object's public URL.
func (s *Store) Upload(ctx context.Context, userID string, fileName string, r io.Reader) (string, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := path.Join(userID, uuid.NewString()+"_"+sanitizedName)
	objectKey := applyPrefix(s.prefix, key)

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("read sniff: %w", readErr)
	}

	mimeType := http.DetectContentType(sniff[:n])
	body := io.MultiReader(bytes.NewReader(sniff[:n]), r)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}

	return blob.PublicURL(s.publicBase, s.bucket, key), nil
}

// Delete removes the object behind a public URL. URLs that do not reference
// this store's bucket are ignored.
func (s *Store) Delete(ctx context.Context, publicURL string) error {
	key := blob.KeyFromURL(publicURL, s.bucket)
	if key == "" {
		return nil
	}
	objectKey := applyPrefix(s.prefix, key)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return nil
}

func applyPrefix(prefix, key string) string {
	cleanKey := strings.TrimLeft(key, "/")
	if prefix == "" {
		return cleanKey
	}
	return prefix + "/" + cleanKey
}

var _ blob.Store = (*Store)(nil)
