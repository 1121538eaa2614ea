package i18n

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"gocloud.dev/blob"

	"github.com/kode4food/flowdesk/pkg/log"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

var ErrInvalidOverlay = errors.New("locale overlay breaks catalog key set")

// OverlayFromURL opens the bucket at bucketURL and merges every YAML catalog
// found under prefix into the store
func OverlayFromURL(
	ctx context.Context, s *Store, bucketURL, prefix string,
) (int, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return 0, fmt.Errorf("open locale bucket: %w", err)
	}
	defer func() { _ = bucket.Close() }()
	return Overlay(ctx, s, bucket, prefix)
}

// Overlay merges YAML catalogs stored under prefix in bucket into the
// store, returning the number of files applied. Keys from the overlay
// replace embedded values; new languages become selectable. The overlay is
// applied as a whole: if any language would end up with a key set that
// differs from the base language, nothing is merged
func Overlay(
	ctx context.Context, s *Store, bucket *blob.Bucket, prefix string,
) (int, error) {
	overlay := NewCatalog(s.Fallback())
	var objects []string

	iter := bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("list locale bucket: %w", err)
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, ".yaml") {
			continue
		}

		data, err := bucket.ReadAll(ctx, obj.Key)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", obj.Key, err)
		}
		if err := overlay.AddFile(path.Base(obj.Key), data); err != nil {
			return 0, err
		}
		objects = append(objects, obj.Key)
	}

	if err := s.Apply(overlay); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidOverlay, err)
	}
	for _, lang := range overlay.Languages() {
		slog.Info("Locale overlay applied",
			log.Language(lang),
			slog.Any("objects", objects))
	}
	return len(objects), nil
}
