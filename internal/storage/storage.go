package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the artifact sync needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
}

// SyncPrefix downloads every object under prefix into destDir, keeping the
// key layout below the prefix. It returns the number of files written.
func SyncPrefix(ctx context.Context, store ObjectStorage, prefix, destDir string) (int, error) {
	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("list %q: %w", prefix, err)
	}

	synced := 0
	for _, obj := range objects {
		rel := strings.TrimPrefix(strings.TrimPrefix(obj.Key, prefix), "/")
		if rel == "" || strings.HasSuffix(obj.Key, "/") {
			continue
		}
		clean := path.Clean(rel)
		if clean == ".." || strings.HasPrefix(clean, "../") {
			log.Warn().Str("key", obj.Key).Msg("storage: skipping object outside prefix")
			continue
		}

		dest := filepath.Join(destDir, filepath.FromSlash(clean))
		if err := store.DownloadObject(ctx, obj.Key, dest); err != nil {
			return synced, fmt.Errorf("download %q: %w", obj.Key, err)
		}
		synced++
		log.Debug().Str("key", obj.Key).Int64("size", obj.Size).Str("dest", dest).Msg("storage: object synced")
	}
	return synced, nil
}
