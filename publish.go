package simgo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/simgo/blobstore"
)

// Publish uploads the finalized index at path to store under name and
// verifies that the uploaded copy opens. A copy that fails verification
// is deleted again.
func Publish(ctx context.Context, store blobstore.BlobStore, name, path string, optFns ...Option) error {
	o := applyOptions(optFns)
	start := time.Now()

	if err := publish(ctx, store, name, path, o); err != nil {
		o.logger.ErrorContext(ctx, "publish failed", "path", path, "name", name, "error", err)
		return err
	}

	o.logger.InfoContext(ctx, "index published", "path", path, "name", name, "duration", time.Since(start))
	return nil
}

func publish(ctx context.Context, store blobstore.BlobStore, name, path string, o options) error {
	f, err := o.fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageReadFailure, err)
	}

	if err := store.Put(ctx, name, f, fi.Size()); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStorageWriteFailure, err)
	}

	r, err := OpenBlob(ctx, store, name, WithLogger(o.logger), WithCacheBytes(0))
	if err != nil {
		_ = store.Delete(context.WithoutCancel(ctx), name)
		return err
	}
	return r.Close()
}
