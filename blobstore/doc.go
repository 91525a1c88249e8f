// Package blobstore provides the storage abstraction finalized indexes are
// read from and published to.
//
// An index file is immutable once finalized, so a store only needs to open
// blobs for ranged reads, put whole blobs and delete them. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, blobs are memory mapped
//   - MemoryStore: in-memory, for tests
//   - CachingStore: block cache in front of any remote store
//   - minio.Store: MinIO and other S3-compatible object stores
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// A reader fetches the header and directory once and afterwards only the
// blocks of the buckets a query touches, so remote stores work without
// downloading the whole index.
package blobstore
