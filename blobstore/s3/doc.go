// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("indexes/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = simgo.Publish(ctx, store, "names.sim", "names.sim")
//	r, err := simgo.OpenBlob(ctx, store, "names.sim")
//
// # Features
//
//   - Range reads pinned to the ETag seen at open time
//   - Multipart uploads with CRC32C checksums for large indexes
//   - Configurable prefix for multi-tenant isolation
package s3
