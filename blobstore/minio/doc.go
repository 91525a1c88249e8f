// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is a high-performance, S3-compatible object storage system. This package
// uses the official MinIO Go client library and works with other S3-compatible
// storage systems like Ceph, SeaweedFS, and Garage.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "indexes/")
//	if err := simgo.Publish(ctx, store, "names.sim", "names.sim"); err != nil {
//	    log.Fatal(err)
//	}
//	r, err := simgo.OpenBlob(ctx, store, "names.sim")
//
// Reads are ranged GETs pinned to the ETag seen at open time, so a reader
// never mixes blocks of two different index versions.
package minio
