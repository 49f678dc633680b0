// Package storage wraps the MinIO client for the run report archive.
//
// The Client interface covers only what archiving needs so it can be mocked
// (see core/storage/mocks). Works against AWS S3 and self-hosted MinIO.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
