// Package storage stores uploaded files behind a small interface with a
// local filesystem implementation. The S3 implementation lives in
// integration/storage/s3.
//
//	store, err := storage.NewLocal("images", "/images")
//	file, err := store.Save(ctx, fh, "2024-01-02T03-04-05.000Z-photo.png")
//	url := store.URL(file.RelativePath) // "/images/2024-01-02T03-04-05.000Z-photo.png"
package storage
