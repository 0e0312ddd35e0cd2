// Package s3 implements storage.Storage on Amazon S3 and S3-compatible
// services (MinIO, Spaces, Wasabi) with the AWS SDK v2.
//
//	store, err := s3.New(ctx, s3.Config{
//		Bucket: "shop-images",
//		Region: "eu-central-1",
//	})
//	file, err := store.Save(ctx, fh, "images/2024-01-02T03-04-05.000Z-photo.png")
//	url := store.URL(file.RelativePath)
//
// Credentials fall back to the default AWS chain (env, IAM role) when
// AccessKeyID and SecretKey are empty. Set Endpoint and ForcePathStyle for
// S3-compatible services, and BaseURL for a CDN in front of the bucket.
package s3
