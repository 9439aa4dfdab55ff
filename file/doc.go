// Package file provides storage sinks for completed multipart uploads.
//
// The package includes:
//   - A Storage interface for persisting decoded uploads
//   - LocalStorage implementation for filesystem storage
//   - S3Storage implementation for AWS S3 and compatible services
//   - Helper functions for filename sanitization and MIME detection
//
// Example usage with LocalStorage:
//
//	storage, err := file.NewLocalStorage("./data", "/files/")
//	if err != nil {
//	    return err
//	}
//
//	form, err := binder.ParseRequest(r)
//	if err != nil {
//	    return err
//	}
//	defer form.Close()
//
//	if f := form.File("avatar"); f != nil {
//	    info, err := storage.Save(ctx, f, "avatars/"+f.Filename())
//	    if err != nil {
//	        return err
//	    }
//	    url := storage.URL(info.RelativePath)
//	}
//
// Example usage with S3Storage:
//
//	storage, err := file.NewS3Storage(ctx, file.S3Config{
//	    Bucket:      "my-bucket",
//	    Region:      "us-east-1",
//	    AccessKeyID: "key",
//	    SecretKey:   "secret",
//	})
//	if err != nil {
//	    return err
//	}
//
//	info, err := storage.Save(ctx, f, "uploads/avatar.jpg")
package file
