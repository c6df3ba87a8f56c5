// Package file validates uploaded images and stores them on local disk or in
// S3-compatible object storage.
//
// Both backends implement Storage:
//
//	storage, err := file.New(ctx, cfg)
//	if err := file.ValidateImage(fh); err != nil {
//		return err
//	}
//	saved, err := storage.Save(ctx, fh, "profile_images/"+id+"/"+name)
//	url := storage.URL(saved.RelativePath)
//
// Paths are slash separated and relative to the backend root. Paths that
// escape the root are rejected with ErrInvalidPath.
package file
