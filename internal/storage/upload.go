package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// maxUploadBytes caps a single uploaded image.
const maxUploadBytes = 20 << 20 // 20 MiB

// ErrNotAnImage is returned when an upload's sniffed content type is not an
// image. The client-declared content type is ignored.
var ErrNotAnImage = fmt.Errorf("uploaded file is not an image")

// SaveUpload stores one uploaded image under the given folder and returns
// its storage path. The file content is sniffed; the extension comes from
// the detected type, never from the client filename.
func SaveUpload(ctx context.Context, store Store, folder string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return "", fmt.Errorf("upload exceeds %d bytes", maxUploadBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrNotAnImage
	}

	path := folder + "/" + uuid.NewString() + mtype.Extension()
	if _, err := store.Save(ctx, path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return path, nil
}
