package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"climate-hub/gcs"
)

// MaxPhotoBytes caps a single decoded photo.
const MaxPhotoBytes = 5 * 1024 * 1024

var (
	ErrInvalidPhoto  = errors.New("photo must be an image data URL or an http(s) URL")
	ErrPhotoTooLarge = errors.New("photo is too large, max size is 5MB")
)

// PhotoStore turns a submitted photo into the string kept on the report.
type PhotoStore interface {
	Save(ctx context.Context, photo string) (string, error)
}

// DecodeDataURL parses a base64 "data:image/...;base64,..." URL.
func DecodeDataURL(photo string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(photo, "data:")
	if !ok {
		return "", nil, ErrInvalidPhoto
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidPhoto
	}
	contentType, encoding, _ := strings.Cut(meta, ";")
	if !strings.HasPrefix(contentType, "image/") || encoding != "base64" {
		return "", nil, ErrInvalidPhoto
	}
	// base64 expands by 4/3; reject early before allocating.
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxPhotoBytes+2 {
		return "", nil, ErrPhotoTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
	}
	if len(data) > MaxPhotoBytes {
		return "", nil, ErrPhotoTooLarge
	}
	return contentType, data, nil
}

func isRemoteURL(photo string) bool {
	return strings.HasPrefix(photo, "https://") || strings.HasPrefix(photo, "http://")
}

// InlinePhotoStore validates data URLs and keeps them on the report as-is.
type InlinePhotoStore struct{}

func (InlinePhotoStore) Save(_ context.Context, photo string) (string, error) {
	if isRemoteURL(photo) {
		return photo, nil
	}
	if _, _, err := DecodeDataURL(photo); err != nil {
		return "", err
	}
	return photo, nil
}

// GCSPhotoStore uploads data URLs to the cloud storage bucket and keeps the public URL.
type GCSPhotoStore struct {
	Folder string
}

func (s GCSPhotoStore) Save(ctx context.Context, photo string) (string, error) {
	if isRemoteURL(photo) {
		return photo, nil
	}
	contentType, data, err := DecodeDataURL(photo)
	if err != nil {
		return "", err
	}
	return gcs.UploadImage(ctx, bytes.NewReader(data), contentType, s.Folder)
}
