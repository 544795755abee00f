package storage

import "strings"

// ImageCDN builds public URLs for stored images with transformation
// segments baked into the path, so the CDN serves resized, recompressed
// variants without any server-side image processing.
type ImageCDN struct {
	baseURL string
}

// Transformation presets per image role.
const (
	transformPost    = "tr:q-auto,f-webp,w-1280"
	transformAvatar  = "tr:q-auto,f-webp,w-512"
	transformCover   = "tr:q-auto,f-webp,w-1600"
	transformMessage = "tr:q-auto,f-webp,w-960"
)

// NewImageCDN creates a URL builder for the given CDN base URL.
func NewImageCDN(baseURL string) *ImageCDN {
	return &ImageCDN{baseURL: strings.TrimRight(baseURL, "/")}
}

// PostImageURL returns the display URL for a post image.
func (c *ImageCDN) PostImageURL(path string) string {
	return c.url(transformPost, path)
}

// AvatarURL returns the display URL for a profile picture.
func (c *ImageCDN) AvatarURL(path string) string {
	return c.url(transformAvatar, path)
}

// CoverURL returns the display URL for a profile cover photo.
func (c *ImageCDN) CoverURL(path string) string {
	return c.url(transformCover, path)
}

// MessageImageURL returns the display URL for an image sent in a direct
// message.
func (c *ImageCDN) MessageImageURL(path string) string {
	return c.url(transformMessage, path)
}

func (c *ImageCDN) url(transformation, path string) string {
	return c.baseURL + "/" + transformation + "/" + strings.TrimLeft(path, "/")
}
