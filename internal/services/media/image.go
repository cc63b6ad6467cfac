package media

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"
)

const ProductFolder = "products"

var extensionsByType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type DecodedImage struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeDataURL parses "data:image/png;base64,...." payloads sent by the admin UI.
func DecodeDataURL(raw string) (DecodedImage, error) {
	raw = strings.TrimSpace(raw)
	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return DecodedImage{}, fmt.Errorf("image is not a base64 data url: %w", ErrValidation)
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext, ok := extensionsByType[contentType]
	if !ok {
		return DecodedImage{}, fmt.Errorf("unsupported image type %q: %w", contentType, ErrValidation)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return DecodedImage{}, fmt.Errorf("decode image payload: %w", ErrValidation)
	}

	return DecodedImage{Data: data, ContentType: contentType, Extension: ext}, nil
}

// KeyFromURL recovers products/<name> from a stored public image URL.
func KeyFromURL(imageURL string) string {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return ""
	}
	name := path.Base(imageURL)
	if name == "." || name == "/" {
		return ""
	}
	return ProductFolder + "/" + name
}
