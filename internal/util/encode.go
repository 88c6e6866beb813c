// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// imageMIMETypes maps file extensions to the content types the vision
// endpoint accepts.
var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Encoding errors.
var (
	// ErrUnsupportedImage indicates a file extension outside the accepted set.
	ErrUnsupportedImage = errors.New("unsupported image type (want png, jpg, gif, or webp)")

	// ErrInvalidDataURI indicates a malformed data: URI.
	ErrInvalidDataURI = errors.New("invalid data URI")
)

// DetectImageMIME returns the content type for an image path, judged by
// extension.
func DetectImageMIME(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := imageMIMETypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}
	return mimeType, nil
}

// EncodeDataURI packs bytes into a data:<mime>;base64,... URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI unpacks a base64 data URI into its content type and bytes.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}
	mimeType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	if mimeType == "" {
		return "", nil, fmt.Errorf("%w: missing content type", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mimeType, data, nil
}
