// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "path/filepath"

// PendingImage is a transient image attachment. It exists from selection
// until the next send consumes it or the user discards it; it is never
// part of the transcript itself.
type PendingImage struct {
	// Path is the local file the image was read from.
	Path string
	// MIMEType is the declared content type (image/png, image/jpeg, ...).
	MIMEType string
	// Data holds the raw image bytes, ready for base64 transport encoding.
	Data []byte
	// DataURI is the data:<mime>;base64,... form used for previews.
	DataURI string
}

// DisplayRef returns the short reference recorded on the transcript
// entry that consumed this attachment.
func (p *PendingImage) DisplayRef() string {
	if p == nil {
		return ""
	}
	return filepath.Base(p.Path)
}

// Size returns the attachment payload size in bytes.
func (p *PendingImage) Size() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}
