// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the aurora application.
//
// This package contains common helper functions used throughout the
// application for string display, attachment encoding, and file
// operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, PadRight, StringWidth: display-width aware helpers
//     (CJK double-width handled via go-runewidth)
//
// Attachment Encoding:
//   - DetectImageMIME: content type from file extension
//   - EncodeDataURI, ParseDataURI: data:<mime>;base64 round trip
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateRunes(longText, 50)
//
//	// Pack an image for inline transport
//	uri := util.EncodeDataURI("image/png", data)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
