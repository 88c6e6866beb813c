// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio provides WAV container encoding and subprocess-backed
// playback for synthesized speech.
package audio

import (
	"encoding/binary"
	"errors"
)

// =============================================================================
// WAV CONSTANTS
// =============================================================================

const (
	// HeaderSize is the fixed RIFF/WAVE header length in bytes.
	HeaderSize = 44

	// wavChannels is the channel count; synthesized speech is mono.
	wavChannels = 1

	// wavBitsPerSample is the sample depth of the PCM payload.
	wavBitsPerSample = 16
)

// ErrInvalidSampleRate reports a non-positive sample rate.
var ErrInvalidSampleRate = errors.New("audio: sample rate must be positive")

// =============================================================================
// WAV ENCODER
// =============================================================================

// EncodeWAV wraps raw 16-bit little-endian mono PCM samples in a minimal
// WAV container: a 44-byte header ("RIFF", "WAVE", "fmt ", "data" chunks,
// all integer fields little-endian) followed by the samples unchanged.
//
// The RIFF chunk size at bytes 4-7 is 36+len(pcm); the data chunk size at
// bytes 40-43 is len(pcm).
func EncodeWAV(pcm []byte, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	dataLen := len(pcm)
	byteRate := sampleRate * wavChannels * wavBitsPerSample / 8
	blockAlign := wavChannels * wavBitsPerSample / 8

	buf := make([]byte, HeaderSize+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(buf[22:24], wavChannels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], wavBitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	copy(buf[HeaderSize:], pcm)
	return buf, nil
}
