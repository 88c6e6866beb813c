// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// WAV ENCODER TESTS
// =============================================================================

// TestEncodeWAVFourSamples verifies the exact container layout for a
// 4-sample payload at 24 kHz: 44-byte header + 8 data bytes = 52 bytes,
// RIFF chunk size 44 at bytes 4-7, data chunk size 8 at bytes 40-43.
func TestEncodeWAVFourSamples(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00} // 4 16-bit samples

	wav, err := EncodeWAV(pcm, 24000)
	require.NoError(t, err)

	require.Len(t, wav, 52)
	assert.Equal(t, uint32(44), binary.LittleEndian.Uint32(wav[4:8]), "RIFF chunk size")
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(wav[40:44]), "data chunk size")
}

func TestEncodeWAVHeaderFields(t *testing.T) {
	pcm := make([]byte, 480) // 240 samples, 10ms at 24kHz

	wav, err := EncodeWAV(pcm, 24000)
	require.NoError(t, err)

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(wav[16:20]), "fmt chunk size")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]), "PCM format tag")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "channel count")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]), "sample rate")
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]), "bits per sample")
}

func TestEncodeWAVPayloadUnchanged(t *testing.T) {
	pcm := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	wav, err := EncodeWAV(pcm, 16000)
	require.NoError(t, err)

	assert.Equal(t, pcm, wav[HeaderSize:])
}

func TestEncodeWAVEmptyPayload(t *testing.T) {
	wav, err := EncodeWAV(nil, 24000)
	require.NoError(t, err)

	assert.Len(t, wav, HeaderSize)
	assert.Equal(t, uint32(36), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(wav[40:44]))
}

func TestEncodeWAVInvalidSampleRate(t *testing.T) {
	for _, rate := range []int{0, -1, -24000} {
		_, err := EncodeWAV([]byte{0, 0}, rate)
		assert.ErrorIs(t, err, ErrInvalidSampleRate, "rate %d", rate)
	}
}

func TestEncodeWAVCommonRates(t *testing.T) {
	tests := []struct {
		rate     int
		byteRate uint32
	}{
		{16000, 32000},
		{22050, 44100},
		{24000, 48000},
		{44100, 88200},
		{48000, 96000},
	}

	for _, tc := range tests {
		wav, err := EncodeWAV(make([]byte, 32), tc.rate)
		require.NoError(t, err)
		assert.Equal(t, uint32(tc.rate), binary.LittleEndian.Uint32(wav[24:28]))
		assert.Equal(t, tc.byteRate, binary.LittleEndian.Uint32(wav[28:32]))
	}
}
