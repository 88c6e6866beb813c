// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio provides WAV container encoding and playback for
// synthesized speech.
//
// The speech endpoint returns raw 16-bit little-endian mono PCM;
// EncodeWAV wraps it in a minimal 44-byte RIFF/WAVE header so any
// platform player can consume it. Player launches that player as a
// subprocess with single-slot semantics: a new narration always cancels
// the previous one.
package audio
