// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/aurora-tui/internal/audio"
	"github.com/jeranaias/aurora-tui/internal/logx"
)

// Controller errors.
var (
	// ErrNoAudio indicates the capture window produced no samples.
	ErrNoAudio = errors.New("no audio captured")

	// ErrNoSpeech indicates the recording transcribed to nothing.
	ErrNoSpeech = errors.New("no speech detected")
)

// Transcriber turns a WAV recording into text. The gemini client
// satisfies this.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// Controller runs the capture half of the voice loop: start the
// microphone, stop it, package the samples, and hand them off for
// transcription. It holds no UI state; the chat view owns the
// idle/listening toggle and calls down here.
type Controller struct {
	recorder    Recorder
	transcriber Transcriber
}

// NewController wires a recorder to a transcriber.
func NewController(recorder Recorder, transcriber Transcriber) *Controller {
	return &Controller{recorder: recorder, transcriber: transcriber}
}

// Listening reports whether the microphone is live.
func (c *Controller) Listening() bool {
	return c.recorder.Recording()
}

// Start opens the microphone.
func (c *Controller) Start(ctx context.Context) error {
	return c.recorder.Start(ctx)
}

// StopAndTranscribe closes the microphone, encodes the captured PCM as
// WAV, and returns its transcript. An empty capture or an empty
// transcript is an error; callers surface it as a status line, not as a
// transcript entry.
func (c *Controller) StopAndTranscribe(ctx context.Context) (string, error) {
	pcm, err := c.recorder.Stop()
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", ErrNoAudio
	}

	wav, err := audio.EncodeWAV(pcm, c.recorder.SampleRate())
	if err != nil {
		return "", fmt.Errorf("encode recording: %w", err)
	}

	start := time.Now()
	text, err := c.transcriber.Transcribe(ctx, wav)
	if err != nil {
		return "", fmt.Errorf("transcribe recording: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoSpeech
	}

	logx.Debug().
		Int("pcm_bytes", len(pcm)).
		Dur("elapsed", time.Since(start)).
		Msg("recording transcribed")
	return text, nil
}

// Discard closes the microphone and drops the capture without
// transcribing it.
func (c *Controller) Discard() error {
	_, err := c.recorder.Stop()
	return err
}
