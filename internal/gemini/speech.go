// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Speech constants.
const (
	// DefaultSpeechModel is the text-to-speech model.
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"

	// DefaultVoice is the prebuilt voice used when the config names none.
	DefaultVoice = "Kore"

	// DefaultSampleRate is assumed when the reply MIME type names no rate.
	DefaultSampleRate = 24000
)

// ErrNoSpeechText indicates that Synthesize was handed nothing to say.
var ErrNoSpeechText = errors.New("no text to synthesize")

// transcribeInstruction accompanies recorded audio sent for transcription.
const transcribeInstruction = "Transcribe this audio recording verbatim. Reply with only the transcribed text."

// SpeechResult holds decoded synthesis output: raw PCM samples plus the
// sample rate recovered from the reply's MIME type.
type SpeechResult struct {
	PCM        []byte
	SampleRate int
	MIMEType   string
}

// Synthesize converts text to speech and returns the raw PCM payload.
//
// Unlike Generate, synthesis gets a single attempt. A lost utterance is
// not worth a retry storm; callers log the failure and move on.
func (c *Client) Synthesize(ctx context.Context, text string) (*SpeechResult, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoSpeechText
	}

	req := &GenerateRequest{
		Contents: []Content{NewUserContent(text)},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: VoiceConfig{
					PrebuiltVoiceConfig: PrebuiltVoiceConfig{VoiceName: c.voice},
				},
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.doGenerate(ctx, c.endpoint(c.speechModel), body)
	if err != nil {
		return nil, err
	}

	data, ok := resp.FirstInlineData()
	if !ok {
		return nil, ErrEmptyResponse
	}

	pcm, err := base64.StdEncoding.DecodeString(data.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode audio payload: %v", ErrInvalidResponse, err)
	}

	return &SpeechResult{
		PCM:        pcm,
		SampleRate: sampleRateFromMIME(data.MIMEType),
		MIMEType:   data.MIMEType,
	}, nil
}

// Transcribe sends a WAV recording for speech-to-text and returns the
// transcript. Like Synthesize, it gets a single attempt.
func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	if len(wav) == 0 {
		return "", ErrNoSpeechText
	}

	req := &GenerateRequest{
		Contents: []Content{{
			Role: RoleUser,
			Parts: []Part{
				{Text: transcribeInstruction},
				{InlineData: &InlineData{
					MIMEType: "audio/wav",
					Data:     base64.StdEncoding.EncodeToString(wav),
				}},
			},
		}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.doGenerate(ctx, c.endpoint(c.model), body)
	if err != nil {
		return "", err
	}

	text, ok := resp.FirstText()
	if !ok {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(text), nil
}

// sampleRateFromMIME recovers the sample rate from an audio MIME type such
// as "audio/L16;codec=pcm;rate=24000". Missing or malformed rate
// parameters fall back to DefaultSampleRate.
func sampleRateFromMIME(mimeType string) int {
	for _, field := range strings.Split(mimeType, ";") {
		field = strings.TrimSpace(field)
		if v, ok := strings.CutPrefix(field, "rate="); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return DefaultSampleRate
}
