// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"sync"

	"github.com/jeranaias/aurora-tui/internal/logx"
)

// DefaultCaptureRate is the microphone sample rate. 16kHz mono is plenty
// for speech and keeps uploads small.
const DefaultCaptureRate = 16000

// Recorder errors.
var (
	// ErrNoRecorder indicates no capture tool was found on PATH.
	ErrNoRecorder = errors.New("no audio capture tool found (tried arecord, rec, sox, ffmpeg)")

	// ErrAlreadyRecording indicates Start was called while capturing.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrNotRecording indicates Stop was called while idle.
	ErrNotRecording = errors.New("not recording")
)

// Recorder captures microphone audio as raw 16-bit little-endian mono PCM.
type Recorder interface {
	// Start begins capturing. It returns once capture is running.
	Start(ctx context.Context) error

	// Stop ends capturing and returns the PCM recorded so far.
	Stop() ([]byte, error)

	// Recording reports whether a capture is in progress.
	Recording() bool

	// SampleRate returns the capture sample rate in Hz.
	SampleRate() int
}

// recorderCandidates returns capture commands to try, in order. Each
// writes raw S16LE mono PCM at the requested rate to stdout until killed.
func recorderCandidates(rate string) [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{
			{"rec", "-q", "-t", "raw", "-b", "16", "-e", "signed-integer", "-r", rate, "-c", "1", "-"},
			{"sox", "-q", "-d", "-t", "raw", "-b", "16", "-e", "signed-integer", "-r", rate, "-c", "1", "-"},
			{"ffmpeg", "-loglevel", "quiet", "-f", "avfoundation", "-i", ":0", "-f", "s16le", "-ar", rate, "-ac", "1", "-"},
		}
	case "windows":
		return [][]string{
			{"ffmpeg", "-loglevel", "quiet", "-f", "dshow", "-i", "audio=default", "-f", "s16le", "-ar", rate, "-ac", "1", "-"},
		}
	default:
		return [][]string{
			{"arecord", "-q", "-f", "S16_LE", "-r", rate, "-c", "1", "-t", "raw", "-"},
			{"rec", "-q", "-t", "raw", "-b", "16", "-e", "signed-integer", "-r", rate, "-c", "1", "-"},
			{"sox", "-q", "-d", "-t", "raw", "-b", "16", "-e", "signed-integer", "-r", rate, "-c", "1", "-"},
			{"ffmpeg", "-loglevel", "quiet", "-f", "alsa", "-i", "default", "-f", "s16le", "-ar", rate, "-ac", "1", "-"},
		}
	}
}

// findRecorderCommand returns the first capture command present on PATH.
func findRecorderCommand(rate string) ([]string, error) {
	for _, candidate := range recorderCandidates(rate) {
		if _, err := exec.LookPath(candidate[0]); err == nil {
			return candidate, nil
		}
	}
	return nil, ErrNoRecorder
}

// SubprocessRecorder captures microphone audio through an external tool.
// The zero value is not usable; call NewRecorder.
type SubprocessRecorder struct {
	mu         sync.Mutex
	cancel     context.CancelFunc
	done       chan struct{}
	buf        *bytes.Buffer
	command    []string // overrides PATH discovery when set
	sampleRate int
}

// NewRecorder creates a recorder capturing at DefaultCaptureRate.
func NewRecorder() *SubprocessRecorder {
	return &SubprocessRecorder{sampleRate: DefaultCaptureRate}
}

// WithCommand overrides the capture command. Used by tests.
func (r *SubprocessRecorder) WithCommand(command []string) *SubprocessRecorder {
	r.command = command
	return r
}

// WithRate overrides the capture sample rate. Non-positive rates are
// ignored.
func (r *SubprocessRecorder) WithRate(rate int) *SubprocessRecorder {
	if rate > 0 {
		r.sampleRate = rate
	}
	return r
}

// SampleRate returns the capture sample rate in Hz.
func (r *SubprocessRecorder) SampleRate() int {
	return r.sampleRate
}

// Recording reports whether a capture is in progress.
func (r *SubprocessRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Start launches the capture subprocess and begins buffering its output.
func (r *SubprocessRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return ErrAlreadyRecording
	}

	command := r.command
	if command == nil {
		found, err := findRecorderCommand(strconv.Itoa(r.sampleRate))
		if err != nil {
			return err
		}
		command = found
	}

	captureCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(captureCtx, command[0], command[1:]...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return err
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return err
	}

	buf := &bytes.Buffer{}
	done := make(chan struct{})

	// Drain stdout until the process exits. The buffer is only read after
	// done closes, so the copy needs no lock.
	go func() {
		defer close(done)
		if _, err := io.Copy(buf, stdout); err != nil && captureCtx.Err() == nil {
			logx.Warn().Err(err).Str("tool", command[0]).Msg("capture stream error")
		}
		if err := cmd.Wait(); err != nil && captureCtx.Err() == nil {
			logx.Warn().Err(err).Str("tool", command[0]).Msg("capture tool exited")
		}
	}()

	r.cancel = cancel
	r.done = done
	r.buf = buf
	logx.Debug().Str("tool", command[0]).Int("rate", r.sampleRate).Msg("capture started")
	return nil
}

// Stop kills the capture subprocess and returns the buffered PCM.
func (r *SubprocessRecorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel == nil {
		return nil, ErrNotRecording
	}

	r.cancel()
	<-r.done

	pcm := r.buf.Bytes()
	r.cancel = nil
	r.done = nil
	r.buf = nil

	logx.Debug().Int("bytes", len(pcm)).Msg("capture stopped")
	return pcm, nil
}
