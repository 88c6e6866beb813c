// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/jeranaias/aurora-tui/internal/logx"
)

// ErrNoPlayer reports that no audio player executable could be found.
var ErrNoPlayer = errors.New("audio: no player executable found")

// =============================================================================
// PLAYER EXECUTABLE LOOKUP
// =============================================================================

// playerCandidates lists player commands in preference order per
// platform. Extra args precede the file path.
func playerCandidates() [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{
			{"afplay"},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
		}
	case "windows":
		return [][]string{
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
		}
	default:
		return [][]string{
			{"paplay"},
			{"aplay", "-q"},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
		}
	}
}

// findPlayerCommand locates the first available player on PATH.
func findPlayerCommand() ([]string, error) {
	for _, cand := range playerCandidates() {
		if path, err := exec.LookPath(cand[0]); err == nil {
			out := make([]string, len(cand))
			copy(out, cand)
			out[0] = path
			return out, nil
		}
	}
	return nil, ErrNoPlayer
}

// =============================================================================
// SINGLE-SLOT PLAYER
// =============================================================================

// Player plays WAV payloads through a platform audio subprocess.
//
// Playback is single-slot: starting a new playback cancels the previous
// one first, so narrations never overlap. All methods are safe for
// concurrent use.
type Player struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// command overrides the platform player lookup. The WAV file path is
	// appended as the final argument.
	command []string
}

// NewPlayer creates a player using the platform default executable.
func NewPlayer() *Player {
	return &Player{}
}

// WithCommand overrides the player command (used by tests and the
// speech.player config setting).
func (p *Player) WithCommand(command []string) *Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.command = command
	return p
}

// Play starts playback of a WAV payload, cancelling any playback still
// in flight. It returns once the subprocess has started; completion and
// cleanup happen in the background. The temp file holding the payload is
// removed when the subprocess exits.
func (p *Player) Play(ctx context.Context, wav []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Single-slot: tear down the previous playback before starting.
	p.stopLocked()

	command := p.command
	if command == nil {
		found, err := findPlayerCommand()
		if err != nil {
			return err
		}
		command = found
	}

	f, err := os.CreateTemp("", "aurora-speech-*.wav")
	if err != nil {
		return fmt.Errorf("audio: create temp file: %w", err)
	}
	if _, err := f.Write(wav); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("audio: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("audio: close temp file: %w", err)
	}

	playCtx, cancel := context.WithCancel(ctx)
	args := append(append([]string{}, command[1:]...), f.Name())
	cmd := exec.CommandContext(playCtx, command[0], args...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		cancel()
		os.Remove(f.Name())
		return fmt.Errorf("audio: start player: %w", err)
	}

	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		defer os.Remove(f.Name())
		if err := cmd.Wait(); err != nil && playCtx.Err() == nil {
			// Playback failure is logged, never surfaced.
			logx.Warn().Err(err).Str("player", command[0]).Msg("speech playback failed")
		}
	}()

	return nil
}

// Stop cancels any in-flight playback and waits for its cleanup.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// stopLocked cancels the current playback. Caller holds p.mu.
func (p *Player) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.done != nil {
		<-p.done
		p.done = nil
	}
}

// Wait blocks until the in-flight playback finishes. It returns
// immediately when nothing is playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Playing reports whether a playback subprocess is currently running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Close stops playback and releases resources.
func (p *Player) Close() error {
	p.Stop()
	return nil
}
