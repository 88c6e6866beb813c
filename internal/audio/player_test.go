// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SINGLE-SLOT PLAYER TESTS
// =============================================================================

// slowCommand blocks for several seconds; the appended WAV path lands in
// $0 and is ignored.
func slowCommand() []string {
	return []string{"sh", "-c", "sleep 5"}
}

// TestPlayCancelsPrevious verifies the single-slot law: a second Play
// must cancel the first playback instead of overlapping it.
func TestPlayCancelsPrevious(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	p := NewPlayer().WithCommand(slowCommand())
	defer p.Close()

	ctx := context.Background()
	require.NoError(t, p.Play(ctx, []byte("fake-wav")))
	assert.True(t, p.Playing())

	// The second Play tears down the first subprocess; it must not wait
	// out the full sleep.
	start := time.Now()
	require.NoError(t, p.Play(ctx, []byte("fake-wav-2")))
	assert.Less(t, time.Since(start), 3*time.Second, "previous playback was not cancelled")

	p.Stop()
	assert.False(t, p.Playing())
}

func TestStopIdempotent(t *testing.T) {
	p := NewPlayer()
	// Stop with nothing in flight must not panic or block.
	p.Stop()
	p.Stop()
	assert.False(t, p.Playing())
}

func TestPlayCompletionClearsPlaying(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	p := NewPlayer().WithCommand([]string{"sh", "-c", "exit 0"})
	defer p.Close()

	require.NoError(t, p.Play(context.Background(), []byte("fake-wav")))

	deadline := time.Now().Add(5 * time.Second)
	for p.Playing() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.False(t, p.Playing(), "playback did not settle")
}

func TestPlayMissingExecutable(t *testing.T) {
	p := NewPlayer().WithCommand([]string{"aurora-player-that-does-not-exist"})

	err := p.Play(context.Background(), []byte("fake-wav"))
	assert.Error(t, err)
	assert.False(t, p.Playing())
}

func TestWaitBlocksUntilDone(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	p := NewPlayer().WithCommand([]string{"sh", "-c", "sleep 0.2"})
	defer p.Close()

	require.NoError(t, p.Play(context.Background(), []byte("fake-wav")))
	p.Wait()
	assert.False(t, p.Playing(), "Wait returned while playback was live")

	// Wait with nothing in flight returns immediately.
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked with no playback in flight")
	}
}
