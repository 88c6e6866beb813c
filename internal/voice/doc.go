// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package voice captures microphone audio and turns it into chat input.

SubprocessRecorder shells out to the first available capture tool
(arecord, rec, sox, or ffmpeg depending on platform) and buffers raw
16-bit mono PCM until stopped. Controller packages a finished capture as
WAV and hands it to a Transcriber, normally the gemini client.

The chat view owns the idle/listening toggle; this package only knows how
to record and transcribe:

	rec := voice.NewRecorder()
	ctl := voice.NewController(rec, client)

	if err := ctl.Start(ctx); err != nil { ... }
	// later
	transcript, err := ctl.StopAndTranscribe(ctx)
*/
package voice
