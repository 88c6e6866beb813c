// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package gemini provides the client for the Google generative language API.

The package covers the three request shapes aurora dispatches (plain chat,
chat with an inline image, transcript summarization) plus speech synthesis
and speech-to-text for the voice loop.

# Key Components

## Client (client.go)

The Client struct wraps the generateContent endpoint:
  - Exponential backoff retry for transient failures (2s, 4s, 8s)
  - Fail-fast on client errors, cancellation, and empty replies
  - Rate limiting between dispatches via golang.org/x/time/rate
  - Secure logging: no keys, no headers, no bodies

## Wire Types (types.go)

Request and response structures matching the v1beta JSON shapes, plus
builders for the three request kinds. Note the API names the assistant
role "model"; BuildSummaryRequest callers map transcript roles with
NewUserContent and NewModelContent.

## Speech (speech.go)

Synthesize returns raw PCM plus the sample rate recovered from the reply
MIME type ("audio/L16;...;rate=24000"). Transcribe sends a WAV recording
and returns the transcript. Both are single-attempt: a lost utterance is
logged, never retried.

## Errors (errors.go)

Sentinel errors, the APIError type, and Classify, which maps any error
from this package onto a coarse ErrorKind. The chat view picks fallback
wording from the kind rather than matching error strings.

# Usage

Create a client and dispatch a request:

	client := gemini.NewClient(os.Getenv("GEMINI_API_KEY"))
	client.SetModel("flash")

	text, err := client.Generate(ctx, gemini.BuildTextRequest("hello"))
	if err != nil {
		switch gemini.Classify(err) {
		case gemini.ErrorKindInvalidResponse:
			// the API answered but said nothing usable
		default:
			// transport or status failure, already retried
		}
	}
*/
package gemini
