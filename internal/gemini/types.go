// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// Role values accepted by the generative language API. Note that the API
// calls the assistant side "model", not "assistant".
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Content is a single conversational turn: a role plus one or more parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one fragment of a turn. Exactly one field should be set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded binary media inline in a request or
// response, tagged with its MIME type.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig tunes the generation call. Only the speech fields are
// used here; plain chat requests omit the config entirely.
type GenerationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

// SpeechConfig selects the synthesis voice for audio responses.
type SpeechConfig struct {
	VoiceConfig VoiceConfig `json:"voiceConfig"`
}

// VoiceConfig wraps the prebuilt voice selection.
type VoiceConfig struct {
	PrebuiltVoiceConfig PrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

// PrebuiltVoiceConfig names one of the API's stock voices.
type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// GenerateRequest is the body posted to the generateContent endpoint.
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated alternative in a response.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// UsageMetadata reports token accounting for a generation call.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// GenerateResponse is the body returned by the generateContent endpoint.
type GenerateResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

// FirstText returns the first non-empty text part of the first candidate.
// The second return value is false when the response carries no usable text.
func (r *GenerateResponse) FirstText() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text, true
		}
	}
	return "", false
}

// FirstInlineData returns the first inline data part of the first candidate.
// Audio responses deliver their PCM payload this way.
func (r *GenerateResponse) FirstInlineData() (*InlineData, bool) {
	if len(r.Candidates) == 0 {
		return nil, false
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData, true
		}
	}
	return nil, false
}

// apiErrorResponse is the error envelope the API wraps non-2xx bodies in.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// =============================================================================
// REQUEST KINDS
// =============================================================================

// RequestKind distinguishes the three request shapes the client dispatches.
// The UI keys its fallback wording off the kind of the request that failed.
type RequestKind int

const (
	// KindChat is a plain single-turn text request.
	KindChat RequestKind = iota

	// KindVision is a text request with an inline image attached.
	KindVision

	// KindSummary replays the transcript and asks for a summary.
	KindSummary
)

// String returns a short name for logging.
func (k RequestKind) String() string {
	switch k {
	case KindChat:
		return "chat"
	case KindVision:
		return "vision"
	case KindSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// =============================================================================
// CONTENT CONSTRUCTORS
// =============================================================================

// NewUserContent creates a user turn with a single text part.
func NewUserContent(text string) Content {
	return Content{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// NewModelContent creates a model turn with a single text part.
func NewModelContent(text string) Content {
	return Content{Role: RoleModel, Parts: []Part{{Text: text}}}
}

// summaryInstruction is the final user turn appended by BuildSummaryRequest.
const summaryInstruction = "Summarize the conversation so far in a few short sentences."

// BuildTextRequest builds a single-turn text request. Each chat dispatch
// stands alone; no prior transcript is replayed.
func BuildTextRequest(prompt string) *GenerateRequest {
	return &GenerateRequest{
		Contents: []Content{NewUserContent(prompt)},
	}
}

// BuildImageRequest builds a single-turn request pairing a text prompt with
// an inline image. The data argument must already be base64 encoded.
func BuildImageRequest(prompt, mimeType, data string) *GenerateRequest {
	return &GenerateRequest{
		Contents: []Content{{
			Role: RoleUser,
			Parts: []Part{
				{Text: prompt},
				{InlineData: &InlineData{MIMEType: mimeType, Data: data}},
			},
		}},
	}
}

// BuildSummaryRequest replays the given transcript and appends an
// instruction turn asking for a summary. Callers map their own entry roles
// onto API roles with NewUserContent and NewModelContent.
func BuildSummaryRequest(transcript []Content) *GenerateRequest {
	contents := make([]Content, 0, len(transcript)+1)
	contents = append(contents, transcript...)
	contents = append(contents, NewUserContent(summaryInstruction))
	return &GenerateRequest{Contents: contents}
}
