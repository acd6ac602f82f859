// SPDX-License-Identifier: MIT

package capability

import "context"

// reviewerClient implements Reviewer over the shared HTTPClient; used for
// both the Light and Heavy reviewer capabilities, which share a wire shape.
type reviewerClient struct {
	http *HTTPClient
	path string
}

// NewLightReviewer builds a Reviewer client for the Light capability.
func NewLightReviewer(http *HTTPClient) Reviewer {
	return &reviewerClient{http: http, path: "/review"}
}

// NewHeavyReviewer builds a Reviewer client for the Heavy capability.
func NewHeavyReviewer(http *HTTPClient) Reviewer {
	return &reviewerClient{http: http, path: "/review"}
}

type reviewWireRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type reviewWireResponse struct {
	Tags       []string `json:"tags"`
	Summary    string   `json:"summary"`
	Confidence float64  `json:"confidence"`
}

func (c *reviewerClient) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	var wire reviewWireResponse
	if err := c.http.DoJSON(ctx, c.path, reviewWireRequest{Title: req.Title, Content: req.Content}, &wire); err != nil {
		return ReviewResponse{}, err
	}
	return ReviewResponse{
		Tags:       wire.Tags,
		Summary:    wire.Summary,
		Confidence: ClampConfidence(wire.Confidence),
	}, nil
}

type writerClient struct{ http *HTTPClient }

// NewWriter builds a Writer client for the per-presenter brief capability.
func NewWriter(http *HTTPClient) Writer { return &writerClient{http: http} }

type briefWireRequest struct {
	PresenterID        string   `json:"presenter_id"`
	CollectionSnapshot []string `json:"collection_snapshot"`
}

type briefWireResponse struct {
	Text string `json:"text"`
}

func (c *writerClient) Brief(ctx context.Context, req BriefRequest) (BriefResponse, error) {
	var wire briefWireResponse
	if err := c.http.DoJSON(ctx, "/brief", briefWireRequest{
		PresenterID:        req.PresenterID,
		CollectionSnapshot: req.CollectionSnapshot,
	}, &wire); err != nil {
		return BriefResponse{}, err
	}
	return BriefResponse{Text: wire.Text}, nil
}

type scriptWriterClient struct{ http *HTTPClient }

// NewScriptWriter builds a ScriptWriter client for the script capability.
func NewScriptWriter(http *HTTPClient) ScriptWriter { return &scriptWriterClient{http: http} }

type scriptWireRequest struct {
	GroupID       string   `json:"group_id"`
	Briefs        []string `json:"briefs"`
	Snapshot      []string `json:"snapshot"`
	TargetMinutes int      `json:"target_duration_min"`
}

type scriptWireResponse struct {
	Script    string `json:"script"`
	WordCount int    `json:"word_count"`
}

func (c *scriptWriterClient) Script(ctx context.Context, req ScriptRequest) (ScriptResponse, error) {
	var wire scriptWireResponse
	if err := c.http.DoJSON(ctx, "/script", scriptWireRequest{
		GroupID:       req.GroupID,
		Briefs:        req.Briefs,
		Snapshot:      req.Snapshot,
		TargetMinutes: req.TargetDurationMinutes,
	}, &wire); err != nil {
		return ScriptResponse{}, err
	}
	return ScriptResponse{Script: wire.Script, WordCount: wire.WordCount}, nil
}

type editorClient struct{ http *HTTPClient }

// NewEditor builds an Editor client for the edit capability.
func NewEditor(http *HTTPClient) Editor { return &editorClient{http: http} }

type editWireRequest struct {
	Script string `json:"script"`
}

type editWireResponse struct {
	EditedScript string   `json:"edited_script"`
	Notes        []string `json:"notes"`
}

func (c *editorClient) Edit(ctx context.Context, req EditRequest) (EditResponse, error) {
	var wire editWireResponse
	if err := c.http.DoJSON(ctx, "/edit", editWireRequest{Script: req.Script}, &wire); err != nil {
		return EditResponse{}, err
	}
	return EditResponse{EditedScript: wire.EditedScript, Notes: wire.Notes}, nil
}

type metadataClient struct{ http *HTTPClient }

// NewMetadataGenerator builds a MetadataGenerator client.
func NewMetadataGenerator(http *HTTPClient) MetadataGenerator { return &metadataClient{http: http} }

type metadataWireRequest struct {
	Script  string `json:"script"`
	GroupID string `json:"group_id"`
}

type metadataWireResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Keywords    []string `json:"keywords"`
}

func (c *metadataClient) Generate(ctx context.Context, req MetadataRequest) (MetadataResponse, error) {
	var wire metadataWireResponse
	if err := c.http.DoJSON(ctx, "/metadata", metadataWireRequest{Script: req.Script, GroupID: req.GroupID}, &wire); err != nil {
		return MetadataResponse{}, err
	}
	return MetadataResponse{
		Title:       wire.Title,
		Description: wire.Description,
		Tags:        wire.Tags,
		Keywords:    wire.Keywords,
	}, nil
}

type synthesizerClient struct{ http *HTTPClient }

// NewSynthesizer builds a Synthesizer client for the TTS capability.
func NewSynthesizer(http *HTTPClient) Synthesizer { return &synthesizerClient{http: http} }

type synthesizeWireRequest struct {
	EpisodeID        string            `json:"episode_id"`
	Script           string            `json:"script"`
	VoiceAssignments map[string]string `json:"voice_assignments"`
}

type synthesizeWireResponse struct {
	AudioURL        string `json:"audio_url"`
	DurationSeconds int    `json:"duration_seconds"`
	ByteSize        int64  `json:"byte_size"`
	Format          string `json:"format"`
}

func (c *synthesizerClient) Synthesize(ctx context.Context, req SynthesizeRequest) (SynthesizeResponse, error) {
	var wire synthesizeWireResponse
	if err := c.http.DoJSON(ctx, "/synthesize", synthesizeWireRequest{
		EpisodeID:        req.EpisodeID,
		Script:           req.Script,
		VoiceAssignments: req.VoiceAssignments,
	}, &wire); err != nil {
		return SynthesizeResponse{}, err
	}
	return SynthesizeResponse{
		AudioURL:        wire.AudioURL,
		DurationSeconds: wire.DurationSeconds,
		ByteSize:        wire.ByteSize,
		Format:          wire.Format,
	}, nil
}
