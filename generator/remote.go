package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	pitchPath         = "/generate-pitch"
	detailedPitchPath = "/generate-detailed-pitch"
)

type remoteOptions struct {
	TargetAudience    string  `json:"target_audience"`
	Industry          *string `json:"industry"`
	FundingStage      string  `json:"funding_stage"`
	PresentationStyle string  `json:"presentation_style"`
	BusinessModel     *string `json:"business_model"`
	CompetitorContext *string `json:"competitor_context"`
	RequestID         string  `json:"request_id"`
}

type remotePayload struct {
	Idea    string        `json:"idea"`
	Options remoteOptions `json:"options"`
}

type remoteResp struct {
	PitchDeck string `json:"pitch_deck"`
	Error     string `json:"error"`
	Detail    string `json:"detail"`
}

// RemoteClient calls the pitch deck generation service over HTTP.
type RemoteClient struct {
	baseURL string
	client  *http.Client
}

// NewRemoteClient creates a client for baseURL. A nil client gets a 120s timeout.
func NewRemoteClient(baseURL string, client *http.Client) (*RemoteClient, error) {
	if baseURL == "" {
		return nil, errors.New("generation base_url is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &RemoteClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}, nil
}

func (c *RemoteClient) GeneratePitch(ctx context.Context, req GenerationRequest) (string, error) {
	return c.post(ctx, pitchPath, req)
}

func (c *RemoteClient) GenerateDetailedPitch(ctx context.Context, req GenerationRequest) (string, error) {
	return c.post(ctx, detailedPitchPath, req)
}

func (c *RemoteClient) post(ctx context.Context, path string, req GenerationRequest) (string, error) {
	body, err := json.Marshal(newRemotePayload(req))
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", req.RequestID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", Classify(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Classify(err)
	}

	var data remoteResp
	if jsonErr := json.Unmarshal(raw, &data); jsonErr != nil {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return "", &ServiceFault{Message: ErrorMarker + " The generation service returned an unreadable response.", StatusCode: resp.StatusCode}
		}
		return "", apiFault(resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	msg := data.Error
	if msg == "" {
		msg = data.Detail
	}
	switch {
	case msg != "" && (resp.StatusCode >= 200 && resp.StatusCode <= 299):
		return "", &ServiceFault{Message: withMarker(msg), StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		if msg == "" {
			return "", apiFault(resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		if resp.StatusCode == http.StatusGatewayTimeout || resp.StatusCode == http.StatusServiceUnavailable {
			return "", apiFault(resp.StatusCode, msg)
		}
		return "", &ServiceFault{Message: withMarker(msg), StatusCode: resp.StatusCode}
	}
	return PostProcess(data.PitchDeck)
}

func newRemotePayload(req GenerationRequest) remotePayload {
	opts := req.Options
	return remotePayload{
		Idea: req.IdeaText,
		Options: remoteOptions{
			TargetAudience:    string(opts.TargetAudience),
			Industry:          optional(opts.Industry),
			FundingStage:      string(opts.FundingStage),
			PresentationStyle: string(opts.PresentationStyle),
			BusinessModel:     optional(string(opts.BusinessModel)),
			CompetitorContext: optional(opts.CompetitorContext),
			RequestID:         req.RequestID,
		},
	}
}

// optional maps "no constraint" to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func withMarker(msg string) string {
	if HasErrorMarker(msg) {
		return msg
	}
	return fmt.Sprintf("%s %s", ErrorMarker, msg)
}
