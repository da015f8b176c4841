package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdea(t *testing.T) {
	cases := []struct {
		idea string
		want string
	}{
		{"", "Please enter your startup idea"},
		{"    ", "Please enter your startup idea"},
		{"too short", "at least 10 characters"},
		{strings.Repeat("x", MaxIdeaLength+1), "too long"},
	}
	for _, tc := range cases {
		err := ValidateIdea(tc.idea)
		require.Error(t, err, tc.idea)
		assert.True(t, errors.Is(err, ErrInvalidIdea))
		assert.Contains(t, err.Error(), tc.want)
	}
	assert.NoError(t, ValidateIdea("A marketplace connecting local farmers with restaurants"))
	assert.NoError(t, ValidateIdea(strings.Repeat("x", MaxIdeaLength)))
}

func TestOptionSetNormalizeAndValidate(t *testing.T) {
	opts := OptionSet{Industry: "  FinTech  "}.Normalize()
	assert.Equal(t, AudienceGeneral, opts.TargetAudience)
	assert.Equal(t, StagePreSeed, opts.FundingStage)
	assert.Equal(t, StyleBalanced, opts.PresentationStyle)
	assert.Equal(t, ModelAutoSuggest, opts.BusinessModel)
	assert.Equal(t, "FinTech", opts.Industry)
	assert.NoError(t, opts.Validate())

	bad := DefaultOptions()
	bad.PresentationStyle = "shouty"
	err := bad.Validate()
	assert.True(t, errors.Is(err, ErrInvalidOptions))

	bad = DefaultOptions()
	bad.BusinessModel = "pyramid"
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidOptions))
}

func TestNewRequestIDIsUnique(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	plain := regexp.MustCompile(`^1700000000000_[0-9a-f]{9}$`)
	tagged := regexp.MustCompile(`^1700000000000_storytelling_[0-9a-f]{9}$`)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := NewRequestID(now, "")
		assert.Regexp(t, plain, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Regexp(t, tagged, NewRequestID(now, "storytelling"))

	a := NewRequest(" idea text here ", DefaultOptions(), "", now)
	b := NewRequest(" idea text here ", DefaultOptions(), "", now)
	assert.Equal(t, "idea text here", a.IdeaText)
	assert.NotEqual(t, a.RequestID, b.RequestID)
	assert.Equal(t, now, a.SubmittedAt)
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, ClassTimeout, ClassOf(context.DeadlineExceeded))
	assert.Equal(t, ClassTimeout, ClassOf(fmt.Errorf("call: %w", context.DeadlineExceeded)))
	assert.Equal(t, ClassTimeout, ClassOf(errors.New("Request timeout after 30s")))
	assert.Equal(t, ClassUnreachable, ClassOf(errors.New("Failed to connect to upstream")))
	assert.Equal(t, ClassUnknown, ClassOf(errors.New("boom")))
	// timeout wins when both words appear
	assert.Equal(t, ClassTimeout, ClassifyMessage("connect timeout"))

	wrapped := Classify(&ClassifiedError{Class: ClassUnreachable, Err: errors.New("x")})
	assert.Equal(t, ClassUnreachable, ClassOf(wrapped))

	// connectivity errors whose message names a timeout stay timeouts
	assert.Equal(t, ClassTimeout, ClassOf(&net.DNSError{Err: "lookup timeout", Name: "gen.local"}))
	assert.Equal(t, ClassUnreachable, ClassOf(&net.DNSError{Err: "no such host", Name: "gen.local"}))
	dialTimeout := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect timeout")}
	assert.Equal(t, ClassTimeout, ClassOf(dialTimeout))
}

func TestClassifyFaultMessage(t *testing.T) {
	assert.Equal(t, ClassUnreachable, ClassifyFaultMessage("❌ Cannot connect to server."))
	assert.Equal(t, ClassUnreachable, ClassifyFaultMessage("❌ ECONNREFUSED 127.0.0.1:8000"))
	assert.Equal(t, ClassTimeout, ClassifyFaultMessage("❌ Service temporarily unavailable"))
	assert.Equal(t, ClassTimeout, ClassifyFaultMessage("❌ Request timeout"))
	assert.Equal(t, ClassUnknown, ClassifyFaultMessage("❌ Invalid idea"))
}

func TestPostProcess(t *testing.T) {
	text, err := PostProcess("```markdown\r\n**SLIDE 1: X**\r\nbody\r\n```")
	require.NoError(t, err)
	assert.Equal(t, "**SLIDE 1: X**\nbody", text)

	_, err = PostProcess("  \n ")
	var fault *ServiceFault
	require.True(t, errors.As(err, &fault))
	assert.True(t, HasErrorMarker(fault.Message))
}

func TestAgentWithMockLLM(t *testing.T) {
	agent, err := NewAgent(MockLLM{})
	require.NoError(t, err)

	req := NewRequest("An app that helps small clinics schedule patients", DefaultOptions(), "", time.Now())
	basic, err := agent.GeneratePitch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, BasicSlideCount, strings.Count(basic, "**SLIDE "))
	assert.False(t, HasErrorMarker(basic))

	req.Options.Detailed = true
	detailed, err := agent.GenerateDetailedPitch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, DetailedSlideCount, strings.Count(detailed, "**SLIDE "))
	assert.Contains(t, detailed, "FINANCIAL PROJECTIONS")
}

func TestNewAgentRequiresLLM(t *testing.T) {
	_, err := NewAgent(nil)
	assert.Error(t, err)
}

type failingLLM struct{ err error }

func (f failingLLM) Complete(context.Context, Prompt) (string, error) { return "", f.err }

func TestAgentClassifiesLLMErrors(t *testing.T) {
	agent, _ := NewAgent(failingLLM{err: context.DeadlineExceeded})
	_, err := agent.GeneratePitch(context.Background(), NewRequest("some valid idea text", DefaultOptions(), "", time.Now()))
	var ce *ClassifiedError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ClassTimeout, ce.Class)
}

func TestBuildPromptCarriesOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Industry = "HealthTech"
	opts.CompetitorContext = "Zocdoc"
	req := NewRequest("Clinic scheduling assistant", opts, "", time.Now())

	p := BuildDetailedPitchPrompt(req)
	assert.Contains(t, p.System, "exactly 10 slides")
	assert.Contains(t, p.System, "Industry: HealthTech")
	assert.Contains(t, p.System, "Zocdoc")
	assert.Contains(t, p.System, "Suggest the most fitting business model")
	assert.Contains(t, p.User, req.RequestID)
	assert.Contains(t, BuildPitchPrompt(req).System, "exactly 5 slides")
}

func TestRemoteClient_Success(t *testing.T) {
	var got remotePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate-detailed-pitch", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"pitch_deck":"**SLIDE 1: PROBLEM**\nbody"}`))
	}))
	defer server.Close()

	c, err := NewRemoteClient(server.URL+"/", nil)
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.Detailed = true
	req := NewRequest("Solar panels for apartment balconies", opts, "", time.Now())

	text, err := c.GenerateDetailedPitch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "**SLIDE 1: PROBLEM**\nbody", text)
	assert.Equal(t, req.RequestID, got.Options.RequestID)
	assert.Equal(t, "pre-seed", got.Options.FundingStage)
	assert.Nil(t, got.Options.Industry)
	assert.Nil(t, got.Options.BusinessModel)
}

func TestRemoteClient_ErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Service temporarily unavailable"}`))
	}))
	defer server.Close()

	c, _ := NewRemoteClient(server.URL, nil)
	_, err := c.GeneratePitch(context.Background(), NewRequest("some valid idea", DefaultOptions(), "", time.Now()))
	var fault *ServiceFault
	require.True(t, errors.As(err, &fault))
	assert.True(t, HasErrorMarker(fault.Message))
	assert.Equal(t, ClassTimeout, fault.Class())
}

func TestRemoteClient_ServerErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c, _ := NewRemoteClient(server.URL, nil)
	_, err := c.GeneratePitch(context.Background(), NewRequest("some valid idea", DefaultOptions(), "", time.Now()))
	var fault *ServiceFault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, http.StatusBadGateway, fault.StatusCode)
	assert.Contains(t, fault.Message, "temporarily unavailable")
}

func TestRemoteClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, _ := NewRemoteClient(url, nil)
	_, err := c.GeneratePitch(context.Background(), NewRequest("some valid idea", DefaultOptions(), "", time.Now()))
	require.Error(t, err)
	assert.Equal(t, ClassUnreachable, ClassOf(err))
}

func TestRemoteClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c, _ := NewRemoteClient(server.URL, &http.Client{Timeout: 20 * time.Millisecond})
	_, err := c.GeneratePitch(context.Background(), NewRequest("some valid idea", DefaultOptions(), "", time.Now()))
	require.Error(t, err)
	assert.Equal(t, ClassTimeout, ClassOf(err))
}
