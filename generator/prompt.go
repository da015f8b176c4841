package generator

import (
	"fmt"
	"strings"
)

const (
	BasicSlideCount    = 5
	DetailedSlideCount = 10
)

// Prompt is the set of messages sent to the LLM.
type Prompt struct {
	System  string
	User    string
	History []Message
	// Request is the submission the prompt was built from; offline clients render from it directly.
	Request GenerationRequest
}

// Message carries optional prior turns.
type Message struct {
	Role    string
	Content string
}

var basicSlides = []string{
	"THE PROBLEM",
	"OUR SOLUTION",
	"MARKET OPPORTUNITY",
	"BUSINESS MODEL",
	"THE ASK",
}

var detailedSlides = []string{
	"THE PROBLEM",
	"OUR SOLUTION",
	"MARKET OPPORTUNITY",
	"PRODUCT & TECHNOLOGY",
	"BUSINESS MODEL",
	"GO-TO-MARKET STRATEGY",
	"COMPETITIVE LANDSCAPE",
	"TRACTION & MILESTONES",
	"FINANCIAL PROJECTIONS",
	"THE TEAM & THE ASK",
}

// BuildPitchPrompt asks for the short deck.
func BuildPitchPrompt(req GenerationRequest) Prompt {
	return buildPrompt(req, basicSlides)
}

// BuildDetailedPitchPrompt asks for the expanded deck with financials.
func BuildDetailedPitchPrompt(req GenerationRequest) Prompt {
	return buildPrompt(req, detailedSlides)
}

func buildPrompt(req GenerationRequest, slides []string) Prompt {
	opts := req.Options
	var sb strings.Builder
	sb.WriteString("You are an experienced startup advisor writing investor pitch decks.\n")
	sb.WriteString("Output plain text with markdown emphasis only, no preamble and no closing remarks.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString(fmt.Sprintf("- Write exactly %d slides, each starting on its own line as **SLIDE N: TITLE**.\n", len(slides)))
	sb.WriteString("- Use short bullet lines starting with \"• \" under each slide.\n")
	sb.WriteString(fmt.Sprintf("- Audience: %s.\n", opts.TargetAudience))
	sb.WriteString(fmt.Sprintf("- Funding stage: %s.\n", opts.FundingStage))
	sb.WriteString(fmt.Sprintf("- Presentation style: %s.\n", opts.PresentationStyle))
	if opts.Industry != "" {
		sb.WriteString(fmt.Sprintf("- Industry: %s.\n", opts.Industry))
	}
	if opts.BusinessModel != ModelAutoSuggest {
		sb.WriteString(fmt.Sprintf("- Business model: %s.\n", opts.BusinessModel))
	} else {
		sb.WriteString("- Suggest the most fitting business model.\n")
	}
	if opts.CompetitorContext != "" {
		sb.WriteString(fmt.Sprintf("- Position against these competitors: %s.\n", opts.CompetitorContext))
	}
	sb.WriteString("Slides in order:\n")
	for i, s := range slides {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, s))
	}

	user := fmt.Sprintf("Startup idea: %s\nRequest id: %s\nWrite the complete pitch deck.", req.IdeaText, req.RequestID)

	return Prompt{
		System:  sb.String(),
		User:    user,
		Request: req,
	}
}
