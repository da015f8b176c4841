package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM renders a deterministic sample deck from the request, without calling a model.
// It backs demo mode.
type MockLLM struct{}

type styleProfile struct {
	tone  string
	focus string
}

var styleProfiles = map[Style]styleProfile{
	StyleBalanced:          {"balanced", "steady growth with clear economics"},
	StyleDataDriven:        {"data-driven", "metrics, unit economics and benchmarks"},
	StyleStorytelling:      {"storytelling", "the founder journey and customer stories"},
	StyleTechnology:        {"technology-focused", "proprietary technology and defensibility"},
	StyleMarketOpportunity: {"market-opportunity", "market size and timing"},
	StyleProblemSolving:    {"problem-solving", "the pain point and how we remove it"},
}

type fundingProfile struct {
	amount string
	runway string
}

var fundingProfiles = map[FundingStage]fundingProfile{
	StageIdea:       {"$50K-$150K", "6-9 months"},
	StagePreSeed:    {"$250K-$750K", "12-18 months"},
	StageSeed:       {"$1M-$3M", "18-24 months"},
	StageSeriesA:    {"$5M-$15M", "24-36 months"},
	StageSeriesB:    {"$20M-$50M", "24-36 months"},
	StageLaterStage: {"$50M+", "36+ months"},
}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	req := prompt.Request
	opts := req.Options.Normalize()
	style := styleProfiles[opts.PresentationStyle]
	funding := fundingProfiles[opts.FundingStage]
	industry := opts.Industry
	if industry == "" {
		industry = "its target industry"
	}
	model := string(opts.BusinessModel)
	if model == "" {
		model = "subscription"
	}

	titles := basicSlides
	if req.Detailed() {
		titles = detailedSlides
	}
	company := companyName(req.IdeaText)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s - PITCH DECK\n", strings.ToUpper(company)))
	sb.WriteString(fmt.Sprintf("%s approach for %s\n\n", capitalize(style.tone), opts.TargetAudience))
	for i, title := range titles {
		sb.WriteString(fmt.Sprintf("**SLIDE %d: %s**\n\n", i+1, title))
		sb.WriteString(mockSlideBody(title, company, req.IdeaText, industry, model, opts, style, funding))
		sb.WriteString("\n═══════════════════════════════════════════\n\n")
	}
	sb.WriteString(fmt.Sprintf("*Generated in demo mode for: \"%s\"*\n", req.IdeaText))
	sb.WriteString(fmt.Sprintf("*Approach: %s | Focus: %s*\n", style.tone, style.focus))
	return sb.String(), nil
}

func mockSlideBody(title, company, idea, industry, model string, opts OptionSet, style styleProfile, funding fundingProfile) string {
	var lines []string
	switch title {
	case "THE PROBLEM":
		lines = []string{
			fmt.Sprintf("• Customers in %s struggle with the gap this idea addresses: %s.", industry, idea),
			"• Existing options are slow, expensive and hard to adopt.",
			"• The cost of doing nothing grows every quarter.",
		}
	case "OUR SOLUTION":
		lines = []string{
			fmt.Sprintf("• %s delivers a focused product built around %s.", company, style.focus),
			"• Onboarding takes minutes instead of weeks.",
			"• Every feature maps to a measurable customer outcome.",
		}
	case "MARKET OPPORTUNITY":
		lines = []string{
			fmt.Sprintf("• Total addressable market in %s is measured in billions.", industry),
			"• The serviceable segment is growing by double digits each year.",
			"• Timing is right: adoption of digital tools is at an all-time high.",
		}
	case "PRODUCT & TECHNOLOGY":
		lines = []string{
			"• A modular platform with a clean API and mobile-first clients.",
			"• Data from every interaction improves recommendations.",
			"• Security and privacy are designed in from day one.",
		}
	case "BUSINESS MODEL":
		lines = []string{
			fmt.Sprintf("• Primary revenue: %s.", model),
			"• Target gross margin above 70% at scale.",
			"• LTV to CAC ratio above 3x within eighteen months.",
		}
	case "GO-TO-MARKET STRATEGY":
		lines = []string{
			"• Launch with a focused beachhead segment and referral loops.",
			"• Content marketing and partnerships drive low-cost acquisition.",
			"• Expand to adjacent segments once retention is proven.",
		}
	case "COMPETITIVE LANDSCAPE":
		competitors := opts.CompetitorContext
		if competitors == "" {
			competitors = "incumbents and point solutions"
		}
		lines = []string{
			fmt.Sprintf("• Alternatives today: %s.", competitors),
			"• Our edge: speed, price and a tighter customer focus.",
			"• Switching costs protect the base once customers are onboarded.",
		}
	case "TRACTION & MILESTONES":
		lines = []string{
			"• Pilot customers signed and early waitlist growing weekly.",
			"• Next milestone: public launch and first thousand paying users.",
			"• Following milestone: break-even on a cohort basis.",
		}
	case "FINANCIAL PROJECTIONS":
		lines = []string{
			"• Year 1: product launch and first recurring revenue.",
			"• Year 3: multi-million revenue run rate.",
			"• Year 5: profitable growth with expanding margins.",
		}
	default:
		lines = []string{
			fmt.Sprintf("• Funding request: %s for %s of runway.", funding.amount, funding.runway),
			fmt.Sprintf("• Pitched to %s at the %s stage.", opts.TargetAudience, opts.FundingStage),
			"• Use of funds: product, growth and a small senior team.",
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// companyName derives a display name from the first meaningful words of the idea.
func companyName(idea string) string {
	stop := map[string]bool{"a": true, "an": true, "the": true, "that": true, "for": true, "of": true, "to": true, "and": true}
	var picked []string
	for _, w := range strings.Fields(idea) {
		w = strings.Trim(w, ".,;:!?\"'()")
		if w == "" || stop[strings.ToLower(w)] {
			continue
		}
		picked = append(picked, capitalize(strings.ToLower(w)))
		if len(picked) == 2 {
			break
		}
	}
	if len(picked) == 0 {
		return "Your Startup"
	}
	return strings.Join(picked, "")
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
