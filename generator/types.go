package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Audience is the investor group the deck is pitched to.
type Audience string

const (
	AudienceGeneral   Audience = "general investors"
	AudienceAngels    Audience = "angel investors"
	AudienceVCs       Audience = "VCs"
	AudienceAccel     Audience = "accelerators"
	AudienceCorporate Audience = "corporate investors"
	AudienceBanks     Audience = "banks"
)

// FundingStage is the company's current fundraising round.
type FundingStage string

const (
	StageIdea       FundingStage = "idea"
	StagePreSeed    FundingStage = "pre-seed"
	StageSeed       FundingStage = "seed"
	StageSeriesA    FundingStage = "series-a"
	StageSeriesB    FundingStage = "series-b"
	StageLaterStage FundingStage = "later-stage"
)

// Style is the narrative approach of the deck.
type Style string

const (
	StyleBalanced          Style = "balanced"
	StyleDataDriven        Style = "data-driven"
	StyleStorytelling      Style = "storytelling"
	StyleTechnology        Style = "technology-focused"
	StyleMarketOpportunity Style = "market-opportunity"
	StyleProblemSolving    Style = "problem-solving"
)

// BusinessModel is optional; the empty value asks the generator to suggest one.
type BusinessModel string

const (
	ModelAutoSuggest  BusinessModel = ""
	ModelSubscription BusinessModel = "subscription"
	ModelMarketplace  BusinessModel = "marketplace"
	ModelFreemium     BusinessModel = "freemium"
	ModelTransaction  BusinessModel = "transaction"
	ModelAdvertising  BusinessModel = "advertising"
	ModelEnterprise   BusinessModel = "enterprise"
	ModelEcommerce    BusinessModel = "ecommerce"
)

var (
	Audiences      = []Audience{AudienceGeneral, AudienceAngels, AudienceVCs, AudienceAccel, AudienceCorporate, AudienceBanks}
	FundingStages  = []FundingStage{StageIdea, StagePreSeed, StageSeed, StageSeriesA, StageSeriesB, StageLaterStage}
	Styles         = []Style{StyleBalanced, StyleDataDriven, StyleStorytelling, StyleTechnology, StyleMarketOpportunity, StyleProblemSolving}
	BusinessModels = []BusinessModel{ModelSubscription, ModelMarketplace, ModelFreemium, ModelTransaction, ModelAdvertising, ModelEnterprise, ModelEcommerce}
)

// OptionSet configures one generation request. Empty optional fields mean "no constraint".
type OptionSet struct {
	TargetAudience    Audience      `json:"target_audience" yaml:"target_audience"`
	Industry          string        `json:"industry,omitempty" yaml:"industry,omitempty"`
	FundingStage      FundingStage  `json:"funding_stage" yaml:"funding_stage"`
	PresentationStyle Style         `json:"presentation_style" yaml:"presentation_style"`
	BusinessModel     BusinessModel `json:"business_model,omitempty" yaml:"business_model,omitempty"`
	CompetitorContext string        `json:"competitor_context,omitempty" yaml:"competitor_context,omitempty"`
	Detailed          bool          `json:"detailed" yaml:"detailed"`
}

// DefaultOptions mirrors the form defaults.
func DefaultOptions() OptionSet {
	return OptionSet{
		TargetAudience:    AudienceGeneral,
		FundingStage:      StagePreSeed,
		PresentationStyle: StyleBalanced,
	}
}

// Normalize trims free text and fills unset enums with their defaults.
func (o OptionSet) Normalize() OptionSet {
	d := DefaultOptions()
	if o.TargetAudience == "" {
		o.TargetAudience = d.TargetAudience
	}
	if o.FundingStage == "" {
		o.FundingStage = d.FundingStage
	}
	if o.PresentationStyle == "" {
		o.PresentationStyle = d.PresentationStyle
	}
	o.Industry = strings.TrimSpace(o.Industry)
	o.CompetitorContext = strings.TrimSpace(o.CompetitorContext)
	return o
}

// Validate rejects enum values outside the recognized sets.
func (o OptionSet) Validate() error {
	if !contains(Audiences, o.TargetAudience) {
		return fmt.Errorf("%w: unknown target audience %q", ErrInvalidOptions, o.TargetAudience)
	}
	if !contains(FundingStages, o.FundingStage) {
		return fmt.Errorf("%w: unknown funding stage %q", ErrInvalidOptions, o.FundingStage)
	}
	if !contains(Styles, o.PresentationStyle) {
		return fmt.Errorf("%w: unknown presentation style %q", ErrInvalidOptions, o.PresentationStyle)
	}
	if o.BusinessModel != ModelAutoSuggest && !contains(BusinessModels, o.BusinessModel) {
		return fmt.Errorf("%w: unknown business model %q", ErrInvalidOptions, o.BusinessModel)
	}
	return nil
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// GenerationRequest is one logical submission. It is never mutated or reused across submissions.
type GenerationRequest struct {
	IdeaText    string
	Options     OptionSet
	RequestID   string
	SubmittedAt time.Time
}

// Detailed reports whether the expanded deck variant was requested.
func (r GenerationRequest) Detailed() bool { return r.Options.Detailed }

// NewRequest stamps a fresh request id. tag (e.g. a style being retried) is embedded when set.
func NewRequest(idea string, opts OptionSet, tag string, now time.Time) GenerationRequest {
	return GenerationRequest{
		IdeaText:    strings.TrimSpace(idea),
		Options:     opts,
		RequestID:   NewRequestID(now, tag),
		SubmittedAt: now,
	}
}

// NewRequestID builds "<unix-millis>[_<tag>]_<random>".
func NewRequestID(now time.Time, tag string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	if tag != "" {
		return fmt.Sprintf("%d_%s_%s", now.UnixMilli(), tag, random)
	}
	return fmt.Sprintf("%d_%s", now.UnixMilli(), random)
}
