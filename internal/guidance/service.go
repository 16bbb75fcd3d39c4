package guidance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// WarningCode classifies a safety warning on a guided recommendation.
type WarningCode string

const (
	WarningMedications WarningCode = "MEDICATIONS"
	WarningPregnancy   WarningCode = "PREGNANCY"
	WarningAlcoholBase WarningCode = "ALCOHOL_BASE"
)

// GuidedPayload is the validated guided-blend request.
type GuidedPayload struct {
	Goals              []enums.HealthGoal
	PregnancyStatus    enums.PregnancyStatus
	Medications        []string
	AlcoholSensitivity bool
}

// Suggestion is one recommended herb with its safe percentage range.
type Suggestion struct {
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	StartPercent  float64    `json:"start_percent"`
	MinPercent    float64    `json:"min_percent"`
	MaxPercent    float64    `json:"max_percent"`
	PregnancyRisk bool       `json:"pregnancy_risk"`
	Notes         string     `json:"notes,omitempty"`
}

// Warning is a contextual safety note shown alongside the suggestions.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Herbs   []string    `json:"herbs,omitempty"`
}

// Metadata summarizes the request context for the practitioner-facing UI.
type Metadata struct {
	Goals              []enums.HealthGoal    `json:"goals"`
	PregnancyStatus    enums.PregnancyStatus `json:"pregnancy_status"`
	MedicationCount    int                   `json:"medication_count"`
	AlcoholSensitivity bool                  `json:"alcohol_sensitivity"`
}

// RecommendationDTO is the full guided-blend response.
type RecommendationDTO struct {
	Suggestions []Suggestion `json:"suggested_herbs"`
	Warnings    []Warning    `json:"warnings"`
	Metadata    Metadata     `json:"metadata"`
}

// Service exposes the guided herb recommendation operation.
type Service interface {
	GenerateGuidedRecommendations(ctx context.Context, payload GuidedPayload) (*RecommendationDTO, error)
}

type productLookup interface {
	FindActiveBySlugs(ctx context.Context, slugs []string) (map[string]models.Product, error)
}

type service struct {
	products productLookup
	logg     *logger.Logger
}

// NewService constructs a guidance service instance.
func NewService(products productLookup, logg *logger.Logger) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{products: products, logg: logg}, nil
}

// GenerateGuidedRecommendations flattens the rule table across the selected
// goals, dedupes by slug in first-seen order, caps the list, pads from the
// fallback set, and resolves slugs against the live catalog.
func (s *service) GenerateGuidedRecommendations(ctx context.Context, payload GuidedPayload) (*RecommendationDTO, error) {
	if len(payload.Goals) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one health goal is required")
	}
	if len(payload.Goals) > maxGoals {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "at most %d health goals may be selected", maxGoals)
	}
	for _, goal := range payload.Goals {
		if !goal.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid health goal %q", goal)
		}
	}
	if !payload.PregnancyStatus.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid pregnancy status %q", payload.PregnancyStatus)
	}

	rules := selectRules(payload.Goals)

	slugs := make([]string, 0, len(rules))
	for _, rule := range rules {
		slugs = append(slugs, rule.Slug)
	}
	catalog, err := s.products.FindActiveBySlugs(ctx, slugs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve herb products")
	}

	suggestions := make([]Suggestion, 0, len(rules))
	for _, rule := range rules {
		suggestion := Suggestion{
			Slug:          rule.Slug,
			Name:          rule.Name,
			StartPercent:  rule.StartPercent,
			MinPercent:    rule.MinPercent,
			MaxPercent:    rule.MaxPercent,
			PregnancyRisk: rule.PregnancyRisk,
			Notes:         rule.Notes,
		}
		if product, ok := catalog[rule.Slug]; ok {
			id := product.ID
			suggestion.ProductID = &id
			suggestion.Name = product.Name
		}
		suggestions = append(suggestions, suggestion)
	}

	return &RecommendationDTO{
		Suggestions: suggestions,
		Warnings:    buildWarnings(payload, rules),
		Metadata: Metadata{
			Goals:              payload.Goals,
			PregnancyStatus:    payload.PregnancyStatus,
			MedicationCount:    len(payload.Medications),
			AlcoholSensitivity: payload.AlcoholSensitivity,
		},
	}, nil
}

// selectRules flattens, dedupes, caps, and pads the rule sets for the goals.
func selectRules(goals []enums.HealthGoal) []HerbRule {
	selected := make([]HerbRule, 0, maxSuggestions)
	seen := make(map[string]bool)

	for _, goal := range goals {
		for _, rule := range goalRules[goal] {
			if seen[rule.Slug] {
				continue
			}
			if len(selected) >= maxSuggestions {
				return selected
			}
			seen[rule.Slug] = true
			selected = append(selected, rule)
		}
	}

	if len(selected) == 0 {
		return append(selected, fallbackRules...)
	}
	for _, rule := range fallbackRules {
		if len(selected) >= minSuggestions {
			break
		}
		if seen[rule.Slug] {
			continue
		}
		seen[rule.Slug] = true
		selected = append(selected, rule)
	}
	return selected
}

func buildWarnings(payload GuidedPayload, rules []HerbRule) []Warning {
	warnings := []Warning{}

	if hasMedications(payload.Medications) {
		warnings = append(warnings, Warning{
			Code:    WarningMedications,
			Message: "You listed current medications. Review herb-drug interactions with a practitioner before starting this blend.",
		})
	}

	if payload.PregnancyStatus != enums.PregnancyNotPregnant {
		risky := []string{}
		for _, rule := range rules {
			if rule.PregnancyRisk {
				risky = append(risky, rule.Name)
			}
		}
		if len(risky) > 0 {
			warnings = append(warnings, Warning{
				Code:    WarningPregnancy,
				Message: "Some selected herbs are not recommended during pregnancy, nursing, or while trying to conceive.",
				Herbs:   risky,
			})
		}
	}

	if payload.AlcoholSensitivity {
		warnings = append(warnings, Warning{
			Code:    WarningAlcoholBase,
			Message: "Our tinctures default to an alcohol extraction base. Ask about glycerite alternatives when you order.",
		})
	}

	return warnings
}

func hasMedications(medications []string) bool {
	for _, medication := range medications {
		if strings.TrimSpace(medication) != "" {
			return true
		}
	}
	return false
}
