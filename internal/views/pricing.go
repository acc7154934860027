package views

import (
	_ "embed"
	"fmt"
	"math"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed content/pricing.yaml
var pricingYAML []byte

// BillingPeriod selects monthly or yearly prices.
type BillingPeriod string

const (
	Monthly BillingPeriod = "monthly"
	Yearly  BillingPeriod = "yearly"
)

// ParsePeriod defaults anything unrecognised to monthly.
func ParsePeriod(s string) BillingPeriod {
	if BillingPeriod(s) == Yearly {
		return Yearly
	}
	return Monthly
}

// Plan is one subscription tier. Both prices are constants from content.
type Plan struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Description  string   `yaml:"description" json:"description"`
	MonthlyPrice int      `yaml:"monthly_price" json:"monthly_price"`
	YearlyPrice  int      `yaml:"yearly_price" json:"yearly_price"`
	Highlighted  bool     `yaml:"highlighted" json:"highlighted"`
	Features     []string `yaml:"features" json:"features"`
}

// Pricing is the loaded pricing table.
type Pricing struct {
	SavingsRate float64 `yaml:"savings_rate" json:"savings_rate"`
	Plans       []Plan  `yaml:"plans" json:"plans"`
}

// PlanDisplay is a plan priced for one billing period.
type PlanDisplay struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	PeriodLabel string   `json:"period_label"`
	Highlighted bool     `json:"highlighted"`
	Features    []string `json:"features"`
}

// LoadPricing parses the embedded pricing content.
func LoadPricing() (*Pricing, error) {
	return ParsePricing(pricingYAML)
}

// ParsePricing parses pricing YAML and checks each yearly constant against
// round(monthly * 12 * (1 - savings_rate)).
func ParsePricing(data []byte) (*Pricing, error) {
	var p Pricing
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse pricing: %w", err)
	}
	for _, plan := range p.Plans {
		want := int(math.Round(float64(plan.MonthlyPrice) * 12 * (1 - p.SavingsRate)))
		if plan.YearlyPrice != want {
			return nil, fmt.Errorf("plan %s: yearly price %d, expected %d", plan.ID, plan.YearlyPrice, want)
		}
	}
	return &p, nil
}

// Display prices every plan for period. Only price and period label vary.
func (p *Pricing) Display(period BillingPeriod) []PlanDisplay {
	out := make([]PlanDisplay, 0, len(p.Plans))
	for _, plan := range p.Plans {
		d := PlanDisplay{
			ID:          plan.ID,
			Name:        plan.Name,
			Description: plan.Description,
			Price:       plan.MonthlyPrice,
			PeriodLabel: "/month",
			Highlighted: plan.Highlighted,
			Features:    slices.Clone(plan.Features),
		}
		if period == Yearly {
			d.Price = plan.YearlyPrice
			d.PeriodLabel = "/year"
		}
		out = append(out, d)
	}
	return out
}

// SavingsPercent is the yearly discount as a whole percentage.
func (p *Pricing) SavingsPercent() int {
	return int(math.Round(p.SavingsRate * 100))
}
