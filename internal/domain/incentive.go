package domain

import "time"

// Benefit is a single benefit within an incentive scheme, e.g. a cash
// contribution or a fee waiver.
type Benefit struct {
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency,omitempty"`
}

// Requirement is an eligibility rule for an incentive scheme. Rule names are
// opaque to this service; Threshold carries the comparison value.
type Requirement struct {
	Rule      string  `json:"rule"`
	Threshold float64 `json:"threshold,omitempty"`
}

// IncentiveScheme is a named bundle of benefits with eligibility
// requirements. Schemes have a lifecycle independent of units; units refer
// to a scheme by ID only.
type IncentiveScheme struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Benefits     []Benefit     `json:"benefits,omitempty"`
	Requirements []Requirement `json:"requirements,omitempty"`
	Active       bool          `json:"active"`
	ValidFrom    *time.Time    `json:"validFrom,omitempty"`
	ValidUntil   *time.Time    `json:"validUntil,omitempty"`
}

// CurrentlyValid reports whether the scheme is active and inside its
// validity window at the given instant. A missing bound is open-ended.
func (s IncentiveScheme) CurrentlyValid(now time.Time) bool {
	if !s.Active {
		return false
	}
	if s.ValidFrom != nil && now.Before(*s.ValidFrom) {
		return false
	}
	if s.ValidUntil != nil && now.After(*s.ValidUntil) {
		return false
	}
	return true
}
