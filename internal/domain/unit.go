// Package domain defines the core records tracked by the sales application:
// developments, the units they contain, incentive schemes, and audit entries.
// It has no transport or storage dependencies.
package domain

// Construction status values for a unit.
const (
	ConstructionNotStarted = "Not Started"
	ConstructionInProgress = "In Progress"
	ConstructionComplete   = "Complete"
)

// ConstructionStatuses lists the allowed construction status values.
var ConstructionStatuses = []string{
	ConstructionNotStarted,
	ConstructionInProgress,
	ConstructionComplete,
}

// Sales status values for a unit.
const (
	SalesNotReleased = "Not Released"
	SalesForSale     = "For Sale"
	SalesUnderOffer  = "Under Offer"
	SalesContracted  = "Contracted"
	SalesComplete    = "Complete"
)

// SalesStatuses lists the allowed sales status values.
var SalesStatuses = []string{
	SalesNotReleased,
	SalesForSale,
	SalesUnderOffer,
	SalesContracted,
	SalesComplete,
}

// Purchaser type values.
const (
	PurchaserPrivate = "Private"
	PurchaserCouncil = "Council"
	PurchaserAHB     = "AHB"
	PurchaserOther   = "Other"
)

// PurchaserTypes lists the allowed purchaser type values.
var PurchaserTypes = []string{
	PurchaserPrivate,
	PurchaserCouncil,
	PurchaserAHB,
	PurchaserOther,
}

// Incentive status values for a unit's applied incentive.
const (
	IncentiveEligible = "eligible"
	IncentiveApplied  = "applied"
	IncentiveClaimed  = "claimed"
	IncentiveExpired  = "expired"
)

// IncentiveStatuses lists the allowed incentive status values.
var IncentiveStatuses = []string{
	IncentiveEligible,
	IncentiveApplied,
	IncentiveClaimed,
	IncentiveExpired,
}

// Purchaser holds the buyer details recorded against a unit.
type Purchaser struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Type  string `json:"type,omitempty"`
	PartV bool   `json:"partV,omitempty"`
}

// Documentation tracks the compliance milestones for a unit. Each field holds
// an ISO date (YYYY-MM-DD) when the milestone is reached, or empty when it is
// outstanding. Milestone presence doubles as the approval flag for the
// derived yes/no spreadsheet columns.
type Documentation struct {
	BCMSApprovedDate     string `json:"bcmsApprovedDate,omitempty"`
	HomebondDate         string `json:"homebondDate,omitempty"`
	BERDate              string `json:"berDate,omitempty"`
	LandRegistryDate     string `json:"landRegistryDate,omitempty"`
	SANDate              string `json:"sanDate,omitempty"`
	ContractIssueDate    string `json:"contractIssueDate,omitempty"`
	ContractSignedDate   string `json:"contractSignedDate,omitempty"`
	SaleCloseDate        string `json:"saleCloseDate,omitempty"`
}

// Unit is a single saleable property within a development. It is identified
// by its unit number, which is unique within the owning development only;
// the same unit number may exist in other developments.
type Unit struct {
	UnitNumber string `json:"unitNumber"`
	Type       string `json:"type,omitempty"`

	// Bedrooms is stored as text: either a count ("3") or a label ("Studio").
	Bedrooms string `json:"bedrooms,omitempty"`

	// Size in square metres.
	Size *float64 `json:"size,omitempty"`

	ConstructionStatus string `json:"constructionStatus,omitempty"`
	SalesStatus        string `json:"salesStatus,omitempty"`

	ListPrice   *float64 `json:"listPrice,omitempty"`
	PriceExVAT  *float64 `json:"priceExVat,omitempty"`
	PriceIncVAT *float64 `json:"priceIncVat,omitempty"`
	SoldPrice   *float64 `json:"soldPrice,omitempty"`

	Purchaser     Purchaser     `json:"purchaser,omitempty"`
	Documentation Documentation `json:"documentation,omitempty"`

	// AppliedIncentive is a weak reference to an IncentiveScheme ID.
	AppliedIncentive string `json:"appliedIncentive,omitempty"`
	IncentiveStatus  string `json:"incentiveStatus,omitempty"`
}

// Development is a named real-estate project containing many units.
type Development struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ProjectNumber string `json:"projectNumber,omitempty"`
	Status        string `json:"status,omitempty"`
}
