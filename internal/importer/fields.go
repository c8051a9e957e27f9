package importer

// fields.go defines the typed descriptor list that maps spreadsheet columns
// onto unit fields. Diffing and applying changes iterate this list
// generically, so no code path ever addresses a field by string path.
//
// Order matters for the derived approval columns: each milestone date column
// is listed before its yes/no column, so an explicit date in the same sheet
// wins over the stamped today-date.

import (
	"time"

	"github.com/brightbay/salestrack/internal/domain"
)

// Required column headers. A sheet missing either aborts the whole import.
const (
	HeaderDevelopmentName = "Development Name"
	HeaderUnitNumber      = "Unit Number"
)

// Today returns the canonical date stamped onto a milestone when its
// approval column flips to yes without an explicit date. Overridable in
// tests.
var Today = func() string { return time.Now().Format(DateLayout) }

// Field describes one spreadsheet column and its mapping onto a unit field.
type Field struct {
	// ID identifies the field in change lists and audit entries,
	// e.g. "constructionStatus" or "documentation.bcmsApprovedDate".
	ID string

	// Header is the exact column header text in the sheet.
	Header string

	Kind Kind

	// Enum lists the allowed values for KindEnum fields.
	Enum []string

	Get func(u *domain.Unit) Value
	Set func(u *domain.Unit, v Value)
}

func textField(id, header string, get func(u *domain.Unit) *string) Field {
	return Field{
		ID: id, Header: header, Kind: KindString,
		Get: func(u *domain.Unit) Value { return textValue(*get(u)) },
		Set: func(u *domain.Unit, v Value) { *get(u) = v.Str },
	}
}

func enumField(id, header string, allowed []string, get func(u *domain.Unit) *string) Field {
	return Field{
		ID: id, Header: header, Kind: KindEnum, Enum: allowed,
		Get: func(u *domain.Unit) Value {
			v := textValue(*get(u))
			v.Kind = KindEnum
			return v
		},
		Set: func(u *domain.Unit, v Value) { *get(u) = v.Str },
	}
}

func numberField(id, header string, kind Kind, get func(u *domain.Unit) **float64) Field {
	return Field{
		ID: id, Header: header, Kind: kind,
		Get: func(u *domain.Unit) Value {
			p := *get(u)
			if p == nil {
				return Value{Kind: kind}
			}
			return Value{Kind: kind, Num: *p, Valid: true}
		},
		Set: func(u *domain.Unit, v Value) {
			if !v.Valid {
				*get(u) = nil
				return
			}
			n := v.Num
			*get(u) = &n
		},
	}
}

func dateField(id, header string, get func(u *domain.Unit) *string) Field {
	return Field{
		ID: id, Header: header, Kind: KindDate,
		Get: func(u *domain.Unit) Value {
			v := textValue(*get(u))
			v.Kind = KindDate
			return v
		},
		Set: func(u *domain.Unit, v Value) { *get(u) = v.Str },
	}
}

// approvalField is a derived yes/no column backed by a milestone date. The
// stored signal is the date alone: the column reads as yes when the date is
// present. Setting yes stamps today's date unless a date is already set;
// setting no clears the date. Stamping today fabricates a date the sheet
// never stated, which is kept for compatibility with the historical import
// behavior.
func approvalField(id, header string, get func(u *domain.Unit) *string) Field {
	return Field{
		ID: id, Header: header, Kind: KindBool,
		Get: func(u *domain.Unit) Value {
			return Value{Kind: KindBool, Bool: *get(u) != "", Valid: true}
		},
		Set: func(u *domain.Unit, v Value) {
			d := get(u)
			if v.Bool {
				if *d == "" {
					*d = Today()
				}
			} else {
				*d = ""
			}
		},
	}
}

func textValue(s string) Value {
	if s == "" {
		return Value{Kind: KindString}
	}
	return Value{Kind: KindString, Str: s, Valid: true}
}

// unitFields is built once; the descriptor closures operate on whichever
// unit is passed in.
var unitFields = buildUnitFields()

// UnitFields returns the ordered descriptor list for all importable unit
// columns. Development Name and Unit Number are row keys, not fields, and
// are not listed here.
func UnitFields() []Field {
	return unitFields
}

func buildUnitFields() []Field {
	return []Field{
		textField("type", "Unit Type", func(u *domain.Unit) *string { return &u.Type }),
		textField("bedrooms", "Bedrooms", func(u *domain.Unit) *string { return &u.Bedrooms }),
		numberField("size", "Size (sq.m)", KindNumber, func(u *domain.Unit) **float64 { return &u.Size }),
		enumField("constructionStatus", "Construction Status", domain.ConstructionStatuses,
			func(u *domain.Unit) *string { return &u.ConstructionStatus }),
		enumField("salesStatus", "Sales Status", domain.SalesStatuses,
			func(u *domain.Unit) *string { return &u.SalesStatus }),

		numberField("listPrice", "List Price", KindPrice, func(u *domain.Unit) **float64 { return &u.ListPrice }),
		numberField("priceExVat", "Price Ex VAT", KindPrice, func(u *domain.Unit) **float64 { return &u.PriceExVAT }),
		numberField("priceIncVat", "Price Inc VAT", KindPrice, func(u *domain.Unit) **float64 { return &u.PriceIncVAT }),
		numberField("soldPrice", "Sold Price", KindNumber, func(u *domain.Unit) **float64 { return &u.SoldPrice }),

		textField("purchaser.name", "Purchaser Name", func(u *domain.Unit) *string { return &u.Purchaser.Name }),
		textField("purchaser.phone", "Purchaser Phone", func(u *domain.Unit) *string { return &u.Purchaser.Phone }),
		textField("purchaser.email", "Purchaser Email", func(u *domain.Unit) *string { return &u.Purchaser.Email }),
		enumField("purchaser.type", "Purchaser Type", domain.PurchaserTypes,
			func(u *domain.Unit) *string { return &u.Purchaser.Type }),
		{
			ID: "purchaser.partV", Header: "Part V", Kind: KindBool,
			Get: func(u *domain.Unit) Value {
				return Value{Kind: KindBool, Bool: u.Purchaser.PartV, Valid: true}
			},
			Set: func(u *domain.Unit, v Value) { u.Purchaser.PartV = v.Bool },
		},

		dateField("documentation.bcmsApprovedDate", "BCMS Date",
			func(u *domain.Unit) *string { return &u.Documentation.BCMSApprovedDate }),
		approvalField("documentation.bcmsApproved", "BCMS Approved",
			func(u *domain.Unit) *string { return &u.Documentation.BCMSApprovedDate }),
		dateField("documentation.homebondDate", "Homebond Date",
			func(u *domain.Unit) *string { return &u.Documentation.HomebondDate }),
		approvalField("documentation.homebondApproved", "Homebond Approved",
			func(u *domain.Unit) *string { return &u.Documentation.HomebondDate }),
		dateField("documentation.berDate", "BER Date",
			func(u *domain.Unit) *string { return &u.Documentation.BERDate }),
		dateField("documentation.landRegistryDate", "Land Registry Date",
			func(u *domain.Unit) *string { return &u.Documentation.LandRegistryDate }),
		dateField("documentation.sanDate", "SAN Date",
			func(u *domain.Unit) *string { return &u.Documentation.SANDate }),
		dateField("documentation.contractIssueDate", "Contract Issue Date",
			func(u *domain.Unit) *string { return &u.Documentation.ContractIssueDate }),
		dateField("documentation.contractSignedDate", "Contract Signed Date",
			func(u *domain.Unit) *string { return &u.Documentation.ContractSignedDate }),
		dateField("documentation.saleCloseDate", "Sale Close Date",
			func(u *domain.Unit) *string { return &u.Documentation.SaleCloseDate }),

		textField("appliedIncentive", "Applied Incentive", func(u *domain.Unit) *string { return &u.AppliedIncentive }),
		enumField("incentiveStatus", "Incentive Status", domain.IncentiveStatuses,
			func(u *domain.Unit) *string { return &u.IncentiveStatus }),
	}
}

// TemplateHeaders returns the full canonical header row for the import
// template: the two key columns followed by every importable field column.
func TemplateHeaders() []string {
	headers := []string{HeaderDevelopmentName, HeaderUnitNumber}
	for _, f := range UnitFields() {
		headers = append(headers, f.Header)
	}
	return headers
}
