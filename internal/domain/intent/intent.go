// Package intent classifies user messages into a fixed closed label
// set by delegating to an external text-generation capability.
package intent

// Intent is the classified purpose of a user message.
type Intent string

const (
	ProductQuery     Intent = "product_query"
	DistributorQuery Intent = "distributor_query"
	TerritoryQuery   Intent = "territory_query"
	PricingQuery     Intent = "pricing_query"
	SalesIntent      Intent = "sales_intent"
	GeneralEnquiry   Intent = "general_enquiry"
	OutOfScope       Intent = "out_of_scope"
)

// All lists the closed intent set in a stable order, used for label
// normalization.
var All = []Intent{
	ProductQuery,
	DistributorQuery,
	TerritoryQuery,
	PricingQuery,
	SalesIntent,
	GeneralEnquiry,
	OutOfScope,
}

// TriggersQualification reports whether the intent should start the
// lead qualification flow.
func (i Intent) TriggersQualification() bool {
	return i == SalesIntent || i == DistributorQuery
}
