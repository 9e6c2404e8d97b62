// Package query turns raw regulatory questions into structured queries:
// entity extraction, intent classification, and synonym expansion.
package query

// Intent is the closed set of query categories.
type Intent string

const (
	IntentClassification  Intent = "classification"
	IntentEmergency       Intent = "emergency_response"
	IntentShipping        Intent = "shipping_requirements"
	IntentPackaging       Intent = "packaging"
	IntentDocumentation   Intent = "documentation"
	IntentCompliance      Intent = "compliance"
	IntentProductLookup   Intent = "product_lookup"
	IntentGeneral         Intent = "general"
)

// Measurement is a parsed numeric value with its unit as written.
type Measurement struct {
	Value float64
	Unit  string
}

// Entities holds every structured identifier pulled from a query.
// Lists keep document order and are NOT deduplicated: downstream
// match-counting treats repetition as emphasis.
type Entities struct {
	UNNumbers     []string
	CASNumbers    []string
	PackingGroups []string
	HazardClasses []string
	NMFCCodes     []string
	FreightClasses []string
	ERGGuides     []string
	SectionRefs   []string
	ChemicalNames []string
	Quantities    []Measurement
	Temperatures  []Measurement
	Percentages   []float64
}

// HasHighPrecision reports whether any high-precision identifier
// (UN, CAS, NMFC, section reference) was extracted. Queries carrying
// one are treated as structured lookups rather than free text.
func (e *Entities) HasHighPrecision() bool {
	return len(e.UNNumbers) > 0 || len(e.CASNumbers) > 0 ||
		len(e.NMFCCodes) > 0 || len(e.SectionRefs) > 0
}

// Context carries the boolean routing flags derived from a query.
type Context struct {
	IsFreightBooking       bool
	NeedsHazmatData        bool
	RequiresClassification bool
	NeedsEmergencyInfo     bool
}

// ContextOverrides lets the caller force individual context flags.
// Nil fields keep the derived value; set fields win.
type ContextOverrides struct {
	IsFreightBooking       *bool
	NeedsHazmatData        *bool
	RequiresClassification *bool
	NeedsEmergencyInfo     *bool
}

func (c Context) apply(o *ContextOverrides) Context {
	if o == nil {
		return c
	}
	if o.IsFreightBooking != nil {
		c.IsFreightBooking = *o.IsFreightBooking
	}
	if o.NeedsHazmatData != nil {
		c.NeedsHazmatData = *o.NeedsHazmatData
	}
	if o.RequiresClassification != nil {
		c.RequiresClassification = *o.RequiresClassification
	}
	if o.NeedsEmergencyInfo != nil {
		c.NeedsEmergencyInfo = *o.NeedsEmergencyInfo
	}
	return c
}

// Processed is the fully analyzed form of a query, consumed by the
// hybrid scorer and reranker. Created fresh per call and discarded.
type Processed struct {
	Original      string
	Normalized    string
	Entities      Entities
	Intent        Intent
	ExpandedTerms []string
	Keywords      []string
	IsStructured  bool
	Confidence    float64
	Context       Context
}
