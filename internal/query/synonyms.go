package query

// DomainSynonyms maps hazmat/freight vocabulary to the terms regulatory
// text actually uses. Keys are matched as substrings of the lowercased
// query; values are added as expansion terms.
//
// The mapping runs user vocabulary -> regulatory vocabulary, not the
// reverse: shippers say "spill", 49 CFR says "release".
var DomainSynonyms = map[string][]string{
	"hazmat":           {"hazardous materials", "dangerous goods", "hazardous substance"},
	"dangerous goods":  {"hazardous materials", "hazmat"},
	"spill":            {"release", "leak", "discharge", "incident"},
	"leak":             {"release", "spill", "discharge"},
	"flammable":        {"combustible", "ignitable", "fire hazard"},
	"corrosive":        {"acid", "caustic", "class 8"},
	"toxic":            {"poison", "poisonous", "class 6.1"},
	"explosive":        {"class 1", "detonation", "blasting"},
	"radioactive":      {"class 7", "nuclear", "isotope"},
	"shipping":         {"transport", "transportation", "carriage", "shipment"},
	"transport":        {"shipping", "transportation", "carriage"},
	"label":            {"placard", "marking", "hazard communication"},
	"placard":          {"label", "marking"},
	"package":          {"packaging", "container", "drum", "receptacle"},
	"packaging":        {"package", "container", "non-bulk", "bulk"},
	"paperwork":        {"shipping papers", "documentation", "manifest"},
	"sds":              {"safety data sheet", "msds"},
	"msds":             {"safety data sheet", "sds"},
	"erg":              {"emergency response guidebook", "guide"},
	"emergency":        {"response", "incident", "first aid"},
	"limited quantity": {"ltd qty", "small quantity", "excepted quantity"},
	"freight class":    {"nmfc", "commodity classification", "density"},
	"nmfc":             {"freight class", "national motor freight classification"},
	"acid":             {"corrosive", "class 8"},
	"battery":          {"lithium", "un3480", "un3481"},
	"aerosol":          {"un1950", "compressed gas"},
	"exemption":        {"exception", "special provision", "de minimis"},
	"quantity":         {"amount", "volume", "weight", "limit"},
}

// intentPhrases supplies a small fixed retrieval phrase per intent for
// search-query generation.
var intentPhrases = map[Intent]string{
	IntentClassification: "hazard class packing group classification",
	IntentEmergency:      "emergency response guide ERG spill cleanup",
	IntentShipping:       "shipping requirements transportation regulations",
	IntentPackaging:      "packaging requirements container specifications",
	IntentDocumentation:  "shipping papers documentation requirements",
	IntentCompliance:     "regulatory compliance 49 CFR requirements",
	IntentProductLookup:  "product safety data sheet lookup",
}
