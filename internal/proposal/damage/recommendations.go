package damage

type lookupKey struct {
	severity  string
	eventType string
}

var actionByKey = map[lookupKey]string{
	{SeveritySevere, TypeHail}:       "Full roof replacement is recommended. Hail impacts at this severity compromise shingle integrity across the entire roof plane.",
	{SeveritySevere, "wind"}:         "Full roof replacement is recommended. Widespread wind damage has broken the shingle seal and repairs will not restore wind resistance.",
	{SeverityCatastrophic, TypeHail}: "Immediate tarping followed by full roof replacement is recommended to prevent interior water damage.",
	{SeverityCatastrophic, "wind"}:   "Immediate emergency protection and full roof replacement are recommended.",
	{SeverityModerate, TypeHail}:     "Roof replacement is recommended. Moderate hail damage typically affects enough of the roof that spot repairs cannot match or warrant the result.",
	{SeverityModerate, "wind"}:       "Replacement of the affected slopes or the full roof is recommended, depending on inspection findings.",
	{SeverityMinor, TypeHail}:        "A detailed inspection is recommended to document hail impacts before they develop into leaks.",
	{SeverityMinor, "wind"}:          "Targeted repair of lifted or missing shingles is recommended, with a full inspection to confirm the extent.",
	{SeveritySevere, TypeAge}:        "Full roof replacement is recommended. The roof has exceeded its expected service life.",
	{SeverityModerate, TypeAge}:      "Plan for roof replacement. The roof is nearing the end of its expected service life.",
	{SeveritySevere, TypeMultiple}:   "Full roof replacement is recommended. Repeated storm exposure has compounded damage across the roof.",
	{SeverityModerate, TypeMultiple}: "Roof replacement is recommended. Multiple storm events have likely caused cumulative damage.",
}

var actionBySeverity = map[string]string{
	SeverityCatastrophic: "Immediate emergency protection and full roof replacement are recommended.",
	SeveritySevere:       "Full roof replacement is recommended.",
	SeverityModerate:     "Roof replacement or major repair is recommended based on a full inspection.",
	SeverityMinor:        "A professional roof inspection is recommended to assess current condition.",
}

var insuranceByKey = map[lookupKey]string{
	{SeveritySevere, TypeHail}:       "Hail damage of this severity is typically covered. Filing a claim promptly is strongly recommended; we will meet your adjuster on site.",
	{SeverityCatastrophic, TypeHail}: "File a claim immediately and document all damage with photos. We will meet your adjuster on site.",
	{SeverityModerate, TypeHail}:     "Moderate hail damage is frequently covered. We recommend filing a claim and will provide documentation for your adjuster.",
	{SeveritySevere, "wind"}:         "Wind damage is generally covered by homeowner policies. Filing a claim is recommended.",
	{SeverityModerate, "wind"}:       "Wind damage may be covered. We can document the damage to support a claim.",
	{SeveritySevere, TypeMultiple}:   "Multiple storm events may each qualify for coverage. We recommend reviewing your policy and filing for the most recent event.",
	{SeveritySevere, TypeAge}:        "Age-related wear is generally not covered by insurance. This project is typically funded out of pocket or with financing.",
	{SeverityModerate, TypeAge}:      "Age-related wear is generally not covered by insurance. Financing options are available.",
}

var insuranceBySeverity = map[string]string{
	SeverityCatastrophic: "File an insurance claim immediately. We will assist with documentation and the adjuster meeting.",
	SeveritySevere:       "An insurance claim is recommended. We will assist with documentation.",
	SeverityModerate:     "Damage may qualify for an insurance claim. An inspection will help determine eligibility.",
	SeverityMinor:        "Damage may fall below your deductible. We recommend an inspection before deciding whether to file a claim.",
}

const (
	defaultAction    = "A professional roof inspection is recommended to assess current condition."
	defaultInsurance = "We recommend reviewing your homeowner policy with your agent before filing a claim."
)

func recommendedAction(severity, eventType string) string {
	return lookup(actionByKey, actionBySeverity, defaultAction, severity, eventType)
}

func insuranceRecommendation(severity, eventType string) string {
	return lookup(insuranceByKey, insuranceBySeverity, defaultInsurance, severity, eventType)
}

func lookup(byKey map[lookupKey]string, bySeverity map[string]string, def, severity, eventType string) string {
	if isWind(eventType) {
		eventType = "wind"
	}
	if v, ok := byKey[lookupKey{severity, eventType}]; ok {
		return v
	}
	if v, ok := bySeverity[severity]; ok {
		return v
	}
	return def
}
