package domain

// ParsedResponse holds the typed fields extracted from one reasoning response.
// A nil section means the label never appeared in the response.
type ParsedResponse struct {
	Thoughts    []string
	Cause       *string
	Fix         *string
	Explanation *string
	Risk        *string
	Prevention  *string
}

// HasDiagnosis reports whether the cause or explanation is present.
func (p ParsedResponse) HasDiagnosis() bool {
	return p.Cause != nil || p.Explanation != nil
}

// HasAdditionalInfo reports whether risks or prevention are present.
func (p ParsedResponse) HasAdditionalInfo() bool {
	return p.Risk != nil || p.Prevention != nil
}

// Empty reports whether nothing at all could be extracted.
func (p ParsedResponse) Empty() bool {
	return len(p.Thoughts) == 0 && !p.HasDiagnosis() && !p.HasAdditionalInfo() && p.Fix == nil
}

// Analysis is the outcome of one diagnosis pass, ready for rendering.
type Analysis struct {
	Bundle    ContextBundle
	Parsed    ParsedResponse
	Risk      *RiskAssessment
	Model     string
	FromCache bool
}
