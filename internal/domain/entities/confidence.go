package entities

import "fmt"

// Confidence labels, a discrete tier attached to facts to express extraction
// certainty.
const (
	LabelVerified    = "VERIFIED"
	LabelStrong      = "STRONG"
	LabelModerate    = "MODERATE"
	LabelSpeculative = "SPECULATIVE"
	LabelUncertain   = "UNCERTAIN"
)

// ConfidenceLabel maps a numeric confidence in [0,1] to its discrete tier.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.95:
		return LabelVerified
	case confidence >= 0.8:
		return LabelStrong
	case confidence >= 0.6:
		return LabelModerate
	case confidence >= 0.4:
		return LabelSpeculative
	default:
		return LabelUncertain
	}
}

// ValueString renders an attribute value for comparison and display. Scalar
// values render as themselves; structured values use Go's default formatting.
func ValueString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
