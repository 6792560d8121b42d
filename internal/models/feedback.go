package models

// Feedback is one community feedback record. The body is an arbitrary JSON
// object; by convention it carries rating, category, feedback, email and
// submittedAt. The store adds "_id" when the record is persisted.
type Feedback map[string]any

// Conventional field names of a Feedback record.
const (
	FieldID          = "_id"
	FieldRating      = "rating"
	FieldCategory    = "category"
	FieldText        = "feedback"
	FieldEmail       = "email"
	FieldSubmittedAt = "submittedAt"
)

// IsEmpty reports whether the record has no fields.
func (f Feedback) IsEmpty() bool {
	return len(f) == 0
}

// Clone returns a shallow copy so the store can add its own fields
// without touching the caller's map.
func (f Feedback) Clone() Feedback {
	out := make(Feedback, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// String returns the string value of key, or "" when absent or not a string.
func (f Feedback) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Rating returns the numeric rating if present.
func (f Feedback) Rating() (int, bool) {
	switch v := f[FieldRating].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}
