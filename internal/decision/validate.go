package decision

// MissingField reports the first required field that is absent or falsy,
// checked in a fixed order. Zero price and empty strings count as missing,
// matching the zero-or-empty semantics of the prompt defaults. Validation
// fails fast; violations are not aggregated.
func (r *Request) MissingField() (string, bool) {
	switch {
	case r.Item == "":
		return "item", true
	case r.Price == 0:
		return "price", true
	case r.Currency == "":
		return "currency", true
	case r.Snapshot == nil:
		return "snapshot", true
	}
	return "", false
}
