package utils

// ToStringSlice converts a decoded JSON array into its string elements.
// Non-string elements are dropped; a non-array value yields an empty slice.
func ToStringSlice(v any) []string {
	stringSlice := make([]string, 0)
	slice, ok := v.([]any)
	if !ok {
		return stringSlice
	}
	for _, e := range slice {
		if s, ok := e.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}
