package helpers

// StringPtrOrNil returns nil for empty strings, otherwise a pointer to s.
// Used when mapping optional provider claims onto nullable columns.
func StringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
