package validation

import "strconv"

// Field joins a field name onto a base path. The root path is empty, so
// top-level fields are reported without a prefix.
func Field(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

// Index addresses the i-th element of a collection field, e.g. Medications[2]
func Index(base, name string, i int) string {
	return Field(base, name) + "[" + strconv.Itoa(i) + "]"
}
