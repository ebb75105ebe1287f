// File: resolve.go
package config

import "strings"

// resolvePath walks tree one dot-separated segment at a time. The
// second return is false when a segment is absent or a non-terminal
// segment's value is not a table; no partial result is returned.
func resolvePath(tree map[string]any, keypath string) (any, bool) {
	segments := strings.Split(keypath, ".")
	current := any(tree)

	for _, segment := range segments {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, exists := table[segment]
		if !exists {
			return nil, false
		}
		current = value
	}

	return current, true
}

// validKeyPath reports whether every segment of a dot-separated key
// path is a valid TOML bare key. The asterisk segment is permitted as
// the list-position marker used in element paths.
func validKeyPath(path string) bool {
	if path == "" {
		return false
	}
	for _, segment := range strings.Split(path, ".") {
		if !isValidKeySegment(segment) {
			return false
		}
	}
	return true
}

// isValidKeySegment checks a single path segment. TOML bare keys are
// sequences of ASCII letters, digits, underscores, and dashes.
func isValidKeySegment(s string) bool {
	if s == wildcardSegment {
		return true
	}
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !(isLetter || isDigit || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

// deepCopyTable clones a nested table so overlays never mutate the
// root's tree.
func deepCopyTable(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyTable(t)
	case []any:
		return deepCopyList(t)
	default:
		return v
	}
}

// deepCopyList clones a list and its elements, so tables nested in an
// array of tables never alias the root's tree.
func deepCopyList(src []any) []any {
	out := make([]any, len(src))
	for i, e := range src {
		out[i] = deepCopyValue(e)
	}
	return out
}
