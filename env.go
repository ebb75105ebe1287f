// File: env.go
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	// envDelimiter joins key path segments in derived variable names.
	envDelimiter = "_"

	// wildcardSegment marks a list position inside a key path, e.g.
	// "servers.*.1" addresses the second element of the servers list.
	wildcardSegment = "*"

	// asteriskToken replaces the wildcard in derived variable names,
	// since '*' is not a valid identifier character.
	asteriskToken = "ASTERISK"

	// listDelimiter separates elements when a whole list is supplied
	// through a single environment variable.
	listDelimiter = ","
)

// EnvName derives the environment variable name for a dot-separated
// key path: segments are upper-cased and joined with underscores, the
// wildcard segment becomes the ASTERISK token, and any other character
// unsafe for variable names is replaced with an underscore. The
// derivation is deterministic: the same path always yields the same
// name.
func EnvName(keypath string) string {
	segments := strings.Split(keypath, ".")
	out := make([]string, len(segments))
	for i, segment := range segments {
		out[i] = envSegment(segment)
	}
	return strings.Join(out, envDelimiter)
}

func envSegment(segment string) string {
	if segment == wildcardSegment {
		return asteriskToken
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(segment) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// listEnvOverrides collects per-element overrides for the list whose
// derived name is envBase, i.e. variables named envBase_ASTERISK_<i>.
// Deeper names (with further segments after the index) are not element
// overrides and are skipped.
func listEnvOverrides(envBase string) map[int]string {
	prefix := envBase + envDelimiter + asteriskToken + envDelimiter
	overrides := make(map[int]string)
	for _, kv := range os.Environ() {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 || !strings.HasPrefix(kv[:eq], prefix) {
			continue
		}
		rest := kv[:eq][len(prefix):]
		if strings.Contains(rest, envDelimiter) {
			continue
		}
		idx, err := strconv.Atoi(rest)
		if err != nil || idx < 0 {
			continue
		}
		overrides[idx] = kv[eq+1:]
	}
	return overrides
}

// applyListOverrides overlays per-element environment values on an
// already-coerced list. Overrides inside the current bounds replace;
// an override at the first index past the end appends; a gap fails
// with a type mismatch naming the offending index.
func applyListOverrides(elems []any, overrides map[int]string, elem TypeSpec, path string) ([]any, error) {
	if len(overrides) == 0 {
		return elems, nil
	}
	indexes := make([]int, 0, len(overrides))
	for i := range overrides {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := append([]any(nil), elems...)
	for _, i := range indexes {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		v, err := elem.Parse(overrides[i], elemPath)
		if err != nil {
			return nil, err
		}
		switch {
		case i < len(out):
			out[i] = v
		case i == len(out):
			out = append(out, v)
		default:
			return nil, &TypeError{Path: elemPath, Expected: elem.String(), Actual: overrides[i],
				Reason: fmt.Sprintf("element override index %d is beyond list length %d", i, len(out))}
		}
	}
	return out, nil
}

// overlayTable returns a copy of table with environment overrides
// applied to its children. Each child key's derived name is probed;
// when recurse is set, nested tables are walked depth-first so every
// level becomes environment-aware before the table reaches a factory.
// Replacement values are converted to the overlaid value's scalar type
// when possible, so both sources produce identical typed results.
func overlayTable(table map[string]any, envBase string, recurse bool) (map[string]any, error) {
	out := make(map[string]any, len(table))
	for key, value := range table {
		childEnv := envBase + envDelimiter + envSegment(key)

		switch child := value.(type) {
		case map[string]any:
			if recurse {
				nested, err := overlayTable(child, childEnv, true)
				if err != nil {
					return nil, err
				}
				out[key] = nested
			} else {
				out[key] = deepCopyTable(child)
			}

		case []any:
			elems := deepCopyList(child)
			if raw, ok := os.LookupEnv(childEnv); ok {
				elems = splitListLike(raw, child)
			}
			elems, err := overlayListElements(elems, childEnv)
			if err != nil {
				return nil, err
			}
			out[key] = elems

		default:
			if raw, ok := os.LookupEnv(childEnv); ok {
				out[key] = coerceLike(value, raw)
			} else {
				out[key] = value
			}
		}
	}
	return out, nil
}

// overlayListElements applies envBase_ASTERISK_<i> overrides to an
// untyped list (one living inside an object-property table). The same
// bounds policy as applyListOverrides holds.
func overlayListElements(elems []any, envBase string) ([]any, error) {
	overrides := listEnvOverrides(envBase)
	if len(overrides) == 0 {
		return elems, nil
	}
	indexes := make([]int, 0, len(overrides))
	for i := range overrides {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := append([]any(nil), elems...)
	for _, i := range indexes {
		var like any
		if i < len(out) {
			like = out[i]
		} else if len(out) > 0 {
			like = out[len(out)-1]
		}
		switch {
		case i < len(out):
			out[i] = coerceLike(like, overrides[i])
		case i == len(out):
			out = append(out, coerceLike(like, overrides[i]))
		default:
			return nil, &TypeError{
				Path:     envBase + envDelimiter + asteriskToken + envDelimiter + strconv.Itoa(i),
				Expected: "a contiguous list index",
				Actual:   overrides[i],
				Reason:   fmt.Sprintf("element override index %d is beyond list length %d", i, len(out)),
			}
		}
	}
	return out, nil
}

// splitListLike splits a delimited environment string into elements
// typed like the list it replaces.
func splitListLike(raw string, existing []any) []any {
	parts := strings.Split(raw, listDelimiter)
	out := make([]any, len(parts))
	var like any
	if len(existing) > 0 {
		like = existing[0]
	}
	for i, p := range parts {
		out[i] = coerceLike(like, strings.TrimSpace(p))
	}
	return out
}

// coerceLike converts an environment string toward the type of the
// value it replaces. Unknown or unconvertible shapes stay strings and
// are left to the factory's decoder.
func coerceLike(existing any, s string) any {
	switch existing.(type) {
	case bool:
		if b, ok := parseBoolToken(s); ok {
			return b
		}
	case int64, int:
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i
		}
	case float64:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// envTableAt assembles a nested table purely from environment variables
// sharing the envBase prefix. Underscores in the remaining name act as
// path separators and keys come out lower-cased; an ASTERISK token
// followed by an index produces a list element. The second return is
// false when no variable carries the prefix.
func envTableAt(envBase string) (map[string]any, bool) {
	prefix := envBase + envDelimiter
	type entry struct {
		segments []string
		value    string
	}
	var entries []entry
	for _, kv := range os.Environ() {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 || !strings.HasPrefix(kv[:eq], prefix) {
			continue
		}
		rest := kv[:eq][len(prefix):]
		if rest == "" {
			continue
		}
		entries = append(entries, entry{segments: strings.Split(rest, envDelimiter), value: kv[eq+1:]})
	}
	if len(entries) == 0 {
		return nil, false
	}

	// Deterministic insertion order keeps list assembly stable.
	sort.Slice(entries, func(i, j int) bool {
		return strings.Join(entries[i].segments, envDelimiter) < strings.Join(entries[j].segments, envDelimiter)
	})

	table := make(map[string]any)
	for _, e := range entries {
		insertEnvEntry(table, e.segments, e.value)
	}
	return table, true
}

// insertEnvEntry places one environment value into the assembled table.
// Supported shapes are plain nested keys and a terminal ASTERISK index
// pair; anything deeper than an indexed element is skipped.
func insertEnvEntry(table map[string]any, segments []string, value string) {
	current := table
	for i := 0; i < len(segments); i++ {
		seg := segments[i]

		if seg == asteriskToken {
			if i == 0 || i != len(segments)-2 {
				return
			}
			idx, err := strconv.Atoi(segments[i+1])
			if err != nil || idx < 0 {
				return
			}
			key := strings.ToLower(segments[i-1])
			list, _ := current[key].([]any)
			for len(list) <= idx {
				list = append(list, nil)
			}
			list[idx] = value
			current[key] = list
			return
		}

		key := strings.ToLower(seg)
		if i == len(segments)-1 {
			if _, taken := current[key]; !taken {
				current[key] = value
			}
			return
		}
		if i+1 < len(segments) && segments[i+1] == asteriskToken {
			continue
		}
		next, exists := current[key]
		if nextMap, isMap := next.(map[string]any); exists && isMap {
			current = nextMap
			continue
		}
		if exists {
			return
		}
		newMap := make(map[string]any)
		current[key] = newMap
		current = newMap
	}
}
