package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Placeholder names used by pipeline path templates.
const (
	PlaceholderMaxWidth        = "maxwidth"
	PlaceholderMaxHeight       = "maxheight"
	PlaceholderStride          = "stride"
	PlaceholderEffectiveWidth  = "effective_width"
	PlaceholderEffectiveHeight = "effective_height"
	PlaceholderHashedParams    = "hashed_params"
)

// ErrUnresolvedPlaceholder is returned when a template references a name that
// has no value at the point of substitution.
var ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Placeholders returns the distinct placeholder names of tmpl in order of
// first appearance.
func Placeholders(tmpl string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(tmpl, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// MissingPlaceholders returns the placeholders of tmpl that are not in available.
func MissingPlaceholders(tmpl string, available ...string) []string {
	known := make(map[string]struct{}, len(available))
	for _, a := range available {
		known[a] = struct{}{}
	}

	var missing []string
	for _, name := range Placeholders(tmpl) {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// ResolveTemplate substitutes every {name} placeholder of tmpl with the
// formatted value from values. A placeholder without a value is an error,
// a value without a placeholder is ignored.
func ResolveTemplate(tmpl string, values map[string]any) (string, error) {
	if missing := MissingPlaceholders(tmpl, keys(values)...); len(missing) > 0 {
		return "", fmt.Errorf("%w: %s in %q", ErrUnresolvedPlaceholder, strings.Join(missing, ", "), tmpl)
	}

	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		return fmt.Sprint(values[name])
	}), nil
}

func keys(values map[string]any) []string {
	out := make([]string, 0, len(values))
	for k, v := range values {
		if v == nil {
			continue
		}
		out = append(out, k)
	}
	return out
}
