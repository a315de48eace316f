// Package pipeline implements the select/filter/each pipeline that iterates
// over a command's JSON output.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// SelectPath extracts an ordered sequence of items from a parsed JSON
// document. The path grammar supports dot keys ("user.name"), bracketed
// numeric indices ("items[0]"), and the wildcard segment [*] meaning every
// element of the current array. An empty path is the identity: an array
// selects its elements, anything else selects itself as a single item.
//
// Wildcard paths are evaluated by splitting on [*] boundaries, applying
// each sub-path to every current element and flattening one level at each
// boundary. A final result whose elements are all still arrays is flattened
// once more. Elements that do not resolve are dropped.
func SelectPath(doc any, path string) ([]any, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "." {
		return asSequence(doc), nil
	}

	subpaths := strings.Split(path, "[*]")
	if len(subpaths) == 1 {
		value, found, err := resolvePath(doc, path)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return asSequence(value), nil
	}

	current := []any{doc}
	for i, subpath := range subpaths {
		var next []any
		for _, elem := range current {
			value, found, err := resolvePath(elem, subpath)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			next = append(next, value)
		}

		if i < len(subpaths)-1 {
			// Wildcard boundary: flatten one level.
			var flat []any
			for _, elem := range next {
				if arr, ok := elem.([]any); ok {
					flat = append(flat, arr...)
				} else {
					flat = append(flat, elem)
				}
			}
			next = flat
		}
		current = next
	}

	return flattenIfNested(current), nil
}

// asSequence turns a selected value into an ordered item sequence.
func asSequence(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{v}
}

// flattenIfNested flattens one more level when every element is itself an
// array.
func flattenIfNested(items []any) []any {
	if len(items) == 0 {
		return items
	}
	for _, elem := range items {
		if _, ok := elem.([]any); !ok {
			return items
		}
	}
	var flat []any
	for _, elem := range items {
		flat = append(flat, elem.([]any)...)
	}
	return flat
}

// resolvePath walks dot keys and bracketed indices from v. The second
// return value reports whether the full path resolved; a false value is a
// missing key or out-of-range index, not a syntax error.
func resolvePath(v any, path string) (any, bool, error) {
	path = strings.Trim(path, ".")
	if path == "" {
		return v, true, nil
	}

	rest := path
	for rest != "" {
		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, false, fmt.Errorf("unclosed bracket in path %q", path)
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, false, fmt.Errorf("invalid index %q in path %q", rest[1:end], path)
			}
			arr, ok := v.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false, nil
			}
			v = arr[idx]
			rest = strings.TrimPrefix(rest[end+1:], ".")

		default:
			keyEnd := strings.IndexAny(rest, ".[")
			var key string
			if keyEnd < 0 {
				key, rest = rest, ""
			} else {
				key = rest[:keyEnd]
				if rest[keyEnd] == '.' {
					rest = rest[keyEnd+1:]
				} else {
					rest = rest[keyEnd:]
				}
			}
			obj, ok := v.(map[string]any)
			if !ok {
				return nil, false, nil
			}
			v, ok = obj[key]
			if !ok {
				return nil, false, nil
			}
		}
	}
	return v, true, nil
}
