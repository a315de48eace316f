package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// SubstituteTemplate renders a per-item command template. {{field}} and
// {{nested.field}} resolve against the item (empty string when unresolved),
// {{.}} and {{value}} are the item itself for scalars, and {{index}} is the
// item's zero-based position.
func SubstituteTemplate(tmpl string, item any, index int) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		switch name {
		case ".":
			return Stringify(item)
		case "index":
			return strconv.Itoa(index)
		}

		if obj, ok := item.(map[string]any); ok {
			v, found, err := resolvePath(obj, name)
			if err != nil || !found {
				return ""
			}
			return Stringify(v)
		}

		if name == "value" {
			return Stringify(item)
		}
		return ""
	})
}

// Stringify converts a value to its command-line string form. Maps and
// slices render as JSON rather than Go's %v format; integral floats (the
// usual shape of JSON numbers) drop the trailing ".0".
func Stringify(v any) string {
	if v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}

	kind := reflect.ValueOf(v).Kind()
	if kind == reflect.Map || kind == reflect.Slice || kind == reflect.Array {
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", v)
}
