package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Write writes CLI output in the requested format.
//
// Supported formats:
// - json (default)
// - text (flat key: value lines for scripting-free reading)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText renders v through its JSON form as indented key: value lines.
// Arrays print one element per block separated by a blank line.
func WriteText(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	var sb strings.Builder
	writeTextAny(&sb, x, 0)
	_, err = io.WriteString(w, sb.String())
	return err
}

func writeTextAny(sb *strings.Builder, v any, level int) {
	indent := strings.Repeat("  ", level)
	switch t := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(t) {
			val := t[k]
			switch val.(type) {
			case map[string]any, []any:
				fmt.Fprintf(sb, "%s%s:\n", indent, k)
				writeTextAny(sb, val, level+1)
			default:
				fmt.Fprintf(sb, "%s%s: %s", indent, k, scalarText(val))
				sb.WriteByte('\n')
			}
		}
	case []any:
		for i, el := range t {
			if i > 0 && level == 0 {
				sb.WriteByte('\n')
			}
			writeTextAny(sb, el, level)
		}
	default:
		fmt.Fprintf(sb, "%s%s\n", indent, scalarText(v))
	}
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case float64:
		if float64(int64(t)) == t {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
