// Package output renders every cmd/mnemon verb's result as the single
// JSON envelope spec'd for the CLI: two-space indent, sorted keys, one
// document per invocation. It mirrors cli.py's `_json_out`, which calls
// `json.dumps(data, indent=2, sort_keys=True)` on a plain dict.
package output

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSON renders v as the standard envelope and writes it to w followed by
// a trailing newline. v is round-tripped through map[string]any (or
// []any) first so nested struct keys come out sorted too — encoding/json
// only sorts map keys, never struct field order.
func JSON(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// Error renders a {"error": message} envelope, the shape cli.py's
// ClickException handler produces on stderr.
func Error(w io.Writer, message string) error {
	return JSON(w, map[string]string{"error": message})
}
