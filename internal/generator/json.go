package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSON pulls the first bracket-delimited JSON value out of an LLM
// completion. Models wrap their output in prose or markdown fences often
// enough that decoding the raw content directly is unreliable.
func extractJSON(content string, open, close byte) (string, error) {
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, close)
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no %c...%c JSON found in completion", open, close)
	}
	return content[start : end+1], nil
}

// decodeArray extracts a JSON array from a completion and decodes it
// strictly into v. Unknown fields or malformed JSON fail the generation;
// the caller surfaces the error rather than storing a partial result.
func decodeArray(content string, v interface{}) error {
	raw, err := extractJSON(content, '[', ']')
	if err != nil {
		return err
	}
	return strictDecode(raw, v)
}

// decodeObject extracts a JSON object from a completion and decodes it
// strictly into v.
func decodeObject(content string, v interface{}) error {
	raw, err := extractJSON(content, '{', '}')
	if err != nil {
		return err
	}
	return strictDecode(raw, v)
}

func strictDecode(raw string, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("completion is not valid JSON: %w", err)
	}
	return nil
}
