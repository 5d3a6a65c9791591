package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	bareArray  = regexp.MustCompile(`(?s)\[.*\]`)
)

var errNoJSON = errors.New("no JSON found in response")

// extractJSON recovers the JSON payload from a response that may not have
// used native structured output. It accepts a JSON object as-is, takes the
// body of a fenced code block, or falls back to the outermost bare array.
// A top-level array is wrapped as {key: array} so it matches the schemas.
func extractJSON(raw []byte, key string) (json.RawMessage, error) {
	body := bytes.TrimSpace(raw)
	if !json.Valid(body) {
		if m := fencedJSON.FindSubmatch(body); m != nil {
			body = bytes.TrimSpace(m[1])
		} else if m := bareArray.Find(body); m != nil {
			body = m
		}
	}
	if !json.Valid(body) {
		return nil, errNoJSON
	}

	if len(body) > 0 && body[0] == '[' {
		wrapped, err := json.Marshal(map[string]json.RawMessage{key: body})
		if err != nil {
			return nil, err
		}
		return wrapped, nil
	}
	return body, nil
}
