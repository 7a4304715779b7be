// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package flatten turns per-session JSON documents into flat CSV rows.
// Each round of a session yields two rows, one per player, with the column
// set declared by a schema version table.
package flatten

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNoRounds reports a session document without a rounds list.
var ErrNoRounds = errors.New(`session document has no "rounds" list`)

// MissingFieldError reports a required key absent from a session document
// or one of its round records.
type MissingFieldError struct {
	// Field is the missing JSON key.
	Field string
	// Round is the zero-based round index, or -1 for a session-level key.
	Round int
}

func (e *MissingFieldError) Error() string {
	if e.Round < 0 {
		return fmt.Sprintf("session document missing required field %q", e.Field)
	}
	return fmt.Sprintf("round %d missing required field %q", e.Round, e.Field)
}

// Flatten parses one session document and produces its CSV rows: two per
// round, player 1 before player 2, in round order. Any decode error or
// missing required field aborts with an error; nothing is partially
// returned.
func Flatten(sch *Schema, data []byte) ([][]string, error) {
	doc, err := parseSession(data)
	if err != nil {
		return nil, err
	}

	roundsVal, ok := doc["rounds"]
	if !ok {
		return nil, ErrNoRounds
	}
	rounds, ok := roundsVal.([]any)
	if !ok {
		return nil, ErrNoRounds
	}

	rows := make([][]string, 0, 2*len(rounds))
	for i, rv := range rounds {
		record, ok := rv.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("round %d: not a JSON object", i)
		}
		p1, p2, err := flattenRound(sch, doc, record, i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, p1, p2)
	}
	return rows, nil
}

// parseSession decodes a session document, keeping numbers verbatim so the
// CSV output reproduces the source text (no float round-tripping).
func parseSession(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing session document: %w", err)
	}
	return doc, nil
}

func flattenRound(sch *Schema, doc, record map[string]any, round int) (p1, p2 []string, err error) {
	p1 = make([]string, len(sch.Columns))
	p2 = make([]string, len(sch.Columns))
	for i, col := range sch.Columns {
		if p1[i], err = resolve(col.P1, doc, record, round); err != nil {
			return nil, nil, err
		}
		if p2[i], err = resolve(col.P2, doc, record, round); err != nil {
			return nil, nil, err
		}
	}
	return p1, p2, nil
}

func resolve(r Rule, doc, record map[string]any, round int) (string, error) {
	var v any
	var ok bool
	switch r.From {
	case fromConst:
		return r.Const, nil
	case fromSession:
		v, ok = doc[r.Key]
		round = -1
	case fromRound:
		v, ok = record[r.Key]
	}
	if !ok {
		if r.Optional {
			return r.Default, nil
		}
		return "", &MissingFieldError{Field: r.Key, Round: round}
	}
	return renderCell(v), nil
}

// renderCell formats one decoded JSON value as a CSV cell. Scalars map to
// their source text; structured values (the v3 bot memory) are re-encoded
// as compact JSON.
func renderCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
