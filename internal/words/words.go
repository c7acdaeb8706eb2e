package words

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Epsilon is the minimum width given to a word whose end does not follow its start.
const Epsilon = 0.01

// Word is one recognized token with its timing in seconds.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Interval returns the repaired [start, end) span of the word.
func (w Word) Interval() (float64, float64) {
	r := Repair(w)
	return r.Start, r.End
}

// Repair widens degenerate words so end is always after start.
func Repair(w Word) Word {
	if w.End <= w.Start {
		w.End = w.Start + Epsilon
	}
	return w
}

var (
	wordKeys  = []string{"word", "text", "token"}
	startKeys = []string{"start", "from"}
	endKeys   = []string{"end", "to"}
)

// Parse decodes raw recognizer output. A payload starting with '[' is read as
// a JSON record list; anything else is treated as CTM text.
func Parse(raw []byte) ([]Word, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return ParseCTM(string(trimmed)), nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("parse word records: %w", err)
	}
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return ParseRecords(records), nil
}

// ParseCTM reads CTM lines: utterance-id, channel, start, duration, word.
func ParseCTM(text string) []Word {
	var out []Word
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		start, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		duration, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		out = append(out, Word{Text: normalizeToken(fields[4]), Start: start, End: start + duration})
	}
	return out
}

// ParseRecords reads key-value records using the word/text/token,
// start/from and end/to aliases.
func ParseRecords(records []map[string]any) []Word {
	var out []Word
	for _, rec := range records {
		text, ok := firstText(rec, wordKeys)
		if !ok {
			continue
		}
		rawStart := firstValue(rec, startKeys)
		if rawStart == nil {
			continue
		}
		start, ok := toFloat(rawStart)
		if !ok {
			continue
		}
		end := start
		if rawEnd := firstValue(rec, endKeys); rawEnd != nil {
			if end, ok = toFloat(rawEnd); !ok {
				continue
			}
		}
		out = append(out, Word{Text: normalizeToken(text), Start: start, End: end})
	}
	return out
}

// firstValue returns the first alias that is present and non-null.
func firstValue(rec map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := rec[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstText skips empty aliases so {"word": "", "text": "hi"} yields "hi".
func firstText(rec map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case json.Number:
			s = val.String()
		default:
			s = fmt.Sprint(val)
		}
		if s != "" {
			return s, true
		}
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func normalizeToken(s string) string {
	return norm.NFC.String(s)
}
