package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// rawSample is the wire form of a sample: [epoch-ms, rate]
type rawSample []json.Number

// seriesEnvelope matches the statistics payload, where the throughput series is series[0]
type seriesEnvelope struct {
	Series [][]rawSample `json:"series"`
}

// DecodeSeries reads a series from JSON.
// Accepts either a bare array of [epoch-ms, rate] pairs or an object whose
// "series" field holds such arrays (the first one is used).
func DecodeSeries(r io.Reader) (Series, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read series: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("series payload is empty")
	}

	var samples []rawSample
	if body[0] == '{' {
		var env seriesEnvelope
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&env); err != nil {
			return nil, fmt.Errorf("failed to decode series envelope: %w", err)
		}
		if len(env.Series) > 0 {
			samples = env.Series[0]
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&samples); err != nil {
			return nil, fmt.Errorf("failed to decode series: %w", err)
		}
	}

	series := make(Series, 0, len(samples))
	for i, s := range samples {
		if len(s) < 2 {
			return nil, fmt.Errorf("sample %d: expected [timestamp, value], got %d fields", i, len(s))
		}
		ts, err := s[0].Int64()
		if err != nil {
			// some feeds send fractional milliseconds
			f, ferr := s[0].Float64()
			if ferr != nil {
				return nil, fmt.Errorf("sample %d: invalid timestamp %q: %w", i, s[0], err)
			}
			ts = int64(f)
		}
		v, err := s[1].Float64()
		if err != nil {
			return nil, fmt.Errorf("sample %d: invalid value %q: %w", i, s[1], err)
		}
		series = append(series, Point{Timestamp: ts, Value: v})
	}

	return series, nil
}

// MarshalJSON writes a point in its [epoch-ms, rate] wire form
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.Timestamp, p.Value})
}
