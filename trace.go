package bunches

import (
	"encoding/json"
)

// Trace captures provenance for a single library lookup: which layers were
// probed and which one produced the effective value.
type Trace struct {
	Key    string  `json:"key"`
	Probes []Probe `json:"probes"`
}

// Probe details one layer's contribution to a traced lookup.
type Probe struct {
	Layer    string `json:"layer"`
	Priority int    `json:"priority"`
	Found    bool   `json:"found"`
	Value    any    `json:"value,omitempty"`
}

// Resolved returns the name of the layer that won the lookup, or false when
// every probe missed.
func (t Trace) Resolved() (string, bool) {
	for _, probe := range t.Probes {
		if probe.Found {
			return probe.Layer, true
		}
	}
	return "", false
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
