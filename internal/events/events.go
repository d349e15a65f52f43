package events

import (
	"encoding/json"
	"time"
)

// Phase is the three-stage request lifecycle every slice operation moves
// through. The UI re-renders on fulfilled/rejected; pending drives spinners.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
)

type Event struct {
	Slice string          `json:"slice"` // auth | profile | application
	Op    string          `json:"op"`    // login, fetchCurrent, apply, ...
	Phase Phase           `json:"phase"`
	Seq   uint64          `json:"seq"`
	At    time.Time       `json:"at"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func Make(slice, op string, phase Phase, seq uint64, errMsg string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Slice: slice,
		Op:    op,
		Phase: phase,
		Seq:   seq,
		At:    time.Now().UTC(),
		Error: errMsg,
		Data:  raw,
	}
}

func (e Event) String() string {
	b, _ := json.Marshal(e)
	return string(b)
}
