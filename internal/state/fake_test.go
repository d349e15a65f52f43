package state

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"jobdesk-engine/internal/gateway"
)

// fakeBackend scripts responses per "METHOD path" key. A gate channel, if
// set, blocks the first call that picks it up until the test closes it;
// that is how out-of-order completions and in-flight saves are staged.
type fakeBackend struct {
	mu        sync.Mutex
	responses map[string]any
	errs      map[string]error
	gates     map[string]chan struct{}
	calls     []string
	bodies    map[string]any
	persisted int
	cleared   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		responses: make(map[string]any),
		errs:      make(map[string]error),
		gates:     make(map[string]chan struct{}),
		bodies:    make(map[string]any),
	}
}

func (f *fakeBackend) set(key string, v any)        { f.mu.Lock(); f.responses[key] = v; f.mu.Unlock() }
func (f *fakeBackend) fail(key string, err error)   { f.mu.Lock(); f.errs[key] = err; f.mu.Unlock() }
func (f *fakeBackend) gate(key string) chan struct{} {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[key] = ch
	f.mu.Unlock()
	return ch
}

func (f *fakeBackend) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == key {
			n++
		}
	}
	return n
}

// do snapshots the scripted response before waiting on the gate, so a
// blocked first call still returns the value that was current when it
// started, exactly how a slow network response carries stale data.
func (f *fakeBackend) do(key string, body, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	if body != nil {
		f.bodies[key] = body
	}
	err := f.errs[key]
	v, okv := f.responses[key]
	g := f.gates[key]
	if g != nil {
		delete(f.gates, key)
	}
	f.mu.Unlock()

	if g != nil {
		<-g
	}
	if err != nil {
		return err
	}
	if out != nil && okv {
		b, merr := json.Marshal(v)
		if merr != nil {
			return merr
		}
		return json.Unmarshal(b, out)
	}
	return nil
}

func (f *fakeBackend) GetJSON(_ context.Context, path string, out any) error {
	return f.do("GET "+path, nil, out)
}
func (f *fakeBackend) PostJSON(_ context.Context, path string, body, out any) error {
	return f.do("POST "+path, body, out)
}
func (f *fakeBackend) PatchJSON(_ context.Context, path string, body, out any) error {
	return f.do("PATCH "+path, body, out)
}
func (f *fakeBackend) PutJSON(_ context.Context, path string, body, out any) error {
	return f.do("PUT "+path, body, out)
}
func (f *fakeBackend) Delete(_ context.Context, path string) error {
	return f.do("DELETE "+path, nil, nil)
}

func (f *fakeBackend) RawJSON(_ context.Context, method, path string, body any) ([]byte, error) {
	var raw json.RawMessage
	if err := f.do(method+" "+path, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (f *fakeBackend) Upload(_ context.Context, path string, fields map[string]string, files []gateway.FilePart, out any, _ gateway.Progress) error {
	return f.do(http.MethodPost+" "+path, fields, out)
}

func (f *fakeBackend) PersistSession() error {
	f.mu.Lock()
	f.persisted++
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) ClearSession() error {
	f.mu.Lock()
	f.cleared++
	f.mu.Unlock()
	return nil
}

// seekerDoc builds a decodable job-seeker profile payload.
func seekerDoc(id string, version int, fields map[string]any) map[string]any {
	doc := map[string]any{
		"profileType": "job_seeker",
		"id":          id,
		"userId":      "u1",
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"version":     version,
	}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}
