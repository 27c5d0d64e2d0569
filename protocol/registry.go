package protocol

import (
	"reflect"
	"sync"
)

// Method describes the declared signature of a protocol method.
// A nil type means untyped: the codec keeps the value as raw JSON.
type Method struct {
	ParamTypes []reflect.Type
	ResultType reflect.Type
}

// Registry maps method names to their signatures. Methods are registered
// during setup, before any stream is read; lookups after that are read-only,
// so no locking is needed.
type Registry struct {
	methods map[string]Method
}

func NewRegistry() *Registry {
	return &Registry{methods: map[string]Method{}}
}

func (r *Registry) Register(name string, m Method) {
	r.methods[name] = m
}

func (r *Registry) Lookup(name string) (Method, bool) {
	m, ok := r.methods[name]
	return m, ok
}

// PendingRequests tracks which method each outstanding request used.
// DSP responses carry no method name, so typing a response result requires
// resolving its correlation id back to the request's method.
//
// Entries are added by the sender and resolved by the reader; those usually
// live on different goroutines, hence the lock.
type PendingRequests struct {
	mu      sync.RWMutex
	methods map[string]string
}

func NewPendingRequests() *PendingRequests {
	return &PendingRequests{methods: map[string]string{}}
}

func (p *PendingRequests) Add(id string, method string) {
	p.mu.Lock()
	p.methods[id] = method
	p.mu.Unlock()
}

func (p *PendingRequests) Resolve(id string) (string, bool) {
	p.mu.RLock()
	method, ok := p.methods[id]
	p.mu.RUnlock()
	return method, ok
}

func (p *PendingRequests) Remove(id string) {
	p.mu.Lock()
	delete(p.methods, id)
	p.mu.Unlock()
}

// MethodResolver is the read-only view of the registry and pending-request
// index that the codec consumes. The codec never mutates either.
type MethodResolver interface {
	MethodFor(name string) (Method, bool)
	ResolvePending(id string) (string, bool)
}
