package protocol_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/carn181/dspadapter/protocol"
)

func TestRegistryLookup(t *testing.T) {
	r := protocol.DefaultRegistry()

	m, ok := r.Lookup("initialize")
	if !ok {
		t.Fatal("initialize should be registered")
	}
	if len(m.ParamTypes) != 1 || m.ParamTypes[0] != reflect.TypeOf(protocol.InitializeRequestArguments{}) {
		t.Fatalf("wrong parameter types: %v", m.ParamTypes)
	}
	if m.ResultType != reflect.TypeOf(protocol.Capabilities{}) {
		t.Fatalf("wrong result type: %v", m.ResultType)
	}

	if _, ok := r.Lookup("doesNotExist"); ok {
		t.Fatal("unknown method should not resolve")
	}
}

func TestEventHasNoResultType(t *testing.T) {
	r := protocol.DefaultRegistry()
	m, ok := r.Lookup("output")
	if !ok {
		t.Fatal("output should be registered")
	}
	if m.ResultType != nil {
		t.Fatalf("events have no result type, got %v", m.ResultType)
	}
}

func TestPendingRequests(t *testing.T) {
	p := protocol.NewPendingRequests()
	p.Add("7", "initialize")

	method, ok := p.Resolve("7")
	if !ok || method != "initialize" {
		t.Fatalf("got %q %v", method, ok)
	}

	p.Remove("7")
	if _, ok := p.Resolve("7"); ok {
		t.Fatal("removed entry should not resolve")
	}
}

// One goroutine sending, one resolving, as a reader/writer pair would.
func TestPendingRequestsConcurrent(t *testing.T) {
	p := protocol.NewPendingRequests()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			p.Add("1", "evaluate")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			p.Resolve("1")
		}
	}()
	wg.Wait()
}
