// Package mock provides a screen double for tests: drawing calls are
// recorded through an Interceptor and input events can be injected.
package mock

import "sync"

// Interceptor records named calls and their arguments.
type Interceptor struct {
	m      sync.Mutex
	Events map[string][]interface{}
}

func NewInterceptor() *Interceptor {
	return &Interceptor{
		Events: make(map[string][]interface{}),
	}
}

// Reset drops everything recorded so far.
func (i *Interceptor) Reset() {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events = make(map[string][]interface{})
}

// Record appends one call with its arguments under name.
func (i *Interceptor) Record(name string, args []interface{}) {
	i.m.Lock()
	defer i.m.Unlock()

	i.Events[name] = append(i.Events[name], interface{}(args))
}
