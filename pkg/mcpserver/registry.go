package mcpserver

import (
	"fmt"
	"sort"
	"sync"

	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

// Entry is a workflow definition together with its tool options.
type Entry struct {
	Workflow *workflow.Workflow
	Options  Options
}

// Name returns the workflow name.
func (e Entry) Name() string { return e.Workflow.Name() }

// Registry holds the workflow definitions a server can expose.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Add registers wf. Names must be unique.
func (r *Registry) Add(wf *workflow.Workflow, opts Options) error {
	if wf == nil || wf.Name() == "" {
		return fmt.Errorf("workflow must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[wf.Name()]; ok {
		return fmt.Errorf("workflow %q already registered", wf.Name())
	}
	r.entries[wf.Name()] = Entry{Workflow: wf, Options: opts}
	return nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(wf *workflow.Workflow, opts Options) {
	if err := r.Add(wf, opts); err != nil {
		panic(err)
	}
}

// Get returns the entry for name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the registered workflow names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the registered entries sorted by name.
func (r *Registry) Entries() []Entry {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Entry, 0, len(names))
	for _, name := range names {
		list = append(list, r.entries[name])
	}
	return list
}
