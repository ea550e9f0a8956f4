package flow

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/0STG0T/t1-solution-2/internal/util"
	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

type (
	// Registry keeps the open editors, creating them on first use and
	// closing the least recently used ones once CacheSize is exceeded
	Registry struct {
		bus   *Bus
		opts  Options
		cache *util.LRUCache[*Editor]
		mu    sync.Mutex
	}

	// Options configure how a Registry creates editors
	Options struct {
		IDScheme  IDScheme
		CacheSize int
		Seed      []Candidate
	}
)

// DefaultCacheSize is used when Options leave CacheSize unset
const DefaultCacheSize = 1024

// DefaultSeed returns the items a fresh editor starts with
func DefaultSeed() []Candidate {
	return []Candidate{
		{Type: api.ItemInput, Label: "User Input"},
		{Type: api.ItemProcess, Label: "Process Message"},
		{Type: api.ItemOutput, Label: "AI Response"},
	}
}

// NewRegistry creates an empty registry publishing on its own bus
func NewRegistry(opts Options) (*Registry, error) {
	if _, err := NewMinter(opts.IDScheme); err != nil {
		return nil, err
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	r := &Registry{
		bus:  NewBus(),
		opts: opts,
	}
	r.cache = util.NewLRUCacheWithEvict(opts.CacheSize, r.evicted)
	return r, nil
}

// Bus returns the change event bus shared by every editor
func (r *Registry) Bus() *Bus {
	return r.bus
}

// Editor returns the open editor for flowID, creating it if needed. Each
// editor mints IDs from its own minter
func (r *Registry) Editor(flowID api.FlowID) (*Editor, error) {
	if err := flowID.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Get(string(flowID), func() (*Editor, error) {
		mint, err := NewMinter(r.opts.IDScheme)
		if err != nil {
			return nil, err
		}
		e, err := NewEditor(flowID, r.bus, mint, r.opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("open editor %s: %w", flowID, err)
		}
		return e, nil
	})
}

// Lookup returns an editor only if it is already open
func (r *Registry) Lookup(flowID api.FlowID) (*Editor, bool) {
	return r.cache.Peek(string(flowID))
}

// Close closes the editor for flowID if it is open
func (r *Registry) Close(flowID api.FlowID) bool {
	return r.cache.Remove(string(flowID))
}

// Len returns the number of open editors
func (r *Registry) Len() int {
	return r.cache.Len()
}

// CloseAll closes every editor and then the bus
func (r *Registry) CloseAll() {
	r.cache.Purge()
	r.bus.Close()
}

func (r *Registry) evicted(key string, e *Editor) {
	slog.Info("Editor released",
		log.FlowID(key))
	e.Close()
}
