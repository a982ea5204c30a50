// Package bridge is a string-keyed request/response channel between the
// screens and the host environment. Handlers exchange JSON values.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/atomicstack/imodel-browser/internal/logging/events"
)

// Query names served by the host.
const (
	QueryBimDocuments   = "getBimDocuments"
	QueryChooseDocument = "chooseDocument"
)

// ErrNoHandler reports a query nobody registered.
var ErrNoHandler = errors.New("no query handler")

// Handler answers one query. params is the raw JSON sent by the caller and
// may be empty. The result is marshalled to JSON.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Querier is the caller side of a Messenger.
type Querier interface {
	Query(ctx context.Context, name string, params any) (json.RawMessage, error)
}

// Messenger routes queries to registered handlers.
type Messenger struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewMessenger returns a messenger with no handlers.
func NewMessenger() *Messenger {
	return &Messenger{handlers: make(map[string]Handler)}
}

// RegisterQueryHandler binds name to h, replacing any earlier handler.
func (m *Messenger) RegisterQueryHandler(name string, h Handler) {
	name = strings.TrimSpace(name)
	if name == "" || h == nil {
		return
	}
	m.mu.Lock()
	m.handlers[name] = h
	m.mu.Unlock()
}

// Names lists the registered queries in order.
func (m *Messenger) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.handlers))
	for name := range m.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Query runs the handler bound to name with params encoded as JSON and
// returns the handler's JSON-encoded result.
func (m *Messenger) Query(ctx context.Context, name string, params any) (json.RawMessage, error) {
	m.mu.RLock()
	h, ok := m.handlers[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, name)
	}
	events.Documents.Query(name)

	var raw json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%s: encode params: %w", name, err)
		}
		raw = encoded
	}
	result, err := h(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%s: encode result: %w", name, err)
	}
	return out, nil
}

// QueryInto runs a query and decodes its result into T.
func QueryInto[T any](ctx context.Context, q Querier, name string, params any) (T, error) {
	var out T
	raw, err := q.Query(ctx, name, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%s: decode result: %w", name, err)
	}
	return out, nil
}
