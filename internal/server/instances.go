package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/runtime/document"
	"github.com/conduit-lang/inspector/runtime/metadata"
	"github.com/conduit-lang/inspector/runtime/widget"
)

var (
	errInstanceNotFound = errors.New("instance not found")
	errBadRequest       = errors.New("bad request")
)

// liveInstance is a value being edited over the API. Every draw and
// serialization holds mu, so edits from several clients never interleave.
type liveInstance struct {
	id   string
	inst metadata.Instance

	mu      sync.Mutex
	version uint64
	open    map[string]bool

	subsMu sync.Mutex
	subs   map[*liveClient]struct{}
}

// InstanceInfo is the listing entry of a live instance
type InstanceInfo struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Version uint64 `json:"version"`
}

// FrameMessage is pushed to websocket clients and returned by the frame
// and edits endpoints
type FrameMessage struct {
	Instance string       `json:"instance"`
	Version  uint64       `json:"version"`
	Frame    widget.Frame `json:"frame"`
	Error    string       `json:"error,omitempty"`
}

func (li *liveInstance) info() InstanceInfo {
	li.mu.Lock()
	defer li.mu.Unlock()
	return InstanceInfo{ID: li.id, Type: li.inst.TypeName(), Version: li.version}
}

// edit applies in and returns the resulting frame. Section open state
// persists across edits of the same instance.
func (li *liveInstance) edit(style metadata.Style, in scene.Inputs) (FrameMessage, error) {
	li.mu.Lock()
	defer li.mu.Unlock()

	for section, open := range in.Open {
		li.open[section] = open
	}
	in.Open = li.open

	frame, err := scene.Edit(li.inst, li.id, style, in)
	for _, op := range frame.Ops {
		if op.Changed {
			li.version++
			break
		}
	}
	return FrameMessage{Instance: li.id, Version: li.version, Frame: frame}, err
}

func (li *liveInstance) document(opts ...metadata.SerializeOption) *document.Document {
	li.mu.Lock()
	defer li.mu.Unlock()
	return li.inst.Document(opts...)
}

func (li *liveInstance) subscribe(c *liveClient) {
	li.subsMu.Lock()
	li.subs[c] = struct{}{}
	li.subsMu.Unlock()
}

func (li *liveInstance) unsubscribe(c *liveClient) {
	li.subsMu.Lock()
	delete(li.subs, c)
	li.subsMu.Unlock()
}

func (li *liveInstance) broadcast(msg FrameMessage) {
	li.subsMu.Lock()
	defer li.subsMu.Unlock()
	for c := range li.subs {
		c.push(msg)
	}
}

// instances is the set of live instances, keyed by id
type instances struct {
	mu    sync.RWMutex
	byID  map[string]*liveInstance
	newFn func(typeName string) (metadata.Instance, error)
}

func newInstances(newFn func(string) (metadata.Instance, error)) *instances {
	return &instances{byID: make(map[string]*liveInstance), newFn: newFn}
}

// create adds a new instance of typeName. An empty id gets a UUID.
func (s *instances) create(typeName, id string) (*liveInstance, error) {
	inst, err := s.newFn(typeName)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[id]; exists {
		return nil, fmt.Errorf("%w: instance %s already exists", errBadRequest, id)
	}
	li := &liveInstance{
		id:   id,
		inst: inst,
		open: make(map[string]bool),
		subs: make(map[*liveClient]struct{}),
	}
	s.byID[id] = li
	return li, nil
}

func (s *instances) get(id string) (*liveInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	li, ok := s.byID[id]
	if !ok {
		return nil, errInstanceNotFound
	}
	return li, nil
}

func (s *instances) remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return errInstanceNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *instances) list() []InstanceInfo {
	s.mu.RLock()
	all := make([]*liveInstance, 0, len(s.byID))
	for _, li := range s.byID {
		all = append(all, li)
	}
	s.mu.RUnlock()

	out := make([]InstanceInfo, len(all))
	for i, li := range all {
		out[i] = li.info()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
