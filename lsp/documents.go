package lsp

import (
	"container/list"
	"sync"
)

// document is an open text document as last synced by the client
type document struct {
	uri     string
	version int32
	text    string
}

// documentStore keeps the most recently used open documents. When the store
// is full the least recently touched document is evicted.
type documentStore struct {
	mu    sync.Mutex
	max   int
	order *list.List // front is most recent
	byURI map[string]*list.Element
}

func newDocumentStore(max int) *documentStore {
	if max <= 0 {
		max = 1
	}
	return &documentStore{
		max:   max,
		order: list.New(),
		byURI: make(map[string]*list.Element),
	}
}

// put stores or replaces the text for uri and returns the evicted URI, if any
func (s *documentStore) put(uri string, version int32, text string) (evicted string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.byURI[uri]; ok {
		doc := el.Value.(*document)
		doc.version = version
		doc.text = text
		s.order.MoveToFront(el)
		return ""
	}

	s.byURI[uri] = s.order.PushFront(&document{uri: uri, version: version, text: text})
	if s.order.Len() <= s.max {
		return ""
	}
	oldest := s.order.Back()
	s.order.Remove(oldest)
	evicted = oldest.Value.(*document).uri
	delete(s.byURI, evicted)
	return evicted
}

func (s *documentStore) get(uri string) (document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.byURI[uri]
	if !ok {
		return document{}, false
	}
	s.order.MoveToFront(el)
	return *el.Value.(*document), true
}

func (s *documentStore) remove(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.byURI[uri]; ok {
		s.order.Remove(el)
		delete(s.byURI, uri)
	}
}

// resize changes the capacity, evicting the oldest documents over it
func (s *documentStore) resize(max int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if max <= 0 {
		max = 1
	}
	s.max = max

	var evicted []string
	for s.order.Len() > s.max {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		uri := oldest.Value.(*document).uri
		delete(s.byURI, uri)
		evicted = append(evicted, uri)
	}
	return evicted
}

func (s *documentStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
