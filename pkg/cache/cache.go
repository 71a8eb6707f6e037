// Package cache provides an LRU cache for rendered graph output with
// disk persistence.
package cache

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Entry is one cached render: the source digest it was computed from and
// the canonical text.
type Entry struct {
	Key        string
	Output     string
	CreatedAt  time.Time
	AccessedAt time.Time
}

// Store is an in-memory LRU cache keyed by source digest, with optional
// persistence to a msgpack file between runs.
type Store struct {
	mu         sync.RWMutex
	items      map[string]*listItem
	lru        *list // most recent at front
	maxEntries int
	onEvict    func(key string)
}

// listItem is an item in the doubly-linked list.
type listItem struct {
	Entry
	prev *listItem
	next *listItem
}

// list represents a doubly-linked list.
type list struct {
	head *listItem // most recently accessed
	tail *listItem // least recently accessed
	len  int
}

func newList() *list {
	return &list{}
}

// moveToFront moves an item to the front (most recently used).
func (l *list) moveToFront(item *listItem) {
	if item == l.head {
		return
	}

	if item.prev != nil {
		item.prev.next = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	}
	if item == l.tail {
		l.tail = item.prev
	}

	item.prev = nil
	item.next = l.head
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item

	if l.tail == nil {
		l.tail = item
	}
}

// removeBack removes and returns the least recently used item.
func (l *list) removeBack() *listItem {
	if l.tail == nil {
		return nil
	}

	item := l.tail
	l.tail = item.prev
	if l.tail != nil {
		l.tail.next = nil
	} else {
		l.head = nil
	}
	l.len--
	return item
}

// pushFront adds an item to the front of the list.
func (l *list) pushFront(item *listItem) {
	item.next = l.head
	item.prev = nil
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item
	if l.tail == nil {
		l.tail = item
	}
	l.len++
}

// Options configures the store.
type Options struct {
	// MaxEntries is the maximum number of cached renders.
	// 0 means unlimited.
	MaxEntries int

	// OnEvict is called when an entry is evicted.
	OnEvict func(key string)
}

// New creates a new store with the given options.
func New(opts Options) *Store {
	return &Store{
		items:      make(map[string]*listItem),
		lru:        newList(),
		maxEntries: opts.MaxEntries,
		onEvict:    opts.OnEvict,
	}
}

// Get retrieves a cached render by digest.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, found := s.items[key]
	if !found {
		return "", false
	}

	item.AccessedAt = time.Now()
	s.lru.moveToFront(item)
	return item.Output, true
}

// Put stores a rendered output under its digest, evicting the least
// recently used entries past the configured limit.
func (s *Store) Put(key, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, exists := s.items[key]; exists {
		item.Output = output
		item.AccessedAt = time.Now()
		s.lru.moveToFront(item)
		return
	}

	item := &listItem{
		Entry: Entry{
			Key:        key,
			Output:     output,
			CreatedAt:  time.Now(),
			AccessedAt: time.Now(),
		},
	}

	s.items[key] = item
	s.lru.pushFront(item)

	for s.maxEntries > 0 && s.lru.len > s.maxEntries {
		evicted := s.lru.removeBack()
		if evicted == nil {
			break
		}
		delete(s.items, evicted.Key)
		if s.onEvict != nil {
			s.onEvict(evicted.Key)
		}
	}
}

// Delete removes a digest from the store.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, found := s.items[key]
	if !found {
		return
	}

	if item.prev != nil {
		item.prev.next = item.next
	} else {
		s.lru.head = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	} else {
		s.lru.tail = item.prev
	}
	s.lru.len--

	delete(s.items, key)

	if s.onEvict != nil {
		s.onEvict(key)
	}
}

// Clear removes all entries from the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*listItem)
	s.lru = newList()
}

// Len returns the number of cached renders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Save persists the store to a writer using msgpack, most recently used
// first.
func (s *Store) Save(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.items))
	for item := s.lru.head; item != nil; item = item.next {
		entries = append(entries, item.Entry)
	}

	enc := msgpack.NewEncoder(w)
	return enc.Encode(entries)
}

// Load restores the store from a reader, replacing any current contents.
func (s *Store) Load(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []Entry
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode cache: %w", err)
	}

	s.items = make(map[string]*listItem)
	s.lru = newList()

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		item := &listItem{Entry: entry}
		s.items[entry.Key] = item
		s.lru.pushFront(item)
	}

	return nil
}

// PersistToFile saves the store to a file.
func PersistToFile(s *Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	return s.Save(f)
}

// LoadFromFile loads the store from a file. A missing file is not an
// error; the store starts empty.
func LoadFromFile(s *Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	return s.Load(f)
}
