package recordsclient

import (
	"context"
	"sync"
)

// Store is the paging view-model backing a records list screen. It keeps one
// accumulated window of fetched records plus the active filter/sort
// parameters.
//
// Mutating a filter never triggers a reload by itself; the view layer
// observes changes (Subscribe) and calls LoadFirstPage when a filter
// changed. That keeps state transitions testable independent of fetching.
//
// Every reset bumps an internal generation counter; a fetch response that
// arrives for an older generation is discarded, so a slow page cannot leak
// into a window that was reset while it was in flight.
type Store struct {
	mu     sync.Mutex
	client *Client

	items   []RecordListItem
	limit   int
	offset  int
	hasMore bool
	loading bool
	loadErr error

	generation uint64

	defectTypes []string
	minSeverity *int
	maxSeverity *int
	days        int
	sortBy      string
	order       string

	subs   map[int]func()
	nextID int
}

func NewStore(client *Client) *Store {
	return &Store{
		client:  client,
		limit:   20,
		hasMore: true,
		days:    30,
		sortBy:  SortByCreatedAt,
		order:   OrderDesc,
		subs:    make(map[int]func()),
	}
}

// Subscribe registers a change callback and returns an unsubscribe func.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notifyLocked snapshots subscribers under the lock; callers invoke the
// returned func after unlocking so callbacks can read the store freely.
func (s *Store) notifyLocked() func() {
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

/* ---------- filter setters ---------- */

func (s *Store) SetDays(days int) {
	if days != 7 && days != 14 && days != 30 {
		return
	}
	s.mu.Lock()
	s.days = days
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Store) SetSortBy(sortBy string) {
	if sortBy != SortByCreatedAt && sortBy != SortBySeverity {
		return
	}
	s.mu.Lock()
	s.sortBy = sortBy
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Store) ToggleOrder() {
	s.mu.Lock()
	if s.order == OrderDesc {
		s.order = OrderAsc
	} else {
		s.order = OrderDesc
	}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Store) ToggleDefectType(key string) {
	s.mu.Lock()
	found := false
	kept := s.defectTypes[:0]
	for _, dt := range s.defectTypes {
		if dt == key {
			found = true
			continue
		}
		kept = append(kept, dt)
	}
	if found {
		s.defectTypes = kept
	} else {
		s.defectTypes = append(s.defectTypes, key)
	}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Store) ClearDefectTypes() {
	s.mu.Lock()
	s.defectTypes = nil
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// SetMinSeverity keeps the range consistent: raising the minimum above the
// maximum drags the maximum up with it.
func (s *Store) SetMinSeverity(v *int) {
	s.mu.Lock()
	s.minSeverity = v
	if s.minSeverity != nil && s.maxSeverity != nil && *s.minSeverity > *s.maxSeverity {
		s.maxSeverity = s.minSeverity
	}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Store) SetMaxSeverity(v *int) {
	s.mu.Lock()
	s.maxSeverity = v
	if s.minSeverity != nil && s.maxSeverity != nil && *s.minSeverity > *s.maxSeverity {
		s.minSeverity = s.maxSeverity
	}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Store) ClearSeverity() {
	s.mu.Lock()
	s.minSeverity = nil
	s.maxSeverity = nil
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

func (s *Store) ResetFilters() {
	s.mu.Lock()
	s.defectTypes = nil
	s.minSeverity = nil
	s.maxSeverity = nil
	s.days = 30
	s.sortBy = SortByCreatedAt
	s.order = OrderDesc
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

/* ---------- paging ---------- */

// LoadFirstPage clears the window and fetches the first page with the
// current filters. Call it whenever a filter or sort parameter changed.
func (s *Store) LoadFirstPage(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	s.items = nil
	s.offset = 0
	s.hasMore = true
	s.loadErr = nil
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()

	return s.LoadNextPage(ctx)
}

// LoadNextPage fetches one page at the current offset. It is a no-op while a
// fetch is in flight or when the end was reached. On failure the window and
// offset stay untouched; only the error is set.
func (s *Store) LoadNextPage(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || !s.hasMore {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.loadErr = nil
	gen := s.generation
	params := s.paramsLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()

	resp, err := s.client.ListRecords(ctx, params)

	s.mu.Lock()
	s.loading = false
	if gen != s.generation {
		// A reset happened while this fetch was in flight; drop it.
		notify = s.notifyLocked()
		s.mu.Unlock()
		notify()
		return nil
	}
	if err != nil {
		s.loadErr = err
		notify = s.notifyLocked()
		s.mu.Unlock()
		notify()
		return err
	}

	s.items = append(s.items, resp.Items...)
	// Advance by the count actually returned so short final pages line up.
	s.offset = resp.Offset + len(resp.Items)
	s.hasMore = resp.HasMore
	notify = s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

func (s *Store) paramsLocked() ListParams {
	return ListParams{
		DefectTypes: append([]string(nil), s.defectTypes...),
		MinSeverity: s.minSeverity,
		MaxSeverity: s.maxSeverity,
		Days:        s.days,
		SortBy:      s.sortBy,
		Order:       s.order,
		Limit:       s.limit,
		Offset:      s.offset,
	}
}

/* ---------- getters ---------- */

func (s *Store) Items() []RecordListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordListItem(nil), s.items...)
}

func (s *Store) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}
