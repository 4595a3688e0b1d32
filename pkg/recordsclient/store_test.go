package recordsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagingServer serves a fixed record set with offset/limit slicing, the same
// shape the real list endpoint produces.
type pagingServer struct {
	records  []RecordListItem
	requests atomic.Int64
	// gate, when set, is closed by the test to release a blocked response.
	gate chan struct{}
}

func makeRecords(n int) []RecordListItem {
	items := make([]RecordListItem, 0, n)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		items = append(items, RecordListItem{
			ID:         fmt.Sprintf("rec-%03d", i),
			DefectType: "CRACKS",
			Severity:   (i % 5) + 1,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	return items
}

func (ps *pagingServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		if ps.gate != nil {
			<-ps.gate
		}

		q := r.URL.Query()
		limit := 20
		if v := q.Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		offset := 0
		if v := q.Get("offset"); v != "" {
			fmt.Sscanf(v, "%d", &offset)
		}

		total := len(ps.records)
		end := offset + limit
		if offset > total {
			offset = total
		}
		if end > total {
			end = total
		}
		page := ps.records[offset:end]

		resp := ListRecordsResponse{
			Items:   page,
			Total:   int64(total),
			Limit:   limit,
			Offset:  offset,
			Days:    30,
			HasMore: offset+len(page) < total,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newStoreFixture(t *testing.T, ps *pagingServer) (*Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(ps.handler())
	t.Cleanup(srv.Close)
	return NewStore(New(srv.URL, "device-test")), srv
}

func TestStore_PagesThroughFullSet(t *testing.T) {
	ps := &pagingServer{records: makeRecords(25)}
	store, _ := newStoreFixture(t, ps)
	ctx := context.Background()

	require.NoError(t, store.LoadFirstPage(ctx))
	assert.Len(t, store.Items(), 20)
	assert.Equal(t, 20, store.Offset())
	assert.True(t, store.HasMore())

	require.NoError(t, store.LoadNextPage(ctx))
	items := store.Items()
	assert.Len(t, items, 25)
	assert.Equal(t, 25, store.Offset())
	assert.False(t, store.HasMore())

	// The accumulated window equals the server's full set, in order.
	for i, item := range items {
		assert.Equal(t, ps.records[i].ID, item.ID)
	}
}

func TestStore_NoFetchPastEnd(t *testing.T) {
	ps := &pagingServer{records: makeRecords(5)}
	store, _ := newStoreFixture(t, ps)
	ctx := context.Background()

	require.NoError(t, store.LoadFirstPage(ctx))
	assert.False(t, store.HasMore())
	fetched := ps.requests.Load()

	require.NoError(t, store.LoadNextPage(ctx))
	assert.Equal(t, fetched, ps.requests.Load(), "no request once hasMore is false")
	assert.Len(t, store.Items(), 5)
}

func TestStore_EmptyResult(t *testing.T) {
	ps := &pagingServer{records: nil}
	store, _ := newStoreFixture(t, ps)

	require.NoError(t, store.LoadFirstPage(context.Background()))
	assert.Empty(t, store.Items())
	assert.Zero(t, store.Offset())
	assert.False(t, store.HasMore())
}

func TestStore_ErrorKeepsWindowIntact(t *testing.T) {
	ps := &pagingServer{records: makeRecords(25)}
	srv := httptest.NewServer(ps.handler())
	t.Cleanup(srv.Close)

	failing := atomic.Bool{}
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL","message":"boom"}}`))
			return
		}
		ps.handler()(w, r)
	}))
	t.Cleanup(proxy.Close)

	store := NewStore(New(proxy.URL, "device-test"))
	ctx := context.Background()

	require.NoError(t, store.LoadFirstPage(ctx))
	require.Len(t, store.Items(), 20)

	failing.Store(true)
	err := store.LoadNextPage(ctx)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "INTERNAL", apiErr.Code)

	// Window, offset and hasMore all survive the failure.
	assert.Len(t, store.Items(), 20)
	assert.Equal(t, 20, store.Offset())
	assert.True(t, store.HasMore())
	assert.Error(t, store.Err())

	// Retry picks up where the failed fetch left off.
	failing.Store(false)
	require.NoError(t, store.LoadNextPage(ctx))
	assert.Len(t, store.Items(), 25)
	assert.NoError(t, store.Err())
}

func TestStore_StaleResponseDiscardedAfterReset(t *testing.T) {
	ps := &pagingServer{records: makeRecords(25), gate: make(chan struct{})}
	store, _ := newStoreFixture(t, ps)
	ctx := context.Background()

	// First fetch blocks inside the server.
	done := make(chan error, 1)
	go func() { done <- store.LoadFirstPage(ctx) }()

	// Wait until the request is in flight.
	require.Eventually(t, func() bool { return ps.requests.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Resetting while the fetch is pending bumps the generation; the inner
	// LoadNextPage is a no-op because a fetch is already in flight.
	require.NoError(t, store.LoadFirstPage(ctx))
	require.Equal(t, int64(1), ps.requests.Load())

	close(ps.gate)
	require.NoError(t, <-done)

	// The stale page never landed in the window.
	assert.Empty(t, store.Items())
	assert.Zero(t, store.Offset())
	assert.False(t, store.Loading())
}

func TestStore_LoadNextPageNoOpWhileLoading(t *testing.T) {
	ps := &pagingServer{records: makeRecords(25), gate: make(chan struct{})}
	store, _ := newStoreFixture(t, ps)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- store.LoadFirstPage(ctx) }()
	require.Eventually(t, func() bool { return store.Loading() }, time.Second, 5*time.Millisecond)

	// Concurrent calls while loading return immediately without fetching.
	require.NoError(t, store.LoadNextPage(ctx))
	require.NoError(t, store.LoadNextPage(ctx))
	assert.Equal(t, int64(1), ps.requests.Load())

	close(ps.gate)
	require.NoError(t, <-done)
	assert.Len(t, store.Items(), 20)
}

func TestStore_SubscribersNotified(t *testing.T) {
	ps := &pagingServer{records: makeRecords(3)}
	store, _ := newStoreFixture(t, ps)

	var notifications atomic.Int64
	unsubscribe := store.Subscribe(func() { notifications.Add(1) })

	store.SetDays(7)
	assert.Equal(t, int64(1), notifications.Load())

	require.NoError(t, store.LoadFirstPage(context.Background()))
	assert.Greater(t, notifications.Load(), int64(1))

	after := notifications.Load()
	unsubscribe()
	store.SetDays(14)
	assert.Equal(t, after, notifications.Load(), "no callbacks after unsubscribe")
}

func TestStore_FilterSetters(t *testing.T) {
	store := NewStore(New("http://unused", "device-test"))

	store.SetDays(10) // not in the allowed set
	assert.Equal(t, 30, store.days)
	store.SetDays(7)
	assert.Equal(t, 7, store.days)

	store.SetSortBy("random")
	assert.Equal(t, SortByCreatedAt, store.sortBy)
	store.SetSortBy(SortBySeverity)
	assert.Equal(t, SortBySeverity, store.sortBy)

	store.ToggleOrder()
	assert.Equal(t, OrderAsc, store.order)
	store.ToggleOrder()
	assert.Equal(t, OrderDesc, store.order)

	store.ToggleDefectType("CRACKS")
	store.ToggleDefectType("LEAN")
	assert.Equal(t, []string{"CRACKS", "LEAN"}, store.defectTypes)
	store.ToggleDefectType("CRACKS")
	assert.Equal(t, []string{"LEAN"}, store.defectTypes)
	store.ClearDefectTypes()
	assert.Empty(t, store.defectTypes)
}

func TestStore_SeverityRangeDragging(t *testing.T) {
	store := NewStore(New("http://unused", "device-test"))
	min, max := 2, 4

	store.SetMinSeverity(&min)
	store.SetMaxSeverity(&max)

	// Raising min past max drags max up.
	higher := 5
	store.SetMinSeverity(&higher)
	require.NotNil(t, store.maxSeverity)
	assert.Equal(t, 5, *store.maxSeverity)

	// Lowering max below min drags min down.
	lower := 1
	store.SetMaxSeverity(&lower)
	require.NotNil(t, store.minSeverity)
	assert.Equal(t, 1, *store.minSeverity)

	store.ClearSeverity()
	assert.Nil(t, store.minSeverity)
	assert.Nil(t, store.maxSeverity)
}

func TestStore_ResetFilters(t *testing.T) {
	store := NewStore(New("http://unused", "device-test"))
	min := 3

	store.SetDays(7)
	store.SetSortBy(SortBySeverity)
	store.ToggleOrder()
	store.ToggleDefectType("LEAN")
	store.SetMinSeverity(&min)

	store.ResetFilters()

	assert.Equal(t, 30, store.days)
	assert.Equal(t, SortByCreatedAt, store.sortBy)
	assert.Equal(t, OrderDesc, store.order)
	assert.Empty(t, store.defectTypes)
	assert.Nil(t, store.minSeverity)
}

func TestStore_LoadFirstPageClearsPreviousWindow(t *testing.T) {
	ps := &pagingServer{records: makeRecords(25)}
	store, _ := newStoreFixture(t, ps)
	ctx := context.Background()

	require.NoError(t, store.LoadFirstPage(ctx))
	require.NoError(t, store.LoadNextPage(ctx))
	require.Len(t, store.Items(), 25)

	require.NoError(t, store.LoadFirstPage(ctx))
	assert.Len(t, store.Items(), 20)
	assert.Equal(t, 20, store.Offset())
	assert.True(t, store.HasMore())
}
