package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "farmops/internal/errors"
	"farmops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeComplaints records calls and serves canned results.
type fakeComplaints struct {
	mu sync.Mutex

	kpiCalls    int32
	listCalls   int32
	createCalls int32
	updateCalls int32
	queries     []Query

	kpis    *model.ComplaintKPIs
	page    *model.Page[model.Complaint]
	kpiErr  error
	listErr error
	saveErr error

	// listHook, when set, runs inside List before returning.
	listHook func(q Query)
}

func newFakeComplaints() *fakeComplaints {
	return &fakeComplaints{
		kpis: &model.ComplaintKPIs{Total: 2, Open: 1, Resolved: 1},
		page: &model.Page[model.Complaint]{
			Items:      []model.Complaint{{ID: "c1", Title: "Late payout"}, {ID: "c2", Title: "Wrong yield"}},
			Total:      42,
			Page:       1,
			Limit:      20,
			TotalPages: 3,
		},
	}
}

func (f *fakeComplaints) KPIs(ctx context.Context, r model.DateRange) (*model.ComplaintKPIs, error) {
	atomic.AddInt32(&f.kpiCalls, 1)
	if f.kpiErr != nil {
		return nil, f.kpiErr
	}
	return f.kpis, nil
}

func (f *fakeComplaints) List(ctx context.Context, q Query) (*model.Page[model.Complaint], error) {
	atomic.AddInt32(&f.listCalls, 1)
	f.mu.Lock()
	f.queries = append(f.queries, q)
	hook := f.listHook
	page := f.page
	f.mu.Unlock()
	if hook != nil {
		hook(q)
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return page, nil
}

func (f *fakeComplaints) Create(ctx context.Context, in model.ComplaintCreate) (*model.Complaint, error) {
	atomic.AddInt32(&f.createCalls, 1)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &model.Complaint{ID: "new", Title: in.Title}, nil
}

func (f *fakeComplaints) Update(ctx context.Context, id string, in model.ComplaintUpdate) (*model.Complaint, error) {
	atomic.AddInt32(&f.updateCalls, 1)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &model.Complaint{ID: id}, nil
}

func (f *fakeComplaints) requests() int32 {
	return atomic.LoadInt32(&f.kpiCalls) + atomic.LoadInt32(&f.listCalls)
}

func (f *fakeComplaints) lastQuery() Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func newDesk(src *fakeComplaints) *ComplaintDesk {
	return NewComplaintDesk(src, NewRoster(&fakeAdmins{}, 2, 2), 20, 500)
}

func TestLoadSuccess(t *testing.T) {
	src := newFakeComplaints()
	desk := newDesk(src)

	assert.Equal(t, StateIdle, desk.Snapshot().State)
	require.NoError(t, desk.Load(context.Background()))

	snap := desk.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Len(t, snap.Rows, 2)
	assert.Equal(t, 42, snap.Total)
	assert.Equal(t, 3, snap.TotalPages)
	require.NotNil(t, snap.KPIs)
	assert.Equal(t, 2, snap.KPIs.Total)
	assert.Empty(t, snap.Error)
	assert.Equal(t, int32(1), src.kpiCalls)
	assert.Equal(t, int32(1), src.listCalls)
}

func TestLoadIsAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		kpiErr  error
		listErr error
	}{
		{"kpis fail", errors.New("kpi service down"), nil},
		{"list fails", nil, errors.New("list service down")},
		{"both fail", errors.New("a"), errors.New("b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeComplaints()
			desk := newDesk(src)
			require.NoError(t, desk.Load(context.Background()))

			src.kpiErr, src.listErr = tt.kpiErr, tt.listErr
			require.Error(t, desk.Load(context.Background()))

			snap := desk.Snapshot()
			assert.Equal(t, StateErrored, snap.State)
			assert.Empty(t, snap.Rows)
			assert.NotNil(t, snap.Rows)
			assert.Nil(t, snap.KPIs)
			assert.Equal(t, 0, snap.Total)
			assert.Equal(t, 1, snap.TotalPages)
			assert.NotEmpty(t, snap.Error)
		})
	}
}

func TestTotalPagesFlooredAtOne(t *testing.T) {
	src := newFakeComplaints()
	src.page = &model.Page[model.Complaint]{Items: nil, Total: 0, TotalPages: 0}
	desk := newDesk(src)

	require.NoError(t, desk.Load(context.Background()))
	snap := desk.Snapshot()
	assert.Equal(t, 1, snap.TotalPages)
	assert.NotNil(t, snap.Rows)
	assert.Equal(t, []int{1}, snap.Pager.Pages)
}

func TestSetFiltersResetsPage(t *testing.T) {
	src := newFakeComplaints()
	desk := newDesk(src)
	ctx := context.Background()

	require.NoError(t, desk.Load(ctx))
	require.NoError(t, desk.SetPage(ctx, 3))
	assert.Equal(t, 3, desk.Query().Page)

	require.NoError(t, desk.SetFilters(ctx, Filters{Search: " maize ", Status: "OPEN", SortOrder: "desc"}))
	q := src.lastQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "maize", q.Search)
	assert.Equal(t, "open", q.Status)
	assert.Equal(t, 20, q.Limit, "page size survives filter changes")
}

func TestSetPageClamps(t *testing.T) {
	src := newFakeComplaints()
	desk := newDesk(src)
	ctx := context.Background()
	require.NoError(t, desk.Load(ctx))

	require.NoError(t, desk.SetPage(ctx, 99))
	assert.Equal(t, 3, src.lastQuery().Page)

	require.NoError(t, desk.SetPage(ctx, -4))
	assert.Equal(t, 1, src.lastQuery().Page)
}

func TestInvalidDateRangeMakesNoRequests(t *testing.T) {
	src := newFakeComplaints()
	desk := newDesk(src)
	ctx := context.Background()
	require.NoError(t, desk.Load(ctx))
	before := desk.Snapshot()
	calls := src.requests()

	err := desk.SetFilters(ctx, Filters{StartDate: "2024-03-01", EndDate: "2024-02-01"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, calls, src.requests(), "no request may be issued for an invalid range")
	assert.Equal(t, before.Query, desk.Query(), "rejected filters leave the query untouched")
	assert.Equal(t, StateLoaded, desk.Snapshot().State)
}

func TestUnknownEnumFilterRejected(t *testing.T) {
	src := newFakeComplaints()
	desk := newDesk(src)

	err := desk.SetFilters(context.Background(), Filters{Priority: "urgent"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, src.requests())
}

func TestResetRestoresDefaultsWithOneReload(t *testing.T) {
	src := newFakeComplaints()
	desk := newDesk(src)
	ctx := context.Background()

	require.NoError(t, desk.SetFilters(ctx, Filters{Search: "yam", Status: "closed", StartDate: "2024-01-01"}))
	require.NoError(t, desk.SetPage(ctx, 2))
	listBefore := atomic.LoadInt32(&src.listCalls)

	require.NoError(t, desk.Reset(ctx))

	assert.Equal(t, listBefore+1, atomic.LoadInt32(&src.listCalls), "reset triggers exactly one reload")
	assert.Equal(t, desk.Defaults(), desk.Query())
	assert.Equal(t, 1, desk.Query().Page)
	assert.Empty(t, desk.Query().Search)
	assert.Equal(t, desk.Defaults(), src.lastQuery())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	src := newFakeComplaints()
	desk := newDesk(src)
	ctx := context.Background()

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	src.listHook = func(q Query) {
		if q.Search == "slow" {
			close(slowStarted)
			<-releaseSlow
		}
	}

	slowPage := &model.Page[model.Complaint]{Items: []model.Complaint{{ID: "stale"}}, Total: 1, TotalPages: 1}
	freshPage := &model.Page[model.Complaint]{Items: []model.Complaint{{ID: "fresh"}}, Total: 1, TotalPages: 1}

	done := make(chan error, 1)
	src.page = slowPage
	go func() { done <- desk.SetFilters(ctx, Filters{Search: "slow"}) }()
	<-slowStarted

	src.mu.Lock()
	src.page = freshPage
	src.mu.Unlock()
	require.NoError(t, desk.SetFilters(ctx, Filters{Search: "fast"}))

	close(releaseSlow)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("slow load never settled")
	}

	snap := desk.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "fresh", snap.Rows[0].ID, "the earlier-issued load must not overwrite the later one")
	assert.Equal(t, "fast", snap.Query.Search)
}

func TestOnLoadHook(t *testing.T) {
	src := newFakeComplaints()
	desk := newDesk(src)

	var got []string
	desk.OnLoad(func(name string, err error) { got = append(got, name) })
	require.NoError(t, desk.Load(context.Background()))
	assert.Equal(t, []string{"complaints"}, got)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "errored", StateErrored.String())
}
