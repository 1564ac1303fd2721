package dashboard

import (
	"context"
	"log"
	"strings"

	"farmops/internal/model"

	"golang.org/x/sync/errgroup"
)

// AdminLister pages through the admin roster.
type AdminLister interface {
	List(ctx context.Context, page, limit int, activeOnly bool) (*model.Page[model.Admin], error)
}

// Roster loads the complete active admin roster for assignment search.
//
// The first page is fetched alone to learn totalPages; the rest are fetched
// concurrently, at most concurrency at a time. The whole roster is held in
// memory and filtered locally, which is fine for hundreds of admins but not
// for tens of thousands.
type Roster struct {
	lister      AdminLister
	pageSize    int
	concurrency int
}

// NewRoster creates a roster loader.
func NewRoster(lister AdminLister, pageSize, concurrency int) *Roster {
	if pageSize < 1 {
		pageSize = 100
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Roster{lister: lister, pageSize: pageSize, concurrency: concurrency}
}

// All returns every active admin, in page order.
func (r *Roster) All(ctx context.Context) ([]model.Admin, error) {
	first, err := r.lister.List(ctx, 1, r.pageSize, true)
	if err != nil {
		return nil, err
	}
	if first.TotalPages <= 1 {
		return first.Items, nil
	}

	pages := make([][]model.Admin, first.TotalPages)
	pages[0] = first.Items

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for p := 2; p <= first.TotalPages; p++ {
		p := p
		g.Go(func() error {
			page, err := r.lister.List(gctx, p, r.pageSize, true)
			if err != nil {
				return err
			}
			pages[p-1] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Admin
	for _, items := range pages {
		all = append(all, items...)
	}
	log.Printf("  ✓ Loaded %d admins across %d roster pages", len(all), first.TotalPages)
	return all, nil
}

// FilterAdmins keeps admins whose "first last email" contains term,
// ignoring case. A blank term keeps everyone.
func FilterAdmins(admins []model.Admin, term string) []model.Admin {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]model.Admin, 0, len(admins))
	for _, a := range admins {
		if term == "" || strings.Contains(a.SearchText(), term) {
			out = append(out, a)
		}
	}
	return out
}
