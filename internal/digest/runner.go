// Package digest posts a periodic KPI snapshot to Telegram.
package digest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"farmops/internal/errors"
	"farmops/internal/format"
	"farmops/internal/health"
	"farmops/internal/model"
	"farmops/internal/summary"

	"golang.org/x/sync/errgroup"
)

// ComplaintKPISource loads complaint KPIs.
type ComplaintKPISource interface {
	KPIs(ctx context.Context, r model.DateRange) (*model.ComplaintKPIs, error)
}

// PayoutKPISource loads withdrawer KPIs.
type PayoutKPISource interface {
	KPIs(ctx context.Context, r model.DateRange) (*model.WithdrawerKPIs, error)
}

// Sources are the KPI endpoints a digest reads.
type Sources struct {
	Complaints ComplaintKPISource
	Payouts    PayoutKPISource
}

// Connector authenticates and returns fresh sources.
type Connector func(ctx context.Context) (Sources, error)

// Notifier delivers digests and alerts.
type Notifier interface {
	SendPhoto(ctx context.Context, png []byte, caption string) error
	SendCriticalAlert(ctx context.Context, errorType, errorMsg string, retryCount int) error
}

// Renderer turns KPI sections into an image.
type Renderer func(title string, sections []summary.Section, generatedAt time.Time) ([]byte, error)

// Runner builds and sends digests.
type Runner struct {
	connect     Connector
	notifier    Notifier
	monitor     *health.Monitor
	interval    time.Duration
	maxFailures int

	// Render and Now are replaceable for tests.
	Render Renderer
	Now    func() time.Time

	mu       sync.Mutex
	sources  *Sources
	failures int
}

// NewRunner creates a Runner. interval <= 0 disables the loop.
func NewRunner(connect Connector, notifier Notifier, monitor *health.Monitor, interval time.Duration, maxFailures int) *Runner {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	return &Runner{
		connect:     connect,
		notifier:    notifier,
		monitor:     monitor,
		interval:    interval,
		maxFailures: maxFailures,
		Render:      summary.RenderCards,
		Now:         time.Now,
	}
}

// Failures returns the current consecutive failure count.
func (r *Runner) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// Run sends a digest every interval until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	if r.interval <= 0 {
		log.Println("⚠️  DIGEST_INTERVAL is 0. Telegram digest disabled.")
		r.monitor.UpdateDigestStatus("disabled")
		return
	}

	log.Printf("⏰ Starting digest loop - will post every %s...", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("→ Digest loop stopped")
			return
		case <-ticker.C:
			log.Println("\n📬 Building KPI digest...")
			if err := r.RunOnce(ctx); err != nil {
				log.Println("⚠️  Digest failed:", err)
			}
		}
	}
}

// RunOnce builds and sends one digest.
//
// Flow:
//  1. Connect with the service credentials if not yet connected
//  2. Load complaint and withdrawer KPIs for the last interval
//  3. If the session expired, reconnect once and retry the load
//  4. Render the KPI cards and send them as a photo
//
// After maxFailures consecutive failures a critical alert is sent once;
// the count resets on the next success.
func (r *Runner) RunOnce(ctx context.Context) error {
	err := r.runOnce(ctx)

	r.mu.Lock()
	if err == nil {
		r.failures = 0
		r.mu.Unlock()
		r.monitor.UpdateDigestStatus("success")
		log.Println("✓ Digest sent")
		return nil
	}
	r.failures++
	failures := r.failures
	r.mu.Unlock()

	r.monitor.UpdateDigestStatus(err.Error())
	if failures == r.maxFailures {
		log.Println("🚨 Digest failing repeatedly, sending critical alert...")
		alertErr := r.notifier.SendCriticalAlert(ctx, "Digest Failure",
			fmt.Sprintf("Unable to build the KPI digest. Last error: %v", err), failures)
		if alertErr != nil {
			log.Println("⚠️  Failed to send Telegram alert:", alertErr)
		}
	}
	return err
}

func (r *Runner) runOnce(ctx context.Context) error {
	src, err := r.currentSources(ctx, false)
	if err != nil {
		return err
	}

	now := r.Now()
	span := r.interval
	if span <= 0 {
		span = 24 * time.Hour
	}
	rng := model.DateRange{
		Start: now.Add(-span).In(format.DisplayZone).Format(model.DateFormat),
		End:   now.In(format.DisplayZone).Format(model.DateFormat),
	}

	ck, pk, err := load(ctx, src, rng)
	if errors.IsSessionExpired(err) {
		log.Println("🔐 Service session expired, logging in again...")
		if src, err = r.currentSources(ctx, true); err != nil {
			return err
		}
		ck, pk, err = load(ctx, src, rng)
	}
	if err != nil {
		return err
	}

	var sections []summary.Section
	if s, ok := summary.ComplaintSection(ck); ok {
		sections = append(sections, s)
	}
	if s, ok := summary.PayoutSection(pk); ok {
		sections = append(sections, s)
	}

	png, err := r.Render("Operations Digest", sections, now)
	if err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}
	return r.notifier.SendPhoto(ctx, png, Caption(ck, pk, rng))
}

func (r *Runner) currentSources(ctx context.Context, reconnect bool) (Sources, error) {
	r.mu.Lock()
	cached := r.sources
	r.mu.Unlock()
	if cached != nil && !reconnect {
		return *cached, nil
	}

	src, err := r.connect(ctx)
	if err != nil {
		return Sources{}, err
	}
	r.mu.Lock()
	r.sources = &src
	r.mu.Unlock()
	return src, nil
}

func load(ctx context.Context, src Sources, rng model.DateRange) (*model.ComplaintKPIs, *model.WithdrawerKPIs, error) {
	var (
		ck *model.ComplaintKPIs
		pk *model.WithdrawerKPIs
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ck, err = src.Complaints.KPIs(gctx, rng)
		return err
	})
	g.Go(func() error {
		var err error
		pk, err = src.Payouts.KPIs(gctx, rng)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return ck, pk, nil
}

// Caption is the HTML caption sent with the digest image.
func Caption(ck *model.ComplaintKPIs, pk *model.WithdrawerKPIs, rng model.DateRange) string {
	caption := fmt.Sprintf("📊 <b>Operations Digest</b> (%s to %s)", rng.Start, rng.End)
	if ck != nil {
		caption += fmt.Sprintf("\n📋 Complaints: %s open, %s critical",
			format.Count(ck.Open), format.Count(ck.ByPriority.Critical))
	}
	if pk != nil {
		caption += fmt.Sprintf("\n💸 Payouts: %s failed (%s)",
			format.Count(pk.Failed), format.Currency(pk.FailedAmount))
	}
	return caption
}
