package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"sjsage522/slotwatcher/helpers"
	"sjsage522/slotwatcher/internal/crawler"
	"sjsage522/slotwatcher/logger"
	"sjsage522/slotwatcher/pkg/errors"
	"sjsage522/slotwatcher/services/metrics"
	"sjsage522/slotwatcher/services/notifier"
	"sjsage522/slotwatcher/services/publisher"
)

// maxExampleLines caps the slot lines printed under a detection header
const maxExampleLines = 10

// Report summarises one endpoint's outcome within a tick
type Report struct {
	Label string
	Found int
	New   int
	Err   error
}

// Worker polls every endpoint in turn, reports slots it has not seen
// before, then sleeps until the next tick.
type Worker struct {
	crawlers  []crawler.Crawler
	notifier  notifier.Notifier
	publisher publisher.Publisher
	logger    helpers.LoggerInterface
	metrics   *metrics.PollMetrics
	schedule  Schedule
	seen      *SeenSet

	rnd   *rand.Rand
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewWorker creates a new worker
func NewWorker(
	crawlers []crawler.Crawler,
	n notifier.Notifier,
	logger helpers.LoggerInterface,
	schedule Schedule,
) *Worker {
	if n == nil {
		n = notifier.Nop{}
	}
	now := time.Now()
	return &Worker{
		crawlers: crawlers,
		notifier: n,
		logger:   logger,
		schedule: schedule,
		seen:     NewSeenSet(),
		rnd:      rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(len(crawlers)))),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// WithPublisher publishes every new slot to pub
func (w *Worker) WithPublisher(pub publisher.Publisher) *Worker {
	w.publisher = pub
	return w
}

// WithMetrics records loop metrics on m
func (w *Worker) WithMetrics(m *metrics.PollMetrics) *Worker {
	w.metrics = m
	return w
}

// Seen exposes the seen-set
func (w *Worker) Seen() *SeenSet {
	return w.seen
}

// Start runs ticks until ctx is cancelled and returns ctx's error
func (w *Worker) Start(ctx context.Context) error {
	labels := make([]string, 0, len(w.crawlers))
	for _, c := range w.crawlers {
		labels = append(labels, c.GetLabel())
	}
	w.logger.LogInfo("Monitoring appointment slots (%s) - Ctrl+C to stop.", strings.Join(labels, ", "))

	log := logger.ForWorker()
	for {
		start := time.Now()
		w.Tick(ctx)
		elapsed := time.Since(start)
		w.metrics.ObserveTick(elapsed)

		if err := ctx.Err(); err != nil {
			return err
		}

		pause := w.schedule.Next(w.rnd)
		log.Debug().Dur("elapsed", elapsed).Dur("pause", pause).Int("seen", w.seen.Len()).Msg("Tick complete")

		if err := w.sleep(ctx, pause); err != nil {
			return err
		}
	}
}

// Tick polls every endpoint once, sequentially, in configured order
func (w *Worker) Tick(ctx context.Context) []Report {
	ts := w.now().Format(helpers.TimestampLayout)

	reports := make([]Report, 0, len(w.crawlers))
	for _, c := range w.crawlers {
		if ctx.Err() != nil {
			break
		}
		reports = append(reports, w.checkEndpoint(ctx, c, ts))
	}

	if w.publisher != nil {
		if err := w.publisher.TrimStreams(); err != nil {
			logger.ForPublisher().Warn().Err(err).Msg("Failed to trim streams")
		}
	}

	return reports
}

// checkEndpoint fetches, filters and reports one endpoint. Any failure,
// panics included, stays local to this endpoint.
func (w *Worker) checkEndpoint(ctx context.Context, c crawler.Crawler, ts string) (report Report) {
	label := c.GetLabel()
	report.Label = label

	defer func() {
		if r := recover(); r != nil {
			report.Err = fmt.Errorf("panic while checking %s: %v", label, r)
			w.logger.LogError(label, report.Err)
		}
	}()

	slots, err := c.FetchSlots(ctx)
	if err != nil {
		report.Err = err
		w.metrics.ObserveFetch(label, fetchStatus(err))
		if ctx.Err() == nil {
			w.logger.LogError(label, err)
		}
		return report
	}
	w.metrics.ObserveFetch(label, "ok")
	w.metrics.SetOffered(label, len(slots))

	report.Found = len(slots)
	if len(slots) == 0 {
		w.logger.LogInfo("[%s] %s: no slot found.", ts, label)
		return report
	}

	fresh := w.seen.Fresh(label, slots)
	report.New = len(fresh)
	if len(fresh) == 0 {
		return report
	}

	w.logger.LogInfo("[%s] %s: %d new slot(s) detected.", ts, label, len(fresh))
	for _, s := range fresh[:min(len(fresh), maxExampleLines)] {
		w.logger.LogInfo("  • %s → %s  (id=%s)", s.Start, s.End, displayID(s.ID))
	}

	w.notify(ctx, "Appointment "+label, fmt.Sprintf("%d slot(s) detected. Open the website.", len(fresh)))
	w.publish(c, fresh)
	w.metrics.AddNewSlots(label, len(fresh))

	w.seen.Remember(label, fresh)
	return report
}

// notify is fire and forget: errors and panics are dropped
func (w *Worker) notify(ctx context.Context, title, body string) {
	ok := false
	defer func() {
		_ = recover()
		w.metrics.ObserveNotification(ok)
	}()

	ok = w.notifier.Notify(ctx, title, body) == nil
}

func (w *Worker) publish(c crawler.Crawler, slots []crawler.Slot) {
	if w.publisher == nil {
		return
	}

	label := c.GetLabel()
	detectedAt := w.now()
	for _, s := range slots {
		event := publisher.NewSlotEvent(label, helpers.DeepLink(c.GetURL(), s.URLSuffix), s, detectedAt)
		data, err := json.Marshal(event)
		if err != nil {
			logger.ForPublisher().Warn().Err(err).Str("endpoint", label).Msg("Failed to encode slot")
			continue
		}
		if err := w.publisher.Publish(label, data); err != nil {
			logger.ForPublisher().Warn().
				Err(errors.NewPublisher(label, "publish failed", err)).
				Str("start", s.Start).
				Msg("Failed to publish slot")
		}
	}
}

func fetchStatus(err error) string {
	for _, t := range []errors.ErrorType{errors.ErrorTypeRateLimit, errors.ErrorTypeStatus, errors.ErrorTypeNetwork, errors.ErrorTypeParsing} {
		if errors.Is(err, t) {
			return string(t)
		}
	}
	return "error"
}

func displayID(id string) string {
	if id == "" {
		return "None"
	}
	return id
}
