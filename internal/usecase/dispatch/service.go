// Package dispatch drives concurrent per-recipient sends for one channel,
// joins on full completion, and writes one durable delivery record per call.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/repository"
)

// Result is the outcome of one recipient's send. Each fan-out task owns its
// result slot exclusively; no outcome is ever dropped from the list.
type Result struct {
	Recipient string
	Success   bool
	Err       error
}

// Summary is the aggregate outcome of one dispatch call.
type Summary struct {
	TargetCount  int
	SuccessCount int
	Results      []Result
}

// SendFunc delivers the payload to a single recipient. It is called from
// one goroutine per recipient and must be safe for concurrent use.
type SendFunc func(ctx context.Context, recipient string) error

// Job describes one dispatch call: the resolved recipients, the send
// operation, and the fields recorded in the delivery log.
type Job struct {
	Channel    string
	SentBy     string
	Subject    string
	Recipients []string
	Metadata   map[string]any
	Send       SendFunc
}

// Service is the delivery aggregator.
type Service struct {
	Logs repository.DeliveryLogRepository
}

// Run fans the job out to every recipient concurrently and joins only after
// all tasks have settled; a failed send never aborts its siblings and there
// is no mid-batch cancellation. An empty recipient set short-circuits with
// entity.ErrNoTargets before any I/O and writes nothing.
func (s *Service) Run(ctx context.Context, job Job) (*Summary, error) {
	if job.Send == nil {
		return nil, fmt.Errorf("dispatch: nil send function")
	}
	if len(job.Recipients) == 0 {
		return nil, entity.ErrNoTargets
	}

	start := time.Now()
	RecordDispatch(job.Channel)

	results := make([]Result, len(job.Recipients))
	var wg sync.WaitGroup
	for i, recipient := range job.Recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic in dispatch task",
						slog.String("channel", job.Channel),
						slog.String("recipient", recipient),
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())))
					results[i] = Result{Recipient: recipient, Err: fmt.Errorf("send panicked: %v", r)}
				}
			}()
			if err := job.Send(ctx, recipient); err != nil {
				results[i] = Result{Recipient: recipient, Err: err}
				return
			}
			results[i] = Result{Recipient: recipient, Success: true}
		}(i, recipient)
	}
	wg.Wait()

	summary := &Summary{TargetCount: len(job.Recipients), Results: results}
	for _, res := range results {
		if res.Success {
			summary.SuccessCount++
			RecordDelivery(job.Channel, "success")
		} else {
			RecordDelivery(job.Channel, "failure")
			slog.Warn("recipient delivery failed",
				slog.String("channel", job.Channel),
				slog.String("recipient", res.Recipient),
				slog.Any("error", res.Err))
		}
	}
	ObserveDispatchDuration(job.Channel, time.Since(start))

	s.persist(ctx, job, summary)

	slog.Info("dispatch completed",
		slog.String("channel", job.Channel),
		slog.String("subject", job.Subject),
		slog.Int("target_count", summary.TargetCount),
		slog.Int("success_count", summary.SuccessCount))

	return summary, nil
}

// persist appends the delivery log row. The sends already happened, so a
// failed write degrades to a logged error instead of failing the call.
func (s *Service) persist(ctx context.Context, job Job, summary *Summary) {
	if s.Logs == nil {
		return
	}
	record := &entity.DeliveryLog{
		SentBy:       job.SentBy,
		Channel:      job.Channel,
		Subject:      job.Subject,
		TargetCount:  summary.TargetCount,
		SuccessCount: summary.SuccessCount,
		Metadata:     job.Metadata,
	}
	if err := s.Logs.Create(ctx, record); err != nil {
		slog.Error("failed to persist delivery log",
			slog.String("channel", job.Channel),
			slog.Any("error", err))
	}
}
