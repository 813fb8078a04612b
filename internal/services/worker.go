package services

import (
	"context"
	"log"
	"sync"
	"time"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	// PollOnce receives one batch, processes it and deletes settled messages.
	PollOnce(ctx context.Context) (models.BatchResult, error)
}

type worker struct {
	queue       WorkQueue
	analyzer    AnalyzerService
	concurrency int
	idleBackoff time.Duration
	wg          sync.WaitGroup
	stopChan    chan struct{}
	cancel      context.CancelFunc
}

func NewWorker(
	queue WorkQueue,
	analyzer AnalyzerService,
	concurrency int,
) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &worker{
		queue:       queue,
		analyzer:    analyzer,
		concurrency: concurrency,
		idleBackoff: 2 * time.Second,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d pollers\n", w.concurrency)

	// Receives are cancelled on Stop; batches in flight finish with the
	// parent context so no item is abandoned halfway.
	pollCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.poll(ctx, pollCtx, i+1)
	}

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

func (w *worker) poll(ctx, pollCtx context.Context, pollerID int) {
	defer w.wg.Done()
	log.Printf("👷 Poller #%d started\n", pollerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Poller #%d stopped\n", pollerID)
			return
		default:
		}

		messages, err := w.queue.Receive(pollCtx)
		if err != nil {
			if pollCtx.Err() != nil {
				log.Printf("👷 Poller #%d stopped\n", pollerID)
				return
			}
			log.Printf("⚠️  Poller #%d failed to receive messages: %v\n", pollerID, err)
			w.sleep(w.idleBackoff)
			continue
		}
		if len(messages) == 0 {
			continue
		}

		result := w.handle(ctx, messages)
		log.Printf("📋 Poller #%d: %s processed=%d completed=%d failed=%d skipped=%d\n",
			pollerID, result.Message, result.Processed, result.Completed, result.Failed, result.Skipped)
	}
}

func (w *worker) sleep(d time.Duration) {
	select {
	case <-w.stopChan:
	case <-time.After(d):
	}
}

// PollOnce implements Worker.
func (w *worker) PollOnce(ctx context.Context) (models.BatchResult, error) {
	messages, err := w.queue.Receive(ctx)
	if err != nil {
		return models.BatchResult{}, err
	}
	return w.handle(ctx, messages), nil
}

func (w *worker) handle(ctx context.Context, messages []QueueMessage) models.BatchResult {
	items := make([]models.WorkItem, 0, len(messages))
	pending := make([]QueueMessage, 0, len(messages))
	var rejected models.BatchResult

	for _, msg := range messages {
		item, err := DecodeWorkItem(msg.Body)
		if err == nil {
			items = append(items, item)
			pending = append(pending, msg)
			continue
		}

		if item.ResumeID == "" {
			log.Printf("❌ Dropping undecodable message %s: %v\n", msg.ID, err)
			rejected.Skipped++
			w.delete(ctx, msg)
			continue
		}

		// The id is known, so the record is closed out instead of left processing.
		outcome := w.analyzer.RecordFailure(ctx, item.ResumeID, err)
		rejected.Processed++
		if outcome == OutcomeFailed {
			rejected.Failed++
		} else {
			rejected.Skipped++
		}
		if !outcome.Settled() {
			log.Printf("⚠️  Leaving message %s for redelivery\n", msg.ID)
			continue
		}
		w.delete(ctx, msg)
	}

	outcomes, result := w.analyzer.ProcessBatch(ctx, items)
	result.Processed += rejected.Processed
	result.Failed += rejected.Failed
	result.Skipped += rejected.Skipped

	for i, outcome := range outcomes {
		if !outcome.Settled() {
			log.Printf("⚠️  Leaving message %s for redelivery\n", pending[i].ID)
			continue
		}
		w.delete(ctx, pending[i])
	}

	return result
}

func (w *worker) delete(ctx context.Context, msg QueueMessage) {
	if err := w.queue.Delete(ctx, msg); err != nil {
		log.Printf("⚠️  %v\n", err)
	}
}
