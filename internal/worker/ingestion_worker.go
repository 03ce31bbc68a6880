package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"docmanager/internal/model"
)

// IngestionTracker is the slice of the ingestion service the worker drives.
type IngestionTracker interface {
	MarkProcessing(ctx context.Context, documentID uint) (*model.Ingestion, error)
	Complete(ctx context.Context, documentID uint) (*model.Ingestion, error)
	Fail(ctx context.Context, documentID uint, message string) (*model.Ingestion, error)
}

// IngestionWorker consumes trigger events and advances each document's
// latest record from pending through processing to completed. It stands in
// for the external processing actor; with the worker disabled, completion
// stays purely caller-driven.
type IngestionWorker struct {
	conn      *amqp.Connection
	tracker   IngestionTracker
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIngestionWorker(conn *amqp.Connection, tracker IngestionTracker, queueName string) *IngestionWorker {
	return &IngestionWorker{
		conn:      conn,
		tracker:   tracker,
		queueName: queueName,
	}
}

func (w *IngestionWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume ingestion queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(workerCtx, d)
			}
		}
	}()

	return nil
}

func (w *IngestionWorker) handle(ctx context.Context, d amqp.Delivery) {
	var ev model.Ingestion
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		log.Printf("worker decode ingestion event failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	// A terminal or superseded record makes the event stale; ack and move on.
	if _, err := w.tracker.MarkProcessing(ctx, ev.DocumentID); err != nil {
		log.Printf("worker mark processing document %d failed: %v", ev.DocumentID, err)
		_ = d.Ack(false)
		return
	}

	if _, err := w.tracker.Complete(ctx, ev.DocumentID); err != nil {
		log.Printf("worker complete document %d failed: %v", ev.DocumentID, err)
		if _, failErr := w.tracker.Fail(ctx, ev.DocumentID, err.Error()); failErr != nil {
			log.Printf("worker record failure for document %d failed: %v", ev.DocumentID, failErr)
		}
	}
	_ = d.Ack(false)
}

func (w *IngestionWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
