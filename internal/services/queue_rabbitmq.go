package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/streadway/amqp"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type RabbitQueueOptions struct {
	URL       string
	QueueName string
	BatchSize int
}

type rabbitQueue struct {
	opts RabbitQueueOptions
	dial func(url string) (*amqp.Connection, error)

	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
}

func NewRabbitQueue(opts RabbitQueueOptions) (WorkQueue, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}

	q := &rabbitQueue{
		opts: opts,
		dial: amqp.Dial,
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.connectLocked(); err != nil {
		return nil, err
	}
	return q, nil
}

// connectLocked opens the connection, channel and queue if they are not up.
func (q *rabbitQueue) connectLocked() error {
	if q.ch != nil {
		return nil
	}

	conn, err := q.dial(q.opts.URL)
	if err != nil {
		return fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		q.opts.QueueName, // queue name
		true,             // durable
		false,            // auto-delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	q.conn = conn
	q.ch = ch
	return nil
}

// resetLocked drops the current connection so the next call dials again.
// Unacked deliveries go back to the queue when the channel closes.
func (q *rabbitQueue) resetLocked() error {
	var err error
	if q.ch != nil {
		err = q.ch.Close()
	}
	if q.conn != nil {
		if cerr := q.conn.Close(); err == nil {
			err = cerr
		}
	}
	q.conn = nil
	q.ch = nil
	q.deliveries = nil
	return err
}

func (q *rabbitQueue) Send(ctx context.Context, item models.WorkItem) error {
	body, err := encodeWorkItem(item)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.connectLocked(); err != nil {
		return err
	}

	err = q.ch.Publish(
		"",               // default exchange
		q.opts.QueueName, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		q.resetLocked()
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (q *rabbitQueue) consume() (<-chan amqp.Delivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.deliveries != nil {
		return q.deliveries, nil
	}

	if err := q.connectLocked(); err != nil {
		return nil, err
	}

	if err := q.ch.Qos(q.opts.BatchSize, 0, false); err != nil {
		q.resetLocked()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := q.ch.Consume(
		q.opts.QueueName, // queue name
		"",               // consumer tag
		false,            // auto-ack
		false,            // exclusive
		false,            // no-local
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		q.resetLocked()
		return nil, fmt.Errorf("failed to consume queue: %w", err)
	}
	q.deliveries = msgs
	return msgs, nil
}

// closed resets the connection unless another poller already replaced it.
func (q *rabbitQueue) closed(msgs <-chan amqp.Delivery) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.deliveries == msgs {
		q.resetLocked()
	}
	return fmt.Errorf("rabbitmq delivery channel closed, reconnecting on next receive")
}

// Receive blocks for the first delivery and then takes whatever else is
// already buffered, up to the batch size.
func (q *rabbitQueue) Receive(ctx context.Context) ([]QueueMessage, error) {
	msgs, err := q.consume()
	if err != nil {
		return nil, err
	}

	var batch []QueueMessage
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case d, ok := <-msgs:
		if !ok {
			return nil, q.closed(msgs)
		}
		batch = append(batch, toQueueMessage(d))
	}

	for len(batch) < q.opts.BatchSize {
		select {
		case d, ok := <-msgs:
			if !ok {
				q.closed(msgs)
				return batch, nil
			}
			batch = append(batch, toQueueMessage(d))
		default:
			return batch, nil
		}
	}
	return batch, nil
}

func toQueueMessage(d amqp.Delivery) QueueMessage {
	return QueueMessage{
		ID:      d.MessageId,
		Body:    d.Body,
		Receipt: strconv.FormatUint(d.DeliveryTag, 10),
	}
}

// Delete acks the delivery. Tags belong to the channel that delivered them,
// so after a reconnect the ack fails and the broker redelivers the message.
func (q *rabbitQueue) Delete(ctx context.Context, msg QueueMessage) error {
	tag, err := strconv.ParseUint(msg.Receipt, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid delivery tag %q: %w", msg.Receipt, err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.ch == nil {
		return fmt.Errorf("failed to ack delivery %d: rabbitmq channel is not open", tag)
	}
	if err := q.ch.Ack(tag, false); err != nil {
		return fmt.Errorf("failed to ack delivery %d: %w", tag, err)
	}
	return nil
}

func (q *rabbitQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.resetLocked(); err != nil {
		return fmt.Errorf("failed to close rabbitmq connection: %w", err)
	}
	return nil
}
