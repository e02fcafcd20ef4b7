package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"goboard/internal/mail"
)

const deliverTimeout = 30 * time.Second

// EmailWorker consumes the outbound email queue and delivers each message
// over SMTP. Malformed payloads and failed deliveries are nacked without
// requeue so a broken message cannot wedge the queue.
type EmailWorker struct {
	conn      *amqp.Connection
	deliverer mail.Deliverer
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEmailWorker(conn *amqp.Connection, deliverer mail.Deliverer, queueName string) *EmailWorker {
	return &EmailWorker{
		conn:      conn,
		deliverer: deliverer,
		queueName: queueName,
	}
}

func (w *EmailWorker) Start(ctx context.Context) error {
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
		return fmt.Errorf("consume queue failed: %w", err)
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

				var msg mail.Message
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					log.Printf("worker decode email failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				sendCtx, cancelSend := context.WithTimeout(workerCtx, deliverTimeout)
				err := w.deliverer.Deliver(sendCtx, msg)
				cancelSend()
				if err != nil {
					log.Printf("worker deliver email to %s failed: %v", msg.To, err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *EmailWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
