package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/relaunchapp/followup-service/internal/usecase"
)

// Worker drains the dispatch queue and hands each message to the engine.
// Duplicate outcomes are acked: the engine already decided nothing should
// go out, so there is nothing to retry.
type Worker struct {
	Channel    *amqp.Channel
	Dispatcher usecase.EmailDispatcher
}

func NewWorker(ch *amqp.Channel, dispatcher usecase.EmailDispatcher) *Worker {
	return &Worker{
		Channel:    ch,
		Dispatcher: dispatcher,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload DispatchPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] Malformed dispatch message: %s", err)
				// Poison message. Reject without requeue so it goes to the DLQ.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Dispatch request for prospect %s (origin %s)", payload.ProspectID, payload.Origin)

			result, err := w.Dispatcher.Execute(context.Background(), usecase.DispatchInput{
				ProspectID: payload.ProspectID,
				TemplateID: payload.TemplateID,
				ForceSend:  payload.ForceSend,
				Mode:       usecase.ModeInteractive,
			})

			switch {
			case err != nil && usecase.IsDomainError(err):
				// Bad input or missing config: retrying cannot fix it.
				log.Printf("❌ [WORKER] Dispatch rejected for %s: %s", payload.ProspectID, err)
				d.Nack(false, false)
			case err != nil:
				log.Printf("❌ [WORKER] Dispatch failed for %s: %s", payload.ProspectID, err)
				d.Nack(false, false)
			case result.Duplicate:
				log.Printf("🔁 [WORKER] Dispatch for %s was a duplicate, nothing sent", payload.ProspectID)
				d.Ack(false)
			default:
				log.Printf("✅ [WORKER] Dispatch done for %s (success=%t)", payload.ProspectID, result.Success)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Dispatch worker waiting on queue '%s'", queueName)
	<-forever
}
