package worker

// email_worker.go
// Processes email jobs from QueueEmail: account activation and password
// reset links. Failed sends are re-queued up to MaxIntentosEmail times and
// then parked in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/martingh15/proyecto-backend/internal/infra"
	"github.com/martingh15/proyecto-backend/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const MaxIntentosEmail = 3

// Correo sends one message. *infra.Mailer implements it.
type Correo interface {
	Enviar(msg infra.Mensaje) error
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer Correo
	rdb    *redis.Client
}

// NewEmailWorker creates an EmailWorker. rdb is used for re-queueing and the
// DLQ; with a nil client failures are only logged.
func NewEmailWorker(mailer Correo, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, rdb: rdb}
}

// Process sends the message carried by job.
func (w *EmailWorker) Process(ctx context.Context, job Job) {
	var msg infra.Mensaje
	if err := json.Unmarshal(job.Payload, &msg); err != nil {
		metrics.EmailJobs.WithLabelValues("invalido").Inc()
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if msg.Para == "" {
		metrics.EmailJobs.WithLabelValues("invalido").Inc()
		log.Warn().Msg("email_worker: empty recipient, skipping")
		return
	}

	err := w.mailer.Enviar(msg)
	if err == nil {
		metrics.EmailJobs.WithLabelValues("enviado").Inc()
		log.Info().Str("para", msg.Para).Str("asunto", msg.Asunto).Msg("email_worker: sent")
		return
	}

	job.Intentos++
	if w.rdb == nil {
		metrics.EmailJobs.WithLabelValues("fallido").Inc()
		log.Error().Err(err).Str("para", msg.Para).Msg("email_worker: failed to send email")
		return
	}
	if job.Intentos >= MaxIntentosEmail {
		metrics.EmailJobs.WithLabelValues("dlq").Inc()
		enviarADLQ(ctx, w.rdb, QueueEmail, job,
			fmt.Sprintf("max retries (%d) exceeded: %s", MaxIntentosEmail, err), time.Now())
		return
	}

	metrics.EmailJobs.WithLabelValues("reintento").Inc()
	log.Warn().Err(err).Str("para", msg.Para).Int("intentos", job.Intentos).Msg("email_worker: send failed, re-queued")
	if qerr := enqueue(ctx, w.rdb, QueueEmail, job); qerr != nil {
		log.Error().Err(qerr).Msg("email_worker: failed to re-queue job")
	}
}
