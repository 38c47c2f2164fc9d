package worker

// dlq.go
// Jobs that exhaust their attempts are parked in dlq:{cola} for manual
// inspection and re-send.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// EntradaDLQ wraps a failed job with the last error seen.
type EntradaDLQ struct {
	Cola     string          `json:"cola"`
	Tipo     string          `json:"tipo"`
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	Fecha    time.Time       `json:"fecha"`
	Intentos int             `json:"intentos"`
}

// enviarADLQ pushes job to the dead letter list of cola.
func enviarADLQ(ctx context.Context, rdb *redis.Client, cola string, job Job, motivo string, ahora time.Time) {
	data, err := json.Marshal(EntradaDLQ{
		Cola:     cola,
		Tipo:     job.Type,
		Payload:  job.Payload,
		Motivo:   motivo,
		Fecha:    ahora.UTC(),
		Intentos: job.Intentos,
	})
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: failed to marshal entry")
		return
	}

	clave := DLQPrefix + cola
	if err := rdb.LPush(ctx, clave, data).Err(); err != nil {
		log.Error().Err(err).Str("clave", clave).Msg("dlq: failed to push entry")
		return
	}

	log.Warn().
		Str("cola", cola).
		Str("tipo", job.Type).
		Str("motivo", motivo).
		Int("intentos", job.Intentos).
		Msg("dlq: job parked")
}

// LongitudDLQ returns how many jobs of cola are parked. A nil client has none.
func LongitudDLQ(ctx context.Context, rdb *redis.Client, cola string) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.LLen(ctx, DLQPrefix+cola).Result()
}
