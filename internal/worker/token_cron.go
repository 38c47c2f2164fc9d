package worker

// token_cron.go
// Background goroutine that clears password-reset tokens older than their
// validity window so stale links cannot be replayed.

import (
	"context"
	"time"

	"github.com/martingh15/proyecto-backend/internal/model"

	"github.com/rs/zerolog/log"
)

const tokenTickInterval = time.Hour

// LimpiadorTokens clears reset tokens issued before limite.
type LimpiadorTokens interface {
	LimpiarTokensVencidos(ctx context.Context, limite time.Time) (int64, error)
}

// StartTokenCron launches a goroutine that ticks every hour and clears
// expired reset tokens. It respects the context for graceful shutdown.
func StartTokenCron(ctx context.Context, usuarios LimpiadorTokens) {
	go func() {
		ticker := time.NewTicker(tokenTickInterval)
		defer ticker.Stop()

		log.Info().Msg("token_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("token_cron: shutting down")
				return
			case <-ticker.C:
				limpiarTokens(ctx, usuarios, time.Now())
			}
		}
	}()
}

func limpiarTokens(ctx context.Context, usuarios LimpiadorTokens, ahora time.Time) {
	n, err := usuarios.LimpiarTokensVencidos(ctx, ahora.Add(-model.VigenciaTokenReset))
	if err != nil {
		log.Error().Err(err).Msg("token_cron: failed to clear expired tokens")
		return
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("token_cron: expired reset tokens cleared")
	}
}
