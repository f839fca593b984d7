package ledger

import (
	"context"

	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Todo caso de uso que mute lotes pasa por aquí:
// decremento de origen, fusión en destino, registro del traslado y auditoría
// se confirman juntos o no se confirma ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lots repository.LotRepository,
		transfers repository.TransferRepository,
		activity repository.ActivityLogRepository,
	) error) error
}

// BatchNumberGenerator produce números de lote cuando la recepción no trae uno.
type BatchNumberGenerator interface {
	Next() string
}
