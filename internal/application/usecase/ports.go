package usecase

import (
	"context"

	"github.com/jhoicas/cotizador/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		quotes repository.QuotationRepository,
		clients repository.ClientRepository,
	) error) error
}
