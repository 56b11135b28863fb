package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/pricing"
	"github.com/jhoicas/cotizador/internal/domain/repository"
)

// QuotationUseCase cotizaciones: listado, detalle, alta/edición transaccional y estadísticas.
type QuotationUseCase struct {
	repo repository.QuotationRepository
	tx   TxRunner
}

// NewQuotationUseCase construye el caso de uso.
func NewQuotationUseCase(repo repository.QuotationRepository, tx TxRunner) *QuotationUseCase {
	return &QuotationUseCase{repo: repo, tx: tx}
}

// List página de cotizaciones filtrada por search.
func (uc *QuotationUseCase) List(ctx context.Context, in dto.PageRequest) (*dto.QuotationListResponse, error) {
	in.DefaultPage()
	items, total, err := uc.repo.List(ctx, repository.QuotationFilter{
		Search: in.Search,
		Limit:  in.Limit,
		Offset: in.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.QuotationListResponse{
		Data:       make([]dto.QuotationResponse, 0, len(items)),
		Page:       in.Page,
		TotalPages: dto.TotalPages(total, in.Limit),
		Total:      total,
	}
	for _, q := range items {
		out.Data = append(out.Data, *dto.NewQuotationResponse(q))
	}
	return out, nil
}

// GetByID cotización desnormalizada; ErrNotFound si no existe.
func (uc *QuotationUseCase) GetByID(ctx context.Context, id int64) (*dto.QuotationResponse, error) {
	q, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewQuotationResponse(q), nil
}

// Create valida y guarda cabecera + líneas en una transacción. createdBy es el UID en sesión.
func (uc *QuotationUseCase) Create(ctx context.Context, createdBy string, in dto.QuotationRequest) (*dto.QuotationResponse, error) {
	q, err := prepareQuotation(in)
	if err != nil {
		return nil, err
	}
	q.CreatedBy = createdBy

	var saved *entity.Quotation
	err = uc.tx.Run(ctx, func(quotes repository.QuotationRepository, clients repository.ClientRepository) error {
		if err := requireClient(ctx, clients, q.ClientID); err != nil {
			return err
		}
		if err := quotes.Create(ctx, q); err != nil {
			return err
		}
		saved, err = quotes.GetByID(ctx, q.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewQuotationResponse(saved), nil
}

// Update reemplaza cabecera y todas las líneas de la cotización id.
func (uc *QuotationUseCase) Update(ctx context.Context, id int64, in dto.QuotationRequest) (*dto.QuotationResponse, error) {
	q, err := prepareQuotation(in)
	if err != nil {
		return nil, err
	}
	q.ID = id

	var saved *entity.Quotation
	err = uc.tx.Run(ctx, func(quotes repository.QuotationRepository, clients repository.ClientRepository) error {
		if err := requireClient(ctx, clients, q.ClientID); err != nil {
			return err
		}
		if err := quotes.Update(ctx, q); err != nil {
			return err
		}
		saved, err = quotes.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewQuotationResponse(saved), nil
}

// Delete elimina la cotización.
func (uc *QuotationUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// Stats total acumulado y número de cotizaciones.
func (uc *QuotationUseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	s, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{TotalAmount: s.TotalAmount, TotalCount: s.TotalCount}, nil
}

// prepareQuotation valida las líneas, compara la foto de totales enviada contra el cálculo
// propio y deja en la entidad los totales recalculados.
func prepareQuotation(in dto.QuotationRequest) (*entity.Quotation, error) {
	q := in.ToEntity()
	if err := pricing.ValidateAll(q.Items); err != nil {
		return nil, err
	}
	totals := pricing.ComputeTotals(q.Items)
	if totals.Total.IsZero() {
		return nil, domain.ErrEmptyQuotation
	}
	submitted := pricing.Totals{Subtotal: q.Subtotal, Tax: q.Tax, Total: q.Total}
	if !totals.Matches(submitted) {
		return nil, fmt.Errorf("%w: enviado %s, calculado %s", domain.ErrTotalsMismatch, q.Total, totals.Total.Round(2))
	}
	q.Items = pricing.Recompute(q.Items)
	q.Subtotal, q.Tax, q.Total = totals.Subtotal, totals.Tax, totals.Total
	return q, nil
}

func requireClient(ctx context.Context, clients repository.ClientRepository, id int64) error {
	c, err := clients.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: el cliente %d no existe", domain.ErrInvalidInput, id)
	}
	return nil
}
