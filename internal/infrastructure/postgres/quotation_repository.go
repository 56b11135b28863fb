package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación de QuotationRepository (usable con pool o tx).
// Create/Update tocan dos tablas: llamarlos desde TxRunner.
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

const quotationSelect = `
	SELECT q.id, q.client_id, q.subtotal, q.tax, q.total,
	       q.warranty, q.delivery_time, q.payment_method, q.elaborated_by, q.observations,
	       q.created_by, q.created_at, q.updated_at,
	       c.id, c.name, c.tax_id, c.email, c.phone, c.address, c.contact_name, c.created_at, c.updated_at
	FROM quotations q
	JOIN clients c ON c.id = q.client_id`

// Create inserta cabecera y líneas; completa ID y fechas.
func (r *QuotationRepo) Create(ctx context.Context, qt *entity.Quotation) error {
	query := `
		INSERT INTO quotations (client_id, subtotal, tax, total,
			warranty, delivery_time, payment_method, elaborated_by, observations, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		qt.ClientID, qt.Subtotal, qt.Tax, qt.Total,
		qt.Terms.Warranty, qt.Terms.DeliveryTime, qt.Terms.PaymentMethod, qt.Terms.ElaboratedBy, qt.Terms.Observations,
		qt.CreatedBy,
	).Scan(&qt.ID, &qt.CreatedAt, &qt.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente %d no existe", domain.ErrInvalidInput, qt.ClientID)
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return r.insertItems(ctx, qt.ID, qt.Items)
}

// GetByID cotización con cliente y líneas; (nil, nil) si no existe.
func (r *QuotationRepo) GetByID(ctx context.Context, id int64) (*entity.Quotation, error) {
	qt, err := scanQuotation(r.q.QueryRow(ctx, quotationSelect+` WHERE q.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Quotation{qt}); err != nil {
		return nil, err
	}
	return qt, nil
}

// List página de cotizaciones (más recientes primero) y total de coincidencias.
func (r *QuotationRepo) List(ctx context.Context, f repository.QuotationFilter) ([]*entity.Quotation, int64, error) {
	where, args := searchClause(f.Search)

	var total int64
	countQuery := `SELECT COUNT(*) FROM quotations q JOIN clients c ON c.id = q.client_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotations: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY q.created_at DESC, q.id DESC LIMIT $%d OFFSET $%d`,
		quotationSelect, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Quotation
	for rows.Next() {
		qt, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quotation: %w", err)
		}
		out = append(out, qt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update reemplaza cabecera y líneas. CreatedBy no cambia.
func (r *QuotationRepo) Update(ctx context.Context, qt *entity.Quotation) error {
	query := `
		UPDATE quotations
		SET client_id = $2, subtotal = $3, tax = $4, total = $5,
		    warranty = $6, delivery_time = $7, payment_method = $8, elaborated_by = $9, observations = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_by, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		qt.ID, qt.ClientID, qt.Subtotal, qt.Tax, qt.Total,
		qt.Terms.Warranty, qt.Terms.DeliveryTime, qt.Terms.PaymentMethod, qt.Terms.ElaboratedBy, qt.Terms.Observations,
	).Scan(&qt.CreatedBy, &qt.CreatedAt, &qt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente %d no existe", domain.ErrInvalidInput, qt.ClientID)
		}
		return fmt.Errorf("update quotation: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, qt.ID); err != nil {
		return fmt.Errorf("delete quotation items: %w", err)
	}
	return r.insertItems(ctx, qt.ID, qt.Items)
}

// Delete elimina la cotización (las líneas caen en cascada).
func (r *QuotationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats suma y cuenta todas las cotizaciones.
func (r *QuotationRepo) Stats(ctx context.Context) (*entity.QuotationStats, error) {
	var s entity.QuotationStats
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0), COUNT(*) FROM quotations`).
		Scan(&s.TotalAmount, &s.TotalCount)
	if err != nil {
		return nil, fmt.Errorf("quotation stats: %w", err)
	}
	return &s, nil
}

func (r *QuotationRepo) insertItems(ctx context.Context, quotationID int64, items []entity.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(items))
	for i, it := range items {
		rows = append(rows, []any{quotationID, i + 1, it.Quantity, it.Description, it.UnitPrice, it.DiscountPercent, it.LineTotal})
	}
	_, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"quotation_items"},
		[]string{"quotation_id", "position", "quantity", "description", "unit_price", "discount_percent", "line_total"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("insert quotation items: %w", err)
	}
	return nil
}

func (r *QuotationRepo) loadItems(ctx context.Context, qts []*entity.Quotation) error {
	if len(qts) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Quotation, len(qts))
	ids := make([]int64, 0, len(qts))
	for _, qt := range qts {
		byID[qt.ID] = qt
		ids = append(ids, qt.ID)
		qt.Items = []entity.LineItem{}
	}

	rows, err := r.q.Query(ctx, `
		SELECT quotation_id, quantity, description, unit_price, discount_percent, line_total
		FROM quotation_items
		WHERE quotation_id = ANY($1)
		ORDER BY quotation_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list quotation items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			qid int64
			it  entity.LineItem
		)
		if err := rows.Scan(&qid, &it.Quantity, &it.Description, &it.UnitPrice, &it.DiscountPercent, &it.LineTotal); err != nil {
			return fmt.Errorf("scan quotation item: %w", err)
		}
		if qt := byID[qid]; qt != nil {
			qt.Items = append(qt.Items, it)
		}
	}
	return rows.Err()
}

// searchClause filtra por nombre o NIT del cliente; "CO00007" o "7" también buscan por número.
func searchClause(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	args := []any{"%" + escapeLike(search) + "%"}
	where := ` WHERE (c.name ILIKE $1 ESCAPE '\' OR c.tax_id ILIKE $1 ESCAPE '\'`
	digits := strings.TrimPrefix(strings.ToUpper(search), "CO")
	if id, err := strconv.ParseInt(digits, 10, 64); err == nil && id > 0 {
		args = append(args, id)
		where += ` OR q.id = $2`
	}
	return where + `)`, args
}

func scanQuotation(row pgx.Row) (*entity.Quotation, error) {
	var (
		qt entity.Quotation
		c  entity.Client
	)
	err := row.Scan(
		&qt.ID, &qt.ClientID, &qt.Subtotal, &qt.Tax, &qt.Total,
		&qt.Terms.Warranty, &qt.Terms.DeliveryTime, &qt.Terms.PaymentMethod, &qt.Terms.ElaboratedBy, &qt.Terms.Observations,
		&qt.CreatedBy, &qt.CreatedAt, &qt.UpdatedAt,
		&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.Address, &c.ContactName, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	qt.Client = &c
	return &qt, nil
}
