package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/repository"
)

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.InvitationRepository = (*InvitationRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Upsert crea el usuario o refresca email, nombre y rol.
func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (uid, email, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (uid) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, role = EXCLUDED.role, updated_at = NOW()
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query, u.UID, u.Email, u.Name, string(u.Role)).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetByUID obtiene un usuario; (nil, nil) si no existe.
func (r *UserRepo) GetByUID(ctx context.Context, uid string) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := r.q.QueryRow(ctx, `SELECT uid, email, name, role, created_at, updated_at FROM users WHERE uid = $1`, uid).
		Scan(&u.UID, &u.Email, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Role = entity.ParseRole(role)
	return &u, nil
}

// UpdateName cambia el nombre mostrado del usuario.
func (r *UserRepo) UpdateName(ctx context.Context, uid, name string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET name = $2, updated_at = NOW() WHERE uid = $1`, uid, name)
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InvitationRepo correos autorizados sobre PostgreSQL.
type InvitationRepo struct {
	q Querier
}

// NewInvitationRepository construye el adaptador.
func NewInvitationRepository(q Querier) *InvitationRepo {
	return &InvitationRepo{q: q}
}

// Save crea o reemplaza la invitación del correo.
func (r *InvitationRepo) Save(ctx context.Context, inv *entity.Invitation) error {
	query := `
		INSERT INTO invitations (email, role, invited_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, invited_by = EXCLUDED.invited_by
		RETURNING created_at`
	if err := r.q.QueryRow(ctx, query, inv.Email, string(inv.Role), inv.InvitedBy).Scan(&inv.CreatedAt); err != nil {
		return fmt.Errorf("save invitation: %w", err)
	}
	return nil
}

// GetByEmail (nil, nil) si el correo no está autorizado.
func (r *InvitationRepo) GetByEmail(ctx context.Context, email string) (*entity.Invitation, error) {
	inv, err := scanInvitation(r.q.QueryRow(ctx,
		`SELECT email, role, invited_by, created_at FROM invitations WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// List invitaciones ordenadas por correo.
func (r *InvitationRepo) List(ctx context.Context) ([]*entity.Invitation, error) {
	rows, err := r.q.Query(ctx, `SELECT email, role, invited_by, created_at FROM invitations ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Delete quita la autorización del correo.
func (r *InvitationRepo) Delete(ctx context.Context, email string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invitations WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvitation(row pgx.Row) (*entity.Invitation, error) {
	var (
		inv  entity.Invitation
		role string
	)
	if err := row.Scan(&inv.Email, &role, &inv.InvitedBy, &inv.CreatedAt); err != nil {
		return nil, err
	}
	inv.Role = entity.ParseRole(role)
	return &inv, nil
}
