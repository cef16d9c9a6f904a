package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, company_id, kind, description, counterpart, amount, due_date, paid, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.Kind, &a.Description, &a.Counterpart,
		&a.Amount, &a.DueDate, &a.Paid, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una nueva cuenta por pagar/cobrar.
func (r *AccountRepo) Create(ctx context.Context, account *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		account.ID, account.CompanyID, account.Kind, account.Description, account.Counterpart,
		account.Amount, account.DueDate, account.Paid, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	a, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// ListByCompany lista cuentas de la empresa, opcionalmente filtradas por tipo.
func (r *AccountRepo) ListByCompany(ctx context.Context, companyID, kind string, limit, offset int) ([]*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY due_date ASC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update actualiza los datos de la cuenta.
func (r *AccountRepo) Update(ctx context.Context, account *entity.Account) error {
	query := `
		UPDATE accounts SET description = $2, counterpart = $3, amount = $4, due_date = $5, paid = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		account.ID, account.Description, account.Counterpart, account.Amount,
		account.DueDate, account.Paid, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// Delete elimina una cuenta por ID.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// ListUnpaidDueBefore lista cuentas no pagadas con vencimiento hasta la fecha dada.
func (r *AccountRepo) ListUnpaidDueBefore(ctx context.Context, companyID string, until time.Time) ([]*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND paid = false AND due_date <= $2
		ORDER BY due_date ASC`
	rows, err := r.q.Query(ctx, query, companyID, until)
	if err != nil {
		return nil, fmt.Errorf("list unpaid accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
