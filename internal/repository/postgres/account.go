package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type accountRepository struct {
	BaseRepository
}

func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &accountRepository{NewBaseRepository(db)}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, first_name, last_name, role,
			phone, date_of_birth, gender, address, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	account.Touch(time.Now().UTC())

	_, err := r.conn(ctx).ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Role,
		account.Phone,
		account.DateOfBirth,
		account.Gender,
		account.Address,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	)
	return wrapErr("create account", err)
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	err := sqlx.GetContext(ctx, r.conn(ctx), &account, `SELECT * FROM accounts WHERE id = $1`, id)
	if err != nil {
		return nil, wrapErr("get account", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := sqlx.GetContext(ctx, r.conn(ctx), &account, `SELECT * FROM accounts WHERE email = $1`, email)
	if err != nil {
		return nil, wrapErr("get account by email", err)
	}
	return &account, nil
}

func (r *accountRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var accounts []*model.Account
	err := sqlx.SelectContext(ctx, r.conn(ctx), &accounts,
		`SELECT * FROM accounts WHERE id = ANY($1::uuid[])`, uuidArray(ids))
	if err != nil {
		return nil, wrapErr("get accounts", err)
	}
	return accounts, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	query := `
		UPDATE accounts SET
			email = $1, first_name = $2, last_name = $3, phone = $4,
			date_of_birth = $5, gender = $6, address = $7, is_active = $8, updated_at = $9
		WHERE id = $10
	`
	account.UpdatedAt = time.Now().UTC()

	res, err := r.conn(ctx).ExecContext(ctx, query,
		account.Email,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.DateOfBirth,
		account.Gender,
		account.Address,
		account.IsActive,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return wrapErr("update account", err)
	}
	return expectRow(res, "update account")
}

func uuidArray(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
