package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"solpay/internal/core"
	"solpay/internal/domain/payment"
	"solpay/internal/store/repositories"
)

type PaymentStore struct {
	db *pgxpool.Pool
}

func NewPaymentStore(db *pgxpool.Pool) *PaymentStore { return &PaymentStore{db: db} }

var _ repositories.PaymentStore = (*PaymentStore)(nil)

const paymentColumns = `id, token, amount, wallet, status, method, signature, transaction_status, error_detail, fee_amount, created_at, updated_at`

func (s *PaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO payments (id, token, amount, wallet, status, method, signature, transaction_status, error_detail, fee_amount, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, string(p.Token), p.Amount, p.Wallet, string(p.Status), p.Method,
		p.Signature, p.TxStatus, p.ErrorDetail, p.FeeAmount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return core.E(core.KindPersistence, "insert payment failed", err)
	}
	return nil
}

func (s *PaymentStore) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	row := s.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return scanPayment(row)
}

func (s *PaymentStore) FindByWallet(ctx context.Context, wallet string) ([]*payment.Payment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+paymentColumns+`
		  FROM payments
		 WHERE wallet = $1
		 ORDER BY created_at DESC`, wallet)
	if err != nil {
		return nil, core.E(core.KindPersistence, "list payments failed", err)
	}
	defer rows.Close()

	var out []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, core.E(core.KindPersistence, "list payments failed", err)
	}
	return out, nil
}

func (s *PaymentStore) FindBySignature(ctx context.Context, signature string) (*payment.Payment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		  FROM payments
		 WHERE signature = $1 AND signature <> ''
		 ORDER BY created_at DESC
		 LIMIT 1`, signature)
	return scanPayment(row)
}

func (s *PaymentStore) Update(ctx context.Context, id string, upd repositories.PaymentUpdate) (*payment.Payment, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE payments
		   SET status             = COALESCE($2, status),
		       signature          = COALESCE($3, signature),
		       transaction_status = COALESCE($4, transaction_status),
		       error_detail       = COALESCE($5, error_detail),
		       updated_at         = now()
		 WHERE id = $1
		 RETURNING `+paymentColumns,
		id, statusArg(upd.Status), upd.Signature, upd.TxStatus, upd.ErrorDetail,
	)
	return scanPayment(row)
}

func (s *PaymentStore) UpdateBySignature(ctx context.Context, signature string, upd repositories.PaymentUpdate) (*payment.Payment, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE payments
		   SET status             = COALESCE($2, status),
		       transaction_status = COALESCE($3, transaction_status),
		       error_detail       = COALESCE($4, error_detail),
		       updated_at         = now()
		 WHERE id = (
		       SELECT id FROM payments
		        WHERE signature = $1 AND signature <> ''
		        ORDER BY created_at DESC
		        LIMIT 1)
		 RETURNING `+paymentColumns,
		signature, statusArg(upd.Status), upd.TxStatus, upd.ErrorDetail,
	)
	return scanPayment(row)
}

func (s *PaymentStore) FindStalePending(ctx context.Context, updatedBefore time.Time, limit int) ([]*payment.Payment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+paymentColumns+`
		  FROM payments
		 WHERE status = 'pending' AND signature <> '' AND updated_at < $1
		 ORDER BY updated_at ASC
		 LIMIT $2`, updatedBefore, limit)
	if err != nil {
		return nil, core.E(core.KindPersistence, "stale pending query failed", err)
	}
	defer rows.Close()

	var out []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, core.E(core.KindPersistence, "stale pending query failed", err)
	}
	return out, nil
}

func statusArg(s *payment.Status) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var token, status string
	err := row.Scan(
		&p.ID, &token, &p.Amount, &p.Wallet, &status, &p.Method,
		&p.Signature, &p.TxStatus, &p.ErrorDetail, &p.FeeAmount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.E(core.KindNotFound, "payment not found", err)
	}
	if err != nil {
		return nil, core.E(core.KindPersistence, "scan payment failed", err)
	}
	p.Token = payment.Token(token)
	p.Status = payment.Status(status)
	return &p, nil
}
