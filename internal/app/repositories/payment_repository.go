package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/db"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/dberrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/logger"
)

// PaymentPeriodConstraint is the unique constraint over (student_id, subject, month, year).
const PaymentPeriodConstraint = "uq_payments_period"

var paymentColumns = []string{
	"id", "branch_id", "student_id", "subject", "month", "year",
	"amount", "expected_amount", "status", "payment_method", "notes",
	"due_date", "academic_year", "term", "created_at", "updated_at",
}

// pgxConn is the part of *pgxpool.Pool the ledger uses.
type pgxConn interface {
	db.TxBeginner
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PaymentRepository handles payment ledger database operations
type PaymentRepository struct {
	db pgxConn
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return newPaymentRepository(pool)
}

func newPaymentRepository(conn pgxConn) *PaymentRepository {
	return &PaymentRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanPayment(row pgx.Row) (*models.PaymentTransaction, error) {
	p := &models.PaymentTransaction{}
	var status, method string
	err := row.Scan(
		&p.ID, &p.BranchID, &p.StudentID, &p.Subject, &p.Month, &p.Year,
		&p.Amount, &p.ExpectedAmount, &status, &method, &p.Notes,
		&p.DueDate, &p.AcademicYear, &p.Term, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.PaymentStatus(status)
	p.PaymentMethod = models.PaymentMethod(method)
	return p, nil
}

func (r *PaymentRepository) selectPayments() squirrel.SelectBuilder {
	return r.sb.Select(paymentColumns...).From("payments")
}

func keyEq(key models.PaymentKey) squirrel.Eq {
	return squirrel.Eq{
		"student_id": key.StudentID,
		"subject":    key.Subject,
		"month":      key.Month,
		"year":       key.Year,
	}
}

// UpsertByKey writes the period's row. A unique violation on insert means another writer
// created the row between our lookup and insert; the write is then repeated once, which
// finds the row and updates it.
func (r *PaymentRepository) UpsertByKey(ctx context.Context, payment *models.PaymentTransaction) (*models.PaymentTransaction, bool, error) {
	stored, created, err := r.upsertOnce(ctx, payment)
	if errors.Is(err, apperrors.ErrConflict) {
		logger.Warn().
			Str("paymentKey", payment.Key().String()).
			Msg("Concurrent insert on payment period, retrying as update")
		stored, created, err = r.upsertOnce(ctx, payment)
	}
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (r *PaymentRepository) upsertOnce(ctx context.Context, payment *models.PaymentTransaction) (*models.PaymentTransaction, bool, error) {
	var stored *models.PaymentTransaction
	var created bool

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query, args, err := r.selectPayments().
			Where(keyEq(payment.Key())).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build payment lookup query: %w", err)
		}

		existing, err := scanPayment(tx.QueryRow(ctx, query, args...))
		switch {
		case err == nil:
			stored, err = r.updateLocked(ctx, tx, existing, payment)
			return err
		case errors.Is(err, pgx.ErrNoRows):
			stored, err = r.insert(ctx, tx, payment)
			created = err == nil
			return err
		default:
			logger.Error().Err(err).Str("paymentKey", payment.Key().String()).Msg("Error locking payment row")
			return fmt.Errorf("error looking up payment: %w", err)
		}
	})
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (r *PaymentRepository) updateLocked(ctx context.Context, tx pgx.Tx, existing, payment *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	now := time.Now().UTC()
	query, args, err := r.sb.Update("payments").
		SetMap(map[string]interface{}{
			"branch_id":       payment.BranchID,
			"amount":          payment.Amount,
			"expected_amount": payment.ExpectedAmount,
			"status":          string(payment.Status),
			"payment_method":  string(payment.PaymentMethod),
			"notes":           payment.Notes,
			"due_date":        payment.DueDate,
			"updated_at":      now,
		}).
		Where(squirrel.Eq{"id": existing.ID}).
		Suffix("RETURNING " + strings.Join(paymentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update payment query: %w", err)
	}

	updated, err := scanPayment(tx.QueryRow(ctx, query, args...))
	if err != nil {
		logger.Error().Err(err).Str("paymentID", existing.ID).Msg("Error executing update payment query")
		return nil, fmt.Errorf("error updating payment: %w", err)
	}
	return updated, nil
}

func (r *PaymentRepository) insert(ctx context.Context, tx pgx.Tx, payment *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	query, args, err := r.sb.Insert("payments").
		Columns(paymentColumns...).
		Values(
			payment.ID, payment.BranchID, payment.StudentID, payment.Subject, payment.Month, payment.Year,
			payment.Amount, payment.ExpectedAmount, string(payment.Status), string(payment.PaymentMethod), payment.Notes,
			payment.DueDate, payment.AcademicYear, payment.Term, payment.CreatedAt, payment.UpdatedAt,
		).
		Suffix("RETURNING " + strings.Join(paymentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert payment query: %w", err)
	}

	inserted, err := scanPayment(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, PaymentPeriodConstraint) {
			return nil, apperrors.NewConflictError("payment for this period was created concurrently")
		}
		logger.Error().Err(err).Str("paymentKey", payment.Key().String()).Msg("Error executing insert payment query")
		return nil, fmt.Errorf("error creating payment: %w", err)
	}
	return inserted, nil
}

// FindByKey returns the row of a period, scoped to branchID when set.
func (r *PaymentRepository) FindByKey(ctx context.Context, branchID string, key models.PaymentKey) (*models.PaymentTransaction, error) {
	where := keyEq(key)
	if branchID != "" {
		where["branch_id"] = branchID
	}
	query, args, err := r.selectPayments().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find payment query: %w", err)
	}

	payment, err := scanPayment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		logger.Error().Err(err).Str("paymentKey", key.String()).Msg("Error scanning payment row")
		return nil, fmt.Errorf("error finding payment: %w", err)
	}
	return payment, nil
}

// GetByID returns a row by id, scoped to branchID when set.
func (r *PaymentRepository) GetByID(ctx context.Context, branchID, id string) (*models.PaymentTransaction, error) {
	where := squirrel.Eq{"id": id}
	if branchID != "" {
		where["branch_id"] = branchID
	}
	query, args, err := r.selectPayments().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment query: %w", err)
	}

	payment, err := scanPayment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		logger.Error().Err(err).Str("paymentID", id).Msg("Error scanning payment row")
		return nil, fmt.Errorf("error getting payment: %w", err)
	}
	return payment, nil
}

// ListByStudent returns every period and subject of a student, newest period first.
func (r *PaymentRepository) ListByStudent(ctx context.Context, branchID, studentID string) ([]*models.PaymentTransaction, error) {
	where := squirrel.Eq{"student_id": studentID}
	if branchID != "" {
		where["branch_id"] = branchID
	}
	query, args, err := r.selectPayments().
		Where(where).
		OrderBy("year DESC", "month DESC", "subject ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list payments query: %w", err)
	}

	payments := []*models.PaymentTransaction{}
	err = r.each(ctx, query, args, func(p *models.PaymentTransaction) error {
		payments = append(payments, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Delete removes a row permanently.
func (r *PaymentRepository) Delete(ctx context.Context, branchID, id string) error {
	where := squirrel.Eq{"id": id}
	if branchID != "" {
		where["branch_id"] = branchID
	}
	query, args, err := r.sb.Delete("payments").Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete payment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("paymentID", id).Msg("Error executing delete payment query")
		return fmt.Errorf("error deleting payment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotFound
	}
	return nil
}

// revenueQuery builds the filtered scan used by the revenue aggregator.
func (r *PaymentRepository) revenueQuery(filter models.RevenueFilter) squirrel.SelectBuilder {
	where := squirrel.And{}
	if filter.BranchID != "" {
		where = append(where, squirrel.Eq{"branch_id": filter.BranchID})
	}
	if filter.Subject != "" {
		where = append(where, squirrel.Expr("LOWER(TRIM(subject)) = ?", models.NormalizeSubject(filter.Subject)))
	}
	if filter.PaymentMethod != "" {
		where = append(where, squirrel.Eq{"payment_method": string(filter.PaymentMethod)})
	}
	if filter.StartDate != nil {
		where = append(where, squirrel.Expr("make_date(year, month, 1) >= ?", filter.StartDate.UTC()))
	}
	if filter.EndDate != nil {
		where = append(where, squirrel.Expr("make_date(year, month, 1) <= ?", filter.EndDate.UTC()))
	}

	builder := r.selectPayments()
	if len(where) > 0 {
		builder = builder.Where(where)
	}
	return builder.OrderBy("year ASC", "month ASC")
}

// ScanRevenue streams the rows matching filter to fn.
func (r *PaymentRepository) ScanRevenue(ctx context.Context, filter models.RevenueFilter, fn func(*models.PaymentTransaction) error) error {
	query, args, err := r.revenueQuery(filter).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revenue query: %w", err)
	}
	return r.each(ctx, query, args, fn)
}

func (r *PaymentRepository) each(ctx context.Context, query string, args []interface{}, fn func(*models.PaymentTransaction) error) error {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing payments query")
		return fmt.Errorf("error querying payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning payment row")
			return fmt.Errorf("error scanning payment row: %w", err)
		}
		if err := fn(payment); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating payment rows")
		return fmt.Errorf("error iterating payment rows: %w", err)
	}
	return nil
}
