package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/logger"
)

// StudentRepository reads student records. The tariff columns are JSON, not JSONB, so the
// stored key order of perClassPrices survives the round trip.
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetStudent retrieves a student by ID, scoped to branchID when set
func (r *StudentRepository) GetStudent(ctx context.Context, branchID, id string) (*models.Student, error) {
	where := squirrel.Eq{"id": id}
	if branchID != "" {
		where["branch_id"] = branchID
	}
	sql, args, err := r.sb.Select(
		"id", "branch_id", "name", "status", "subjects",
		"subject_payments", "per_class_prices", "payment_subjects",
	).
		From("students").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var (
		student                                          models.Student
		status                                           string
		subjectPayments, perClassPrices, paymentSubjects []byte
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.ID, &student.BranchID, &student.Name, &status, &student.Subjects,
		&subjectPayments, &perClassPrices, &paymentSubjects,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Str("studentID", id).Str("branchID", branchID).Msg("Student not found")
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	student.Status = models.StudentStatus(status)

	if err := decodeTariffColumn(subjectPayments, &student.SubjectPayments); err != nil {
		return nil, fmt.Errorf("student %s subject_payments: %w", id, err)
	}
	if err := decodeTariffColumn(perClassPrices, &student.PerClassPrices); err != nil {
		return nil, fmt.Errorf("student %s per_class_prices: %w", id, err)
	}
	if err := decodeTariffColumn(paymentSubjects, &student.PaymentSubjects); err != nil {
		return nil, fmt.Errorf("student %s payment_subjects: %w", id, err)
	}

	return &student, nil
}

// SaveStudent inserts or replaces a student record. Used by the seeder.
func (r *StudentRepository) SaveStudent(ctx context.Context, student *models.Student) error {
	subjectPayments, err := encodeTariffColumn(student.SubjectPayments, len(student.SubjectPayments) == 0)
	if err != nil {
		return err
	}
	perClassPrices, err := encodeTariffColumn(student.PerClassPrices, student.PerClassPrices == nil)
	if err != nil {
		return err
	}
	paymentSubjects, err := encodeTariffColumn(student.PaymentSubjects, len(student.PaymentSubjects) == 0)
	if err != nil {
		return err
	}

	subjects := student.Subjects
	if subjects == nil {
		subjects = []string{}
	}

	sql, args, err := r.sb.Insert("students").
		Columns("id", "branch_id", "name", "status", "subjects",
			"subject_payments", "per_class_prices", "payment_subjects").
		Values(student.ID, student.BranchID, student.Name, string(student.Status), subjects,
			subjectPayments, perClassPrices, paymentSubjects).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			branch_id = EXCLUDED.branch_id,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			subjects = EXCLUDED.subjects,
			subject_payments = EXCLUDED.subject_payments,
			per_class_prices = EXCLUDED.per_class_prices,
			payment_subjects = EXCLUDED.payment_subjects`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("studentID", student.ID).Msg("Error executing save student query")
		return fmt.Errorf("error saving student: %w", err)
	}
	return nil
}

func decodeTariffColumn(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// encodeTariffColumn returns nil for empty shapes so the column stays NULL.
func encodeTariffColumn(v interface{}, empty bool) (*string, error) {
	if empty {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tariff column: %w", err)
	}
	s := string(raw)
	return &s, nil
}
