package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
)

// PaymentStore is the ledger's persistence. Implementations must keep at most one row
// per PaymentKey, even under concurrent UpsertByKey calls for the same key.
type PaymentStore interface {
	// UpsertByKey inserts payment, or when a row already holds payment's key, overwrites
	// its amount, expected amount, status, method, notes and due date. It returns the
	// stored row and whether it was created.
	UpsertByKey(ctx context.Context, payment *models.PaymentTransaction) (*models.PaymentTransaction, bool, error)
	FindByKey(ctx context.Context, branchID string, key models.PaymentKey) (*models.PaymentTransaction, error)
	GetByID(ctx context.Context, branchID, id string) (*models.PaymentTransaction, error)
	ListByStudent(ctx context.Context, branchID, studentID string) ([]*models.PaymentTransaction, error)
	Delete(ctx context.Context, branchID, id string) error
	// ScanRevenue calls fn for every row matching filter.
	ScanRevenue(ctx context.Context, filter models.RevenueFilter, fn func(*models.PaymentTransaction) error) error
}

// StudentStore reads student records.
type StudentStore interface {
	GetStudent(ctx context.Context, branchID, id string) (*models.Student, error)
}

// StudentWriter loads student records; only the seeder writes students.
type StudentWriter interface {
	SaveStudent(ctx context.Context, student *models.Student) error
}

// BranchStore reads and creates branches.
type BranchStore interface {
	GetBranch(ctx context.Context, id string) (*models.Branch, error)
	ListBranches(ctx context.Context) ([]*models.Branch, error)
	CreateBranch(ctx context.Context, branch *models.Branch) error
}

// Repositories holds all the repository instances
type Repositories struct {
	PaymentRepository PaymentStore
	StudentRepository StudentStore
	StudentWriter     StudentWriter
	BranchRepository  BranchStore
}

// NewRepositories initializes the Postgres-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	students := NewStudentRepository(db)
	return &Repositories{
		PaymentRepository: NewPaymentRepository(db),
		StudentRepository: students,
		StudentWriter:     students,
		BranchRepository:  NewBranchRepository(db),
	}
}
