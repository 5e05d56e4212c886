// Package inmem is the memory driver: mutex-guarded tables with the same semantics as the
// Postgres repositories. It backs local runs and the service tests.
package inmem

import (
	"sync"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
)

type (
	DB struct {
		payments *paymentTable
		students *studentTable
		branches *branchTable
	}

	paymentTable struct {
		t     map[string]*models.PaymentTransaction
		byKey map[models.PaymentKey]string
		mutex sync.RWMutex
	}

	studentTable struct {
		t     map[string]*models.Student
		mutex sync.RWMutex
	}

	branchTable struct {
		t     map[string]*models.Branch
		mutex sync.RWMutex
	}
)

// Open returns an empty database.
func Open() *DB {
	return &DB{
		payments: &paymentTable{
			t:     make(map[string]*models.PaymentTransaction),
			byKey: make(map[models.PaymentKey]string),
		},
		students: &studentTable{t: make(map[string]*models.Student)},
		branches: &branchTable{t: make(map[string]*models.Branch)},
	}
}

// Repositories exposes the tables through the repository interfaces.
func (db *DB) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		PaymentRepository: &PaymentRepository{table: db.payments},
		StudentRepository: &StudentRepository{table: db.students},
		StudentWriter:     &StudentRepository{table: db.students},
		BranchRepository:  &BranchRepository{table: db.branches},
	}
}

// NewRepositories opens an empty database and returns its repositories.
func NewRepositories() *repositories.Repositories {
	return Open().Repositories()
}
