package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/apperrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/dberrors"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/logger"
)

// BranchRepository handles branch database operations
type BranchRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBranchRepository creates a new BranchRepository
func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBranch retrieves a branch by ID
func (r *BranchRepository) GetBranch(ctx context.Context, id string) (*models.Branch, error) {
	sql, args, err := r.sb.Select("id", "name", "address", "created_at").
		From("branches").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get branch query: %w", err)
	}

	var branch models.Branch
	err = r.db.QueryRow(ctx, sql, args...).Scan(&branch.ID, &branch.Name, &branch.Address, &branch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBranchNotFound
		}
		logger.Error().Err(err).Str("branchID", id).Msg("Error scanning branch row")
		return nil, fmt.Errorf("error getting branch: %w", err)
	}
	return &branch, nil
}

// ListBranches retrieves all branches ordered by name
func (r *BranchRepository) ListBranches(ctx context.Context) ([]*models.Branch, error) {
	sql, args, err := r.sb.Select("id", "name", "address", "created_at").
		From("branches").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list branches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list branches query")
		return nil, fmt.Errorf("error listing branches: %w", err)
	}
	defer rows.Close()

	branches := []*models.Branch{}
	for rows.Next() {
		var branch models.Branch
		if err := rows.Scan(&branch.ID, &branch.Name, &branch.Address, &branch.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning branch row: %w", err)
		}
		branches = append(branches, &branch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating branch rows: %w", err)
	}
	return branches, nil
}

// CreateBranch creates a new branch
func (r *BranchRepository) CreateBranch(ctx context.Context, branch *models.Branch) error {
	if branch.CreatedAt.IsZero() {
		branch.CreatedAt = time.Now().UTC()
	}
	sql, args, err := r.sb.Insert("branches").
		Columns("id", "name", "address", "created_at").
		Values(branch.ID, branch.Name, branch.Address, branch.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create branch query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError(fmt.Sprintf("branch %q already exists", branch.ID))
		}
		logger.Error().Err(err).Str("branchID", branch.ID).Msg("Error executing create branch query")
		return fmt.Errorf("error creating branch: %w", err)
	}

	logger.Info().Str("branchID", branch.ID).Msg("Branch created successfully")
	return nil
}
