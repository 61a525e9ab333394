package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusforge/portal-export/internal/platform/logger"
	"github.com/campusforge/portal-export/internal/types"
)

type ProgramRepo interface {
	// GetTree loads a program with its ordered courses and, for each course,
	// the full module/item/chapter tree and resources. Read-only.
	GetTree(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (*types.Program, error)
}

type programRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	repoLog := baseLog.With("repo", "ProgramRepo")
	return &programRepo{db: db, log: repoLog}
}

func (pr *programRepo) GetTree(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var program types.Program
	if err := transaction.WithContext(ctx).
		Preload("Courses", byPosition).
		Preload("Courses.Course").
		Preload("Courses.Course.Modules", byPosition).
		Preload("Courses.Course.Modules.Items", byPosition).
		Preload("Courses.Course.Modules.Items.Chapters", byPosition).
		Preload("Courses.Course.Resources").
		First(&program, "id = ?", programID).Error; err != nil {
		return nil, err
	}
	return &program, nil
}
