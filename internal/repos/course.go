package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusforge/portal-export/internal/platform/logger"
	"github.com/campusforge/portal-export/internal/types"
)

type CourseRepo interface {
	// GetTree loads a course with its modules, items, chapters and resources,
	// ordered by position at every level. Read-only.
	GetTree(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (cr *courseRepo) GetTree(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var course types.Course
	if err := transaction.WithContext(ctx).
		Preload("Modules", byPosition).
		Preload("Modules.Items", byPosition).
		Preload("Modules.Items.Chapters", byPosition).
		Preload("Resources").
		First(&course, "id = ?", courseID).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
