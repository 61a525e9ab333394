package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Program struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Description string           `gorm:"column:description" json:"description"`
	Glossary    datatypes.JSON   `gorm:"column:glossary;type:jsonb" json:"glossary,omitempty"`
	Courses     []*ProgramCourse `gorm:"foreignKey:ProgramID;references:ID" json:"courses,omitempty"`
	CreatedAt   time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (Program) TableName() string { return "program" }

// ProgramCourse orders a course inside a program.
type ProgramCourse struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProgramID uuid.UUID `gorm:"type:uuid;not null;index" json:"program_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Position  int       `gorm:"column:position;not null;default:0" json:"position"`
}

func (ProgramCourse) TableName() string { return "program_course" }
