package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID                    uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title                 string            `gorm:"column:title;not null" json:"title"`
	Description           string            `gorm:"column:description" json:"description"`
	AllowPdfDownload      bool              `gorm:"column:allow_pdf_download;not null;default:false" json:"allow_pdf_download"`
	AllowMarkdownDownload bool              `gorm:"column:allow_markdown_download;not null;default:false" json:"allow_markdown_download"`
	Modules               []*CourseModule   `gorm:"foreignKey:CourseID;references:ID" json:"modules,omitempty"`
	Resources             []*CourseResource `gorm:"foreignKey:CourseID;references:ID" json:"resources,omitempty"`
	CreatedAt             time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt             gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

type CourseModule struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title    string    `gorm:"column:title;not null" json:"title"`
	Position int       `gorm:"column:position;not null;default:0" json:"position"`
	Items    []*Item   `gorm:"foreignKey:ModuleID;references:ID" json:"items,omitempty"`
}

func (CourseModule) TableName() string { return "course_module" }

// CourseResource is a downloadable attachment (distinct from item content)
// listed in program exports via time-limited signed URLs.
type CourseResource struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Label    string    `gorm:"column:label;not null" json:"label"`
	FilePath string    `gorm:"column:file_path;not null" json:"file_path"`
}

func (CourseResource) TableName() string { return "course_resource" }
