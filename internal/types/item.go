package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Item struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Type      string         `gorm:"column:type;not null" json:"type"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Position  int            `gorm:"column:position;not null;default:0" json:"position"`
	Published bool           `gorm:"column:published;not null;default:true" json:"published"`
	Content   datatypes.JSON `gorm:"column:content;type:jsonb" json:"content,omitempty"`
	AssetPath string         `gorm:"column:asset_path" json:"asset_path,omitempty"`
	Chapters  []*Chapter     `gorm:"foreignKey:ItemID;references:ID" json:"chapters,omitempty"`
}

func (Item) TableName() string { return "item" }

type Chapter struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ItemID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"item_id"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Position  int            `gorm:"column:position;not null;default:0" json:"position"`
	Published bool           `gorm:"column:published;not null;default:true" json:"published"`
	Content   datatypes.JSON `gorm:"column:content;type:jsonb" json:"content,omitempty"`
}

func (Chapter) TableName() string { return "chapter" }
