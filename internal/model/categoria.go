package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria groups products. Borrado hides it from active listings while
// keeping it for reporting.
type Categoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"type:varchar(100);index;not null"`
	Descripcion string    `gorm:"type:varchar(250)"`
	Borrado     bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }
