package repository

import (
	"time"

	"gorm.io/gorm"
)

// rangoFechas restricts columna to [desde, hasta]; hasta covers the whole day.
func rangoFechas(q *gorm.DB, columna string, desde, hasta *time.Time) *gorm.DB {
	if desde != nil {
		q = q.Where(columna+" >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where(columna+" < ?", hasta.AddDate(0, 0, 1))
	}
	return q
}

// usuarioContiene matches rows whose user's name, surname, username or e-mail
// contains texto.
func usuarioContiene(q *gorm.DB, columna, texto string) *gorm.DB {
	if texto == "" {
		return q
	}
	like := "%" + texto + "%"
	return q.Where(columna+` IN (SELECT id FROM usuarios
		WHERE (nombre ILIKE ? OR apellido ILIKE ? OR username ILIKE ? OR email ILIKE ?))`,
		like, like, like, like)
}

// anulado filters on a nullable anulado/anulada timestamp column.
func anulado(q *gorm.DB, columna, estado, activo, inactivo string) *gorm.DB {
	switch estado {
	case activo:
		return q.Where(columna + " IS NULL")
	case inactivo:
		return q.Where(columna + " IS NOT NULL")
	}
	return q
}

func paginar(q *gorm.DB, offset, limit int) *gorm.DB {
	return q.Offset(offset).Limit(limit)
}
