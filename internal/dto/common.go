package dto

// Paginacion is embedded in every list filter.
type Paginacion struct {
	Pagina             int `form:"pagina,default=1"                validate:"min=1"`
	RegistrosPorPagina int `form:"registros_por_pagina,default=20" validate:"min=1,max=100"`
}

// Offset returns the number of rows to skip.
func (p Paginacion) Offset() int { return (p.Pagina - 1) * p.RegistrosPorPagina }

// Normalizar fills defaults for zero values (filters built in code).
func (p *Paginacion) Normalizar() {
	if p.Pagina < 1 {
		p.Pagina = 1
	}
	if p.RegistrosPorPagina < 1 {
		p.RegistrosPorPagina = 20
	}
	if p.RegistrosPorPagina > 100 {
		p.RegistrosPorPagina = 100
	}
}

// Listado renders a page as {"<coleccion>": items, total, pagina, registros_por_pagina}.
func Listado(coleccion string, items any, total int64, p Paginacion) map[string]any {
	return map[string]any{
		coleccion:              items,
		"total":                total,
		"pagina":               p.Pagina,
		"registros_por_pagina": p.RegistrosPorPagina,
	}
}

// Acciones lists what the caller may do with a returned object.
type Acciones map[string]bool
