package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Nombres de restricciones únicas del esquema.
const (
	constraintStockProductBranch = "stocks_product_branch_key"
	constraintMovementReference  = "stock_movements_reference_number_key"
)

// uniqueConstraint devuelve el nombre de la restricción violada, o "" si no es una violación única.
func uniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

// escapeLike escapa los comodines de LIKE para buscar el texto literal.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
