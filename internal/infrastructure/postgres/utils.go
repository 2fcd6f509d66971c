package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos de error de PostgreSQL que los adaptadores traducen a errores de dominio.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation indica si el error proviene de un constraint único.
func isUniqueViolation(err error) bool {
	return pgErrCode(err) == pgUniqueViolation
}

// isCheckViolation indica si el error proviene de un CHECK del esquema.
// Los CHECK de movimientos (identidad de instantáneas, stock no negativo,
// a lo sumo un origen) respaldan al registrador a nivel de base de datos.
func isCheckViolation(err error) bool {
	return pgErrCode(err) == pgCheckViolation
}
