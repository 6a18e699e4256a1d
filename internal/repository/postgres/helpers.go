package postgres

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// requireAffected возвращает notFound, если запрос не затронул ни одной строки
func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

// pqArray оборачивает срез строк для передачи в ANY($n)
func pqArray(values []string) driver.Valuer {
	return pq.Array(values)
}

// orderClause строит ORDER BY по белому списку колонок.
// Неизвестные колонки и направления молча заменяются значениями по умолчанию.
func orderClause(orderBy, orderDir *string, defaultColumn string, allowed map[string]bool) string {
	column := defaultColumn
	if orderBy != nil && allowed[*orderBy] {
		column = *orderBy
	}
	direction := "ASC"
	if orderDir != nil && strings.EqualFold(*orderDir, "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// appendLimitOffset добавляет пагинацию к запросу
func appendLimitOffset(query string, args []interface{}, limit, offset int) (string, []interface{}) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}
