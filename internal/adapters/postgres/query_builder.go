package postgres

import (
	"fmt"
	"strings"

	"catalog-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// attributesArrayExpr массив атрибутов строки в той же форме, что видит
// decodeAttributes: старые выгрузки со строкой-массивом раскрываются,
// все остальное кроме массива считается пустым.
const attributesArrayExpr = "CASE jsonb_typeof(t.attributes) " +
	"WHEN 'array' THEN t.attributes " +
	"WHEN 'string' THEN CASE WHEN left(ltrim(t.attributes #>> '{}'), 1) = '[' " +
	"THEN (t.attributes #>> '{}')::jsonb ELSE '[]'::jsonb END " +
	"ELSE '[]'::jsonb END"

// Условие по одному трейту: в массиве есть элемент с trait_type = $trait и
// текстовым value из $values. value сравнивается как текст, поэтому числа
// и bool совпадают со своим строковым видом. Первый плейсхолдер values, второй trait.
const traitConditionTemplate = "EXISTS (SELECT 1 FROM jsonb_array_elements(" + attributesArrayExpr + ") AS a(elem) " +
	"WHERE a.elem->>'trait_type' = $%[2]d::text AND COALESCE(a.elem->>'value', '') = ANY($%[1]d::text[]))"

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addTraitCondition(trait string, values []string) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(traitConditionTemplate, qb.argId, qb.argId+1))
	qb.args = append(qb.args, values, trait)
	qb.argId += 2
}

// build возвращает WHERE (или пустую строку) и аргументы по порядку плейсхолдеров
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyFilters один и тот же результат идет в COUNT и в запрос страницы
func applyFilters(filters domain.AttributeFilters) (string, []interface{}) {
	qb := newQueryBuilder()
	for _, trait := range filters.Traits() {
		qb.addTraitCondition(trait, filters[trait])
	}
	return qb.build()
}

// orderByClause только поля из белого списка, id всегда последний ключ
func orderByClause(s domain.SortOrder) string {
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	switch s.Field {
	case domain.SortByName:
		return fmt.Sprintf("ORDER BY t.base_name %s, t.id %s", dir, dir)
	default:
		return fmt.Sprintf("ORDER BY t.id %s", dir)
	}
}

// tableIdentifier экранированное "schema"."table"
func tableIdentifier(schema, table string) string {
	if schema == "" {
		return pgx.Identifier{table}.Sanitize()
	}
	return pgx.Identifier{schema, table}.Sanitize()
}
