package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AttributeFilters trait_type -> допустимые значения.
// Внутри трейта значения объединяются через OR, разные трейты через AND.
type AttributeFilters map[string][]string

// Normalize убирает пустые значения, дубликаты и трейты без значений
func (f AttributeFilters) Normalize() AttributeFilters {
	out := make(AttributeFilters, len(f))
	for trait, values := range f {
		if strings.TrimSpace(trait) == "" {
			continue
		}
		seen := make(map[string]struct{}, len(values))
		kept := make([]string, 0, len(values))
		for _, v := range values {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			kept = append(kept, v)
		}
		if len(kept) > 0 {
			out[trait] = kept
		}
	}
	return out
}

// Traits ключи в отсортированном порядке, чтобы SQL был детерминированным
func (f AttributeFilters) Traits() []string {
	traits := make([]string, 0, len(f))
	for trait := range f {
		traits = append(traits, trait)
	}
	sort.Strings(traits)
	return traits
}

// SortField поле сортировки из белого списка
type SortField string

const (
	SortByID   SortField = "id"
	SortByName SortField = "name"
)

// SortOrder разобранный параметр вида "<field>-<asc|desc>"
type SortOrder struct {
	Field      SortField
	Descending bool
}

// DefaultSort id-asc
var DefaultSort = SortOrder{Field: SortByID}

func (s SortOrder) String() string {
	dir := "asc"
	if s.Descending {
		dir = "desc"
	}
	return string(s.Field) + "-" + dir
}

// ParseSort разбирает сортировку. Пустая строка дает DefaultSort.
func ParseSort(raw string) (SortOrder, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return DefaultSort, nil
	}

	field, dir, found := strings.Cut(raw, "-")
	if !found {
		dir = "asc"
	}

	order := SortOrder{}
	switch SortField(field) {
	case SortByID, SortByName:
		order.Field = SortField(field)
	default:
		return SortOrder{}, fmt.Errorf("%w: unsupported sort field %q", ErrValidation, field)
	}

	switch dir {
	case "asc":
	case "desc":
		order.Descending = true
	default:
		return SortOrder{}, fmt.Errorf("%w: unsupported sort direction %q", ErrValidation, dir)
	}

	return order, nil
}

// ItemsQuery уже нормализованный запрос к хранилищу
type ItemsQuery struct {
	Table   string
	Page    int
	Limit   int
	Sort    SortOrder
	Filters AttributeFilters
}

// Offset (page-1)*limit
func (q ItemsQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ItemsRequest параметры как они пришли от клиента
type ItemsRequest struct {
	CollectionName string
	Page           int
	Limit          int
	Sort           string
	Filters        AttributeFilters
}
