package domain

import (
	"strconv"
	"strings"
)

// AttributeStat частота одного значения трейта
type AttributeStat struct {
	Count      int
	Percentage string // два знака после точки, "50.00"
}

// AttributeDistribution trait_type -> value -> статистика
type AttributeDistribution map[string]map[string]AttributeStat

// AttributeTally накапливает частоты по мере сканирования коллекции.
// Не потокобезопасен.
type AttributeTally struct {
	counts map[string]map[string]int
	rows   int
}

func NewAttributeTally() *AttributeTally {
	return &AttributeTally{counts: make(map[string]map[string]int)}
}

// Add учитывает одну строку. Повтор трейта внутри одного предмета
// считается один раз, иначе сумма count могла бы превысить число строк.
func (t *AttributeTally) Add(attrs []Attribute) {
	t.rows++

	var seen map[string]struct{}
	for _, a := range attrs {
		if a.TraitType == "" {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{}, len(attrs))
		}
		if _, dup := seen[a.TraitType]; dup {
			continue
		}
		seen[a.TraitType] = struct{}{}

		values, ok := t.counts[a.TraitType]
		if !ok {
			values = make(map[string]int)
			t.counts[a.TraitType] = values
		}
		values[a.Value]++
	}
}

// Rows сколько строк просканировано
func (t *AttributeTally) Rows() int {
	return t.rows
}

// Distribution оставляет только трейты из priority (без учета регистра)
// и считает проценты от числа просканированных строк.
func (t *AttributeTally) Distribution(priority []string) AttributeDistribution {
	allowed := make(map[string]struct{}, len(priority))
	for _, p := range priority {
		allowed[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}

	denominator := t.rows
	if denominator == 0 {
		denominator = 1
	}

	dist := make(AttributeDistribution)
	for trait, values := range t.counts {
		if _, ok := allowed[strings.ToLower(trait)]; !ok {
			continue
		}
		stats := make(map[string]AttributeStat, len(values))
		for value, count := range values {
			stats[value] = AttributeStat{
				Count:      count,
				Percentage: FormatPercentage(count, denominator),
			}
		}
		dist[trait] = stats
	}
	return dist
}

// FormatPercentage count/total*100 с двумя знаками
func FormatPercentage(count, total int) string {
	if total <= 0 {
		total = 1
	}
	return strconv.FormatFloat(float64(count)/float64(total)*100, 'f', 2, 64)
}
