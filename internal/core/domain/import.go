package domain

import "strings"

// ImportedItem предмет, пришедший из конвейера импорта
type ImportedItem struct {
	Collection  string // отображаемое имя, таблица получается через ResolveTableName
	ID          int64
	Name        string
	Description string
	Image       string
	Lottie      string
	Attributes  []Attribute
}

// BaseName имя для base_name. name в событии необязателен, тогда берется
// имя коллекции, а без него имя, восстановленное из таблицы.
func (i ImportedItem) BaseName(table string) string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	if collection := strings.TrimSpace(i.Collection); collection != "" {
		return collection
	}
	return DisplayNameFromTable(table)
}

// ImportStats итог импорта пачки
type ImportStats struct {
	Tables   int
	Upserted int
}
