package domain

import "strconv"

// Attribute пара trait_type / value из payload предмета
type Attribute struct {
	TraitType string
	Value     string
}

// Item один предмет коллекции. Идентичность: (коллекция, ID).
type Item struct {
	ID             int64
	BaseName       string
	Description    string
	Image          string
	Lottie         string
	IsOnTelegram   bool
	IsOnBlockchain bool
	Attributes     []Attribute
}

// Name отображаемое имя вида "Plush Pepe #17"
func (i Item) Name() string {
	return i.BaseName + " #" + strconv.FormatInt(i.ID, 10)
}

// ItemsPage одна страница выдачи
type ItemsPage struct {
	Items      []Item
	TotalItems int
	Page       int
	TotalPages int
}

// TotalPagesFor ceil(total/limit), limit всегда >= 1
func TotalPagesFor(total, limit int) int {
	if limit < 1 {
		limit = 1
	}
	return (total + limit - 1) / limit
}
