package catalogclient

// MaxItemsLimit предел страницы на стороне клиента
const MaxItemsLimit = 96

// DefaultItemsLimit размер страницы, если лимит не задан
const DefaultItemsLimit = 12

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type Item struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	BaseName       string      `json:"base_name"`
	Description    string      `json:"description"`
	Image          string      `json:"image"`
	Lottie         string      `json:"lottie"`
	IsOnTelegram   bool        `json:"isOnTelegram"`
	IsOnBlockchain bool        `json:"isOnBlockchain"`
	Attributes     []Attribute `json:"attributes"`
}

type ItemsPage struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"totalItems"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
}

type AttributeStat struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// Distribution trait_type -> value -> статистика
type Distribution map[string]map[string]AttributeStat

type Stats struct {
	TotalItems int `json:"totalItems"`
}

type CollectionInfo struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

type CollectionPage struct {
	GiftName   string `json:"giftName"`
	Items      []Item `json:"items"`
	TotalItems int    `json:"totalItems"`
	TotalPages int    `json:"totalPages"`
	Page       int    `json:"page"`
}

type CollectionData struct {
	CollectionData CollectionPage `json:"collectionData"`
	Attributes     Distribution   `json:"attributes"`
	Stats          Stats          `json:"stats"`
}

// Filters trait_type -> допустимые значения
type Filters map[string][]string

// ItemsParams параметры страницы. Нулевые значения означают значения по умолчанию.
type ItemsParams struct {
	GiftName string
	Page     int
	Limit    int
	Sort     string
	Filters  Filters
}

type CollectionDataParams struct {
	ItemsParams
	IncludeAttributes bool
}
