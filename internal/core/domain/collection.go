package domain

// CollectionInfo строка листинга коллекций
type CollectionInfo struct {
	Name  string
	Table string
	Total int
}

// CollectionStats сводка по коллекции
type CollectionStats struct {
	TotalItems int
}

// CollectionDataRequest вход композитного запроса
type CollectionDataRequest struct {
	ItemsRequest
	IncludeAttributes bool
}

// CollectionData результат композитного запроса.
// Attributes nil, если атрибуты не запрашивались.
type CollectionData struct {
	GiftName   string
	Page       *ItemsPage
	Attributes AttributeDistribution
	Stats      CollectionStats
}
