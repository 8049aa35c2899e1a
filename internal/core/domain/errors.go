package domain

import "errors"

var (
	// ErrCollectionNotFound коллекции (таблицы) с таким именем нет в хранилище
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrValidation некорректные параметры запроса
	ErrValidation = errors.New("validation error")
)
