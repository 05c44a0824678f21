package repository

import "errors"

var ErrNotFound = errors.New("запись не найдена")
var ErrVersionConflict = errors.New("конфликт версий")
var ErrDuplicate = errors.New("запись уже существует")
var ErrCapacityReached = errors.New("достигнут лимит волонтёров")
