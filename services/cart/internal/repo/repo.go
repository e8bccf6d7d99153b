package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrQuantityLimit means the resulting quantity would pass the given ceiling.
var ErrQuantityLimit = errors.New("quantity limit")

type GormRepo struct {
	DB *gorm.DB
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
