package repository

import "errors"

// 見つからないを統一（gorm.ErrRecordNotFoundはinfra側で変換する）
var ErrNotFound = errors.New("not found")
