package repository

import "errors"

// ErrBankNotFound для специализации и уровня сложности нет банка вопросов
var ErrBankNotFound = errors.New("question bank not found")
