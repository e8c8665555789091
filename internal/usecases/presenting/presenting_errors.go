package presenting

import "errors"

// Erros de seleção do mês
var (
	ErrInvalidMonth  = errors.New("invalid month, expected YYYY-MM")
	ErrMonthNotFound = errors.New("month not found in dataset")
)
