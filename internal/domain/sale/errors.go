package sale

import "errors"

var (
	ErrSaleNotFound         = errors.New("sale not found")
	ErrSaleAlreadyCancelled = errors.New("sale already cancelled")
	ErrSaleHasNoDetail      = errors.New("sale has no industry detail record")
)
