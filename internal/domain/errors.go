package domain

import "errors"

var (
	ErrSaleNotFound        = errors.New("flash sale not found")
	ErrItemNotFound        = errors.New("flash sale item not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrSaleNotActive   = errors.New("flash sale not active")
	ErrSaleNotEditable = errors.New("flash sale window can only change while scheduled")
	ErrSaleFinished    = errors.New("flash sale already finished")
	ErrReservationDone = errors.New("reservation already resolved")

	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLimitExceeded     = errors.New("per-user purchase limit exceeded")

	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrHolderRequired  = errors.New("holder id required")
	ErrInvalidWindow   = errors.New("start time must be before end time")
	ErrNameRequired    = errors.New("name required")
	ErrInvalidPrice    = errors.New("sale price must be positive and below regular price")
	ErrInvalidLimit    = errors.New("per-user limit must be positive")
	ErrDuplicateItem   = errors.New("product already in flash sale")
	ErrQuantityTooLow  = errors.New("total quantity below reserved plus sold")
	ErrInvalidID       = errors.New("invalid id")
)
