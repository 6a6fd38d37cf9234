package service

import "errors"

var (
	ErrInvalidSymbol = errors.New("error invalid symbol")
	ErrInvalidShares = errors.New("error shares must be a positive integer")
	ErrPriceNotFound = errors.New("error price not found")
)
