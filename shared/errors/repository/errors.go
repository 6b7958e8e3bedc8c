package repository

import "errors"

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyExists    = errors.New("order already exists")
	ErrDetailNotFound        = errors.New("order detail not found")
	ErrIcebergDetailNotFound = errors.New("iceberg detail not found")
	ErrCoverDetailNotFound   = errors.New("cover order detail not found")
	ErrLegNotFound           = errors.New("iceberg leg not found")
	ErrFundsNotFound         = errors.New("user funds not found")
	ErrInstrumentNotFound    = errors.New("instrument not found")
	ErrPriceCacheMiss        = errors.New("price cache miss")
	ErrSerialization         = errors.New("transaction serialization failure")
)
