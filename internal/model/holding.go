package model

type Holding struct {
	ID     int64
	Symbol string
	Shares int64
}
