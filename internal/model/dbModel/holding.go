package dbModel

type Holding struct {
	ID     int64  `db:"id"`
	Symbol string `db:"symbol"`
	Shares int64  `db:"shares"`
}
