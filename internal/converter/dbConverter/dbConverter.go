package dbConverter

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/dbModel"
)

func ConvertHolding(dbHolding dbModel.Holding) model.Holding {
	return model.Holding{
		ID:     dbHolding.ID,
		Symbol: dbHolding.Symbol,
		Shares: dbHolding.Shares,
	}
}
