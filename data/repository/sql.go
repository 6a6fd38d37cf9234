package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/dbModel"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/jmoiron/sqlx"
)

// SQL keeps holdings in the portfolio table. Queries are written with ?
// placeholders and rebound for the driver the handle was opened with.
type SQL struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

func (r *SQL) InsertHolding(ctx context.Context, symbol string, shares int64) (holding model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SQL.InsertHolding"
	query := r.db.Rebind(`INSERT INTO portfolio (symbol, shares) VALUES (?, ?) RETURNING id`)

	slog.Debug("InsertHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query),
		slog.String("symbol", symbol), slog.Int64("shares", shares))
	defer func() {
		if err != nil {
			slog.Error("InsertHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertHolding completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", holding.ID))
		}
	}()

	var id int64
	err = r.db.QueryRowxContext(ctx, query, symbol, shares).Scan(&id)
	if err != nil {
		return model.Holding{}, err
	}

	return model.Holding{ID: id, Symbol: symbol, Shares: shares}, nil
}

// DeleteHolding reports whether a row was removed; a missing id is not an error.
func (r *SQL) DeleteHolding(ctx context.Context, id int64) (deleted bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SQL.DeleteHolding"
	query := r.db.Rebind(`DELETE FROM portfolio WHERE id = ?`)

	slog.Debug("DeleteHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Int64("id", id))
	defer func() {
		if err != nil {
			slog.Error("DeleteHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteHolding completed", slog.String("rqID", rqID), slog.String("op", op), slog.Bool("deleted", deleted))
		}
	}()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *SQL) GetHolding(ctx context.Context, id int64) (holding model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SQL.GetHolding"
	query := r.db.Rebind(`SELECT id, symbol, shares FROM portfolio WHERE id = ?`)

	slog.Debug("GetHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Int64("id", id))
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			slog.Error("GetHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHolding completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbHolding := dbModel.Holding{}
	err = r.db.QueryRowxContext(ctx, query, id).StructScan(&dbHolding)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Holding{}, ErrNotFound
		}
		return model.Holding{}, err
	}

	return dbConverter.ConvertHolding(dbHolding), nil
}

func (r *SQL) GetHoldings(ctx context.Context) (holdings []model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SQL.GetHoldings"
	query := `SELECT id, symbol, shares FROM portfolio ORDER BY id`

	slog.Debug("GetHoldings start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetHoldings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHoldings completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(holdings)))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	holdings = make([]model.Holding, 0)
	for rows.Next() {
		var dbHolding dbModel.Holding
		err = rows.StructScan(&dbHolding)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, dbConverter.ConvertHolding(dbHolding))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return holdings, nil
}
