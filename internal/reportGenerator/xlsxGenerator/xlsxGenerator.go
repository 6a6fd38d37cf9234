package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Portfolio"

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, valuation model.PortfolioValuation) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}
	f.SetActiveSheet(idx)

	if err = g.fillSheet(f, valuation); err != nil {
		slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSheet(f *excelize.File, valuation model.PortfolioValuation) error {
	err := f.MergeCell(SheetName, "A1", "G1")
	if err != nil {
		return err
	}

	_ = f.SetCellStr(SheetName, "A1", "Portfolio valuation")

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(SheetName, "A1", "A1", styleID); err != nil {
		return fmt.Errorf("apply title style: %w", err)
	}

	headers := []string{"id", "symbol", "shares", "price", "currency", "value", "status"}
	if err := f.SetSheetRow(SheetName, "A2", &headers); err != nil {
		return err
	}

	row := 3
	for _, h := range valuation.Holdings {
		_ = f.SetCellInt(SheetName, fmt.Sprintf("A%d", row), int(h.ID))
		_ = f.SetCellStr(SheetName, fmt.Sprintf("B%d", row), h.Symbol)
		_ = f.SetCellInt(SheetName, fmt.Sprintf("C%d", row), int(h.Shares))

		if h.Priced {
			_ = f.SetCellValue(SheetName, fmt.Sprintf("D%d", row), h.Price.InexactFloat64())
			_ = f.SetCellStr(SheetName, fmt.Sprintf("E%d", row), h.Currency)
			_ = f.SetCellValue(SheetName, fmt.Sprintf("F%d", row), h.Value.InexactFloat64())
			_ = f.SetCellStr(SheetName, fmt.Sprintf("G%d", row), "ok")
		} else {
			status := "unable to fetch price"
			if h.Err != nil {
				status = h.Err.Error()
			}
			_ = f.SetCellStr(SheetName, fmt.Sprintf("G%d", row), status)
		}
		row++
	}

	row++
	_ = f.SetCellStr(SheetName, fmt.Sprintf("E%d", row), "total")
	_ = f.SetCellValue(SheetName, fmt.Sprintf("F%d", row), valuation.Total.InexactFloat64())
	_ = f.SetCellStr(SheetName, fmt.Sprintf("G%d", row), fmt.Sprintf("%d of %d priced", valuation.PricedCount, len(valuation.Holdings)))

	return nil
}
