package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/mowops-settlement/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the tier-promotion history workbook: one summary block
// and one row per applied promotion.
func (g *Generator) Generate(promotions []model.TierPromotion) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Promotions"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Tier promotions")
	set("A2", "Total")
	set("B2", len(promotions))

	tableRow := 4
	set(fmt.Sprintf("A%d", tableRow), "Contractor")
	set(fmt.Sprintf("B%d", tableRow), "From")
	set(fmt.Sprintf("C%d", tableRow), "To")
	set(fmt.Sprintf("D%d", tableRow), "Promoted at")

	for i, promotion := range promotions {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), promotion.ContractorID.String())
		set(fmt.Sprintf("B%d", row), string(promotion.FromTier))
		set(fmt.Sprintf("C%d", row), string(promotion.ToTier))
		set(fmt.Sprintf("D%d", row), promotion.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "C", 12)
	_ = file.SetColWidth(sheet, "D", "D", 20)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
