package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/mowops-settlement/internal/model"
)

func TestGenerateWorkbook(t *testing.T) {
	promotions := []model.TierPromotion{
		{
			ID:           uuid.New(),
			ContractorID: uuid.New(),
			FromTier:     model.TierProbation,
			ToTier:       model.TierStandard,
			CreatedAt:    time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:           uuid.New(),
			ContractorID: uuid.New(),
			FromTier:     model.TierStandard,
			ToTier:       model.TierPremium,
			CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	content, err := NewGenerator().Generate(promotions)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	total, err := file.GetCellValue("Promotions", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	firstFrom, err := file.GetCellValue("Promotions", "B5")
	require.NoError(t, err)
	assert.Equal(t, "probation", firstFrom)

	secondTo, err := file.GetCellValue("Promotions", "C6")
	require.NoError(t, err)
	assert.Equal(t, "premium", secondTo)
}

func TestGenerateEmptyHistory(t *testing.T) {
	content, err := NewGenerator().Generate(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
