package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
)

func TestParseCSV(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		`"03/14/2024","-45.10","*","","WHOLE FOODS #123"`,
		``,
		`03/15/2024, 1500.00, *, , PAYROLL ACME`,
		`"03/16/2024","-3.5","","","COFFEE, ""THE"" SHOP"`,
	}, "\n")

	txns, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, "-45.1", txns[0].Amount.String())
	assert.Equal(t, "WHOLE FOODS #123", txns[0].MerchantDetails)
	assert.Nil(t, txns[0].CategoryID)

	assert.True(t, txns[1].IsIncome())
	assert.Equal(t, "PAYROLL ACME", txns[1].MerchantDetails)

	assert.True(t, txns[2].IsExpense())
	assert.Equal(t, `COFFEE, "THE" SHOP`, txns[2].MerchantDetails)
}

func TestParseCSVEmpty(t *testing.T) {
	t.Parallel()

	txns, err := ParseCSV(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestParseCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		message string
	}{
		{
			name:    "too_few_columns",
			data:    "03/14/2024,-1.00,x,y,shop\n03/15/2024,-2.00\n",
			message: "line 2: expected 5 columns, got 2",
		},
		{
			name:    "day_first_date",
			data:    "14/03/2024,-1.00,,,shop\n",
			message: `line 1: date "14/03/2024" is not MM/DD/YYYY`,
		},
		{
			name:    "bad_amount",
			data:    "\n03/14/2024,twelve,,,shop\n",
			message: `line 2: amount "twelve" is not a number`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseCSV(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidCSV))

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}
