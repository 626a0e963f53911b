// Package ingest parses bank statement exports into transactions.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/models"
)

// DateLayout is the statement date format, month first.
const DateLayout = "01/02/2006"

// minColumns is the number of columns a statement row must carry:
// date, amount, two ignored columns, merchant details.
const minColumns = 5

// ParseCSV reads a headerless statement export. Blank lines are skipped and
// the first malformed row aborts the parse with an INVALID_CSV error naming
// its line. Parsed transactions are untagged and carry no user.
func ParseCSV(r io.Reader) ([]models.Transaction, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true

	var txns []models.Transaction
	for {
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, invalid(parseErr.StartLine, parseErr.Err.Error())
			}
			return nil, apperrors.Wrap(apperrors.ErrInvalidCSV, err)
		}
		line, _ := csvr.FieldPos(0)

		tx, err := parseRow(rec)
		if err != nil {
			return nil, invalid(line, err.Error())
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

func parseRow(rec []string) (models.Transaction, error) {
	if len(rec) < minColumns {
		return models.Transaction{}, fmt.Errorf("expected %d columns, got %d", minColumns, len(rec))
	}
	date, err := time.ParseInLocation(DateLayout, clean(rec[0]), time.UTC)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("date %q is not MM/DD/YYYY", clean(rec[0]))
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(clean(rec[1]), "$", ""))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("amount %q is not a number", clean(rec[1]))
	}
	return models.Transaction{
		Date:            date,
		Amount:          amount,
		MerchantDetails: clean(rec[4]),
	}, nil
}

// clean strips surrounding whitespace and stray quotes.
func clean(s string) string {
	return strings.Trim(s, "\" \t")
}

func invalid(line int, reason string) error {
	return apperrors.WithMessage(apperrors.ErrInvalidCSV, fmt.Sprintf("line %d: %s", line, reason))
}
