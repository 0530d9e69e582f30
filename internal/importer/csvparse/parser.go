// Package csvparse reads bank and card CSV exports into transaction params,
// recognising the export format by its header row.
package csvparse

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/drepessoal/internal/encoding"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

var ErrUnknownFormat = errors.New("no matching CSV format found")

var delimiters = []rune{';', ','}

// Parser matches a file against an ordered list of profiles. The first profile
// whose columns all appear in one row wins and that row becomes the header.
type Parser struct {
	profiles []Profile
}

func NewParser(profiles ...Profile) *Parser {
	return &Parser{profiles: profiles}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	for _, comma := range delimiters {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := p.detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("parsing statement", "profile", profile.Name, "charset", charset, "rows", len(rows)-headerIdx-1)

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	names := make([]string, len(p.profiles))
	for i, pr := range p.profiles {
		names[i] = pr.Name
	}

	return nil, fmt.Errorf("%w: expected columns for one of %s", ErrUnknownFormat, strings.Join(names, ", "))
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func (p *Parser) detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range p.profiles {
			if matchesProfile(&p.profiles[i], cols) {
				return &p.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var txs []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, txType, ok := extractAmount(p, cols, row)
		if !ok {
			continue
		}

		txs = append(txs, transaction.CreateParams{
			Amount:         amount,
			Type:           txType,
			Status:         transaction.StatusDraft,
			Description:    desc,
			RawDescription: desc,
			Date:           date,
		})
	}

	return txs, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func extractAmount(p *Profile, cols colIndex, row []string) (int64, transaction.Type, bool) {
	switch p.AmountMode {
	case AmountSingle:
		return singleAmount(row, cols[p.AmountCol], p.DecimalSep, p.ChargesPositive)
	case AmountSplit:
		return splitAmount(row, cols[p.DebitCol], cols[p.CreditCol], p.DecimalSep)
	}

	return 0, "", false
}

// singleAmount handles a single signed amount column. Bank accounts are negative
// on debit; card statements are positive on purchase.
func singleAmount(row []string, idx int, decimalSep rune, chargesPositive bool) (int64, transaction.Type, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, "", false
	}

	cents, err := parseAmount(s, decimalSep)
	if err != nil || cents == 0 {
		return 0, "", false
	}

	if chargesPositive {
		cents = -cents
	}

	if cents < 0 {
		return -cents, transaction.TypeExpense, true
	}

	return cents, transaction.TypeIncome, true
}

func splitAmount(row []string, debitIdx, creditIdx int, decimalSep rune) (int64, transaction.Type, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		cents, err := parseAmount(s, decimalSep)
		if err == nil && cents != 0 {
			return abs(cents), transaction.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		cents, err := parseAmount(s, decimalSep)
		if err == nil && cents != 0 {
			return abs(cents), transaction.TypeIncome, true
		}
	}

	return 0, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
