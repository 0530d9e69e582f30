package csvparse

// AmountMode determines how amounts are extracted from a row.
type AmountMode int

const (
	// AmountSingle means one signed column (e.g. "Montante" with value "-10,00").
	AmountSingle AmountMode = iota
	// AmountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	AmountSplit
)

// Profile describes the column layout of one CSV export format.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode AmountMode
	AmountCol  string // used when AmountMode == AmountSingle
	DebitCol   string // used when AmountMode == AmountSplit
	CreditCol  string // used when AmountMode == AmountSplit
	DateLayout string
	DecimalSep rune
	// ChargesPositive is set for card statements, where a positive amount is a
	// purchase and a negative one a refund or payment.
	ChargesPositive bool
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case AmountSingle:
		cols = append(cols, p.AmountCol)
	case AmountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// CGD lists the Caixa Geral de Depósitos export formats. More specific profiles come first.
var CGD = []Profile{
	{
		Name:       "cgd-cartao",
		DateCol:    "Data",
		DescCol:    "Descrição",
		AmountMode: AmountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
		DateLayout: "02-01-2006",
		DecimalSep: ',',
	},
	{
		Name:       "cgd-extrato",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: AmountSingle,
		AmountCol:  "Movimento",
		DateLayout: "02-01-2006",
		DecimalSep: ',',
	},
	{
		Name:       "cgd-conta",
		DateCol:    "Data mov.",
		DescCol:    "Descrição",
		AmountMode: AmountSingle,
		AmountCol:  "Montante",
		DateLayout: "02-01-2006",
		DecimalSep: ',',
	},
}

// Brazil lists Brazilian card statement exports.
var Brazil = []Profile{
	{
		Name:            "nubank",
		DateCol:         "date",
		DescCol:         "title",
		AmountMode:      AmountSingle,
		AmountCol:       "amount",
		DateLayout:      "2006-01-02",
		DecimalSep:      '.',
		ChargesPositive: true,
	},
	{
		Name:            "fatura",
		DateCol:         "Data",
		DescCol:         "Descrição",
		AmountMode:      AmountSingle,
		AmountCol:       "Valor",
		DateLayout:      "02/01/2006",
		DecimalSep:      ',',
		ChargesPositive: true,
	},
}
