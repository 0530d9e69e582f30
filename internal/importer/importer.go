package importer

import (
	"io"

	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

type Bank string

const (
	BankCGD    Bank = "cgd"
	BankBrazil Bank = "br"
)

type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
