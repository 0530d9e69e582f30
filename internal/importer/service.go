package importer

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/importer/csvparse"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

type Service struct {
	importers map[Bank]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Bank]Importer{
			BankCGD:    csvparse.NewParser(csvparse.CGD...),
			BankBrazil: csvparse.NewParser(csvparse.Brazil...),
		},
	}
}

// Import parses a statement export. When cardID is set every entry is assigned to that
// card, so the transaction service bills it on the right invoice.
func (s *Service) Import(bank Bank, r io.Reader, cardID *uuid.UUID) ([]transaction.CreateParams, error) {
	importer, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	for i := range params {
		params[i].CardID = cardID
	}

	return params, nil
}
