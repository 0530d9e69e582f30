package csvparse_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/drepessoal/internal/importer/csvparse"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_CGDConta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR
Saldo disponível;1.000,00 EUR

Dados da consulta
Período;Últimos 90 dias
Intervalo de;01-01-2026 a 31-01-2026
Tipos de movimento;Todos

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2026, 1, 30), txs[0].Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", txs[0].Description)
	assert.Equal(t, int64(58874), txs[0].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	assert.Equal(t, date(2026, 1, 9), txs[1].Date)
	assert.Equal(t, "TFI Wise", txs[1].Description)
	assert.Equal(t, int64(860852), txs[1].Amount)
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
}

func TestParser_CGDExtrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0829015676030
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
NIF ;517948974
Conta ;0829015676030 - EUR - Conta Extracto
Intervalo de ;01-02-2026 a 14-02-2026
Tipos de movimento ;Todos
Saldo contabilístico Inicial ;48.825,46
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2026, 2, 13), txs[0].Date)
	assert.Equal(t, "PAGAMENTO TSU", txs[0].Description)
	assert.Equal(t, int64(60813), txs[0].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	assert.Equal(t, date(2026, 2, 4), txs[1].Date)
	assert.Equal(t, "TFI Wise", txs[1].Description)
	assert.Equal(t, int64(432406), txs[1].Amount)
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
}

func TestParser_CGDCartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
NIF ;517948974

Conta cartão ;4163 **** **** 8016 - EUR - Business Débito
Tipo de movimentos ;Conta à ordem
Desde ;15/12/2025

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ;47,91 ; ;
 ; ; ; ;Página 1/2 ;
`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, date(2025, 12, 16), txs[0].Date)
	assert.Equal(t, "PA GONDOMAR         GONDOMAR", txs[0].Description)
	assert.Equal(t, int64(6400), txs[0].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	assert.Equal(t, date(2025, 12, 31), txs[1].Date)
	assert.Equal(t, "UBER   *TRIP             HELP.UBER.COMNL", txs[1].Description)
	assert.Equal(t, int64(4791), txs[1].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[1].Type)
}

func TestParser_CGDCartaoCredit(t *testing.T) {
	csv := `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, int64(2500), txs[0].Amount)
	assert.Equal(t, transaction.TypeIncome, txs[0].Type)
}

func TestParser_CGDLatin1Encoding(t *testing.T) {
	utf8CSV := "Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"

	encoder := charmap.Windows1252.NewEncoder()
	latin1Bytes, err := encoder.Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "CAFÉ CENTRAL", txs[0].RawDescription)
}

func TestParser_CGDDifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
Montante;Descrição;Data mov.;Ignored
-10,00;TEST_ORDER;30-01-2026;XXX
`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "TEST_ORDER", txs[0].Description)
	assert.Equal(t, int64(1000), txs[0].Amount)
}

func TestParser_CGDEmptyFile(t *testing.T) {
	p := csvparse.NewParser(csvparse.CGD...)
	_, err := p.Parse(strings.NewReader(""))
	assert.Error(t, err)
	assert.ErrorIs(t, err, csvparse.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "cgd-conta")
}

func TestParser_CGDHeaderOnly(t *testing.T) {
	csv := `Data mov.;Data-valor;Descrição;Montante`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestParser_CGDMissingDescription(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;;-10,00
`

	p := csvparse.NewParser(csvparse.CGD...)
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestParser_CGDAllFieldsPopulated(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, transaction.StatusDraft, txs[0].Status)
	assert.Equal(t, "TEST", txs[0].RawDescription)
	assert.Equal(t, txs[0].Description, txs[0].RawDescription)
}

func TestParser_CGDLargeAmounts(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;BIG TRANSFER;-1.234.567,89
`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, int64(123456789), txs[0].Amount)
}

func TestParser_CGDSkipsFooterRows(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
Totais;;;;
`

	p := csvparse.NewParser(csvparse.CGD...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func TestParser_Nubank(t *testing.T) {
	csv := `date,title,amount
2025-10-05,Uber *Trip,23.45
2025-10-06,Pagamento recebido,-1500.00
2025-10-07,Mercado Livre,"1,234.90"
`

	p := csvparse.NewParser(csvparse.Brazil...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, date(2025, 10, 5), txs[0].Date)
	assert.Equal(t, "Uber *Trip", txs[0].Description)
	assert.Equal(t, int64(2345), txs[0].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	assert.Equal(t, int64(150000), txs[1].Amount)
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)

	assert.Equal(t, int64(123490), txs[2].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[2].Type)
}

func TestParser_BrazilianInvoice(t *testing.T) {
	csv := `Fatura Cartão Final 1234
Vencimento;15/12/2025

Data;Descrição;Valor
31/10/2025;PADARIA SÃO JOSÉ;R$ 18,90
03/11/2025;NETFLIX.COM;55,90
04/11/2025;ESTORNO NETFLIX.COM;-55,90
05/11/2025;LOJA (3/10);1.299,00
Total;;1.317,90
`

	p := csvparse.NewParser(csvparse.Brazil...)
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	assert.Equal(t, date(2025, 10, 31), txs[0].Date)
	assert.Equal(t, "PADARIA SÃO JOSÉ", txs[0].RawDescription)
	assert.Equal(t, int64(1890), txs[0].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	assert.Equal(t, transaction.TypeIncome, txs[2].Type)
	assert.Equal(t, int64(5590), txs[2].Amount)

	assert.Equal(t, int64(129900), txs[3].Amount)
}

func TestParser_BrazilianInvoiceLatin1(t *testing.T) {
	utf8CSV := "Data;Descrição;Valor\n02/11/2025;AÇOUGUE BOM PREÇO;87,35\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := csvparse.NewParser(csvparse.Brazil...)
	txs, err := p.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "AÇOUGUE BOM PREÇO", txs[0].Description)
	assert.Equal(t, int64(8735), txs[0].Amount)
}

func TestParser_CGDFileIsNotABrazilianInvoice(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
`

	p := csvparse.NewParser(csvparse.Brazil...)
	_, err := p.Parse(strings.NewReader(csv))
	assert.ErrorIs(t, err, csvparse.ErrUnknownFormat)
}
