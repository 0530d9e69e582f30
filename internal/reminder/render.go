package reminder

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

func render(st *statement.Statement, f *billingcycle.Formatter) Reminder {
	r := Reminder{
		CardID:           st.CardID,
		CardName:         st.CardName,
		ReferenceMonth:   st.ReferenceMonth,
		InvoiceMonth:     f.InvoiceMonth(st.ReferenceMonth),
		DueDate:          st.DueDate,
		DueDateFormatted: f.DueDate(st.DueDate),
		TotalCents:       st.TotalCents,
		Overdue:          st.Status == statement.StatusOverdue,
	}

	sep := decimalSeparator(f.Locale())

	state := "due"
	if r.Overdue {
		state = "OVERDUE"
	}

	r.Subject = fmt.Sprintf("[%s] %s %s: %s %s", state, r.CardName, r.InvoiceMonth, formatCents(r.TotalCents, sep), r.DueDateFormatted)

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s - %s\n", r.CardName, r.InvoiceMonth)
	fmt.Fprintf(&sb, "Due %s, total %s\n\n", r.DueDateFormatted, formatCents(r.TotalCents, sep))

	for _, tx := range st.Transactions {
		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s%s\n",
			tx.Date.Format("2006-01-02"), tx.Description, sign, formatCents(tx.Amount, sep), installmentSuffix(tx.Installment))
	}

	r.Body = sb.String()

	return r
}

func installmentSuffix(inst *transaction.Installment) string {
	if inst == nil {
		return ""
	}

	return " | " + inst.String()
}

func decimalSeparator(locale string) string {
	if strings.HasPrefix(locale, "en") {
		return "."
	}

	return ","
}

func formatCents(cents int64, sep string) string {
	s := decimal.New(cents, -2).StringFixed(2)

	return strings.Replace(s, ".", sep, 1)
}
