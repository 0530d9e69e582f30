package billingcycle

import (
	"fmt"
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "pt_BR"

type localeLayout struct {
	locale monday.Locale
	month  string
	date   string
}

// layouts is keyed by base language; the first entry for a language is its default region.
var layouts = map[string][]localeLayout{
	"pt": {
		{locale: monday.LocalePtBR, month: "January de 2006", date: "02/01/2006"},
		{locale: monday.LocalePtPT, month: "January de 2006", date: "02/01/2006"},
	},
	"en": {
		{locale: monday.LocaleEnUS, month: "January 2006", date: "01/02/2006"},
		{locale: monday.LocaleEnGB, month: "January 2006", date: "02/01/2006"},
	},
	"es": {
		{locale: monday.LocaleEsES, month: "January de 2006", date: "02/01/2006"},
	},
}

// Formatter renders invoice months and due dates for display in one locale.
type Formatter struct {
	l localeLayout
}

// NewFormatter accepts BCP 47 or POSIX style tags ("pt-BR", "pt_BR", "en").
func NewFormatter(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	base, _ := tag.Base()

	candidates, ok := layouts[base.String()]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}

	l := candidates[0]

	if region, conf := tag.Region(); conf == language.Exact {
		want := monday.Locale(base.String() + "_" + region.String())
		for _, c := range candidates {
			if c.locale == want {
				l = c
				break
			}
		}
	}

	return &Formatter{l: l}, nil
}

// Locale returns the resolved locale, e.g. "pt_BR".
func (f *Formatter) Locale() string {
	return string(f.l.locale)
}

// InvoiceMonth renders ref as long month name and four-digit year.
func (f *Formatter) InvoiceMonth(ref Month) string {
	return monday.Format(ref.Time(), f.l.month, f.l.locale)
}

// DueDate renders d as a locale short date. Unclamped days are shown normalised.
func (f *Formatter) DueDate(d Date) string {
	return monday.Format(d.Time(), f.l.date, f.l.locale)
}

// Info is the full invoice placement of a single purchase.
type Info struct {
	ReferenceMonth   Month  `json:"reference_month"`
	DueDate          Date   `json:"due_date"`
	InvoiceMonth     string `json:"invoice_month"`
	DueDateFormatted string `json:"due_date_formatted"`
}

// InvoiceInfo composes ReferenceMonth, DueDate and the two formatters.
func (f *Formatter) InvoiceInfo(purchase Date, closingDay, dueDay int) Info {
	ref := ReferenceMonth(purchase, closingDay)
	due := DueDate(ref, dueDay)

	return Info{
		ReferenceMonth:   ref,
		DueDate:          due,
		InvoiceMonth:     f.InvoiceMonth(ref),
		DueDateFormatted: f.DueDate(due),
	}
}
