// Package categorize suggests DRE categories for transactions from learned description patterns.
package categorize

import (
	"errors"
	"slices"
)

var (
	ErrEmptyPattern    = errors.New("pattern must not be empty")
	ErrUnknownCategory = errors.New("unknown category")
)

// Categories are the lines of the personal income statement, revenue first.
var Categories = []string{
	"salario",
	"renda_extra",
	"investimentos",
	"moradia",
	"alimentacao",
	"transporte",
	"saude",
	"educacao",
	"lazer",
	"vestuario",
	"servicos",
	"impostos",
	"outros",
}

func IsCategory(c string) bool {
	return slices.Contains(Categories, c)
}
