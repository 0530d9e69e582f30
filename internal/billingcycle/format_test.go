package billingcycle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
)

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "pt_BR"},
		{in: "pt_BR", want: "pt_BR"},
		{in: "pt-PT", want: "pt_PT"},
		{in: "pt", want: "pt_BR"},
		{in: "pt-AO", want: "pt_BR"},
		{in: "en-US", want: "en_US"},
		{in: "en_GB", want: "en_GB"},
		{in: "en", want: "en_US"},
		{in: "ja-JP", wantErr: true},
		{in: "!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := billingcycle.NewFormatter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Locale())
		})
	}
}

func TestFormatter_InvoiceMonth(t *testing.T) {
	en, err := billingcycle.NewFormatter("en_US")
	require.NoError(t, err)

	pt, err := billingcycle.NewFormatter("pt_BR")
	require.NoError(t, err)

	ref := mustMonth(t, "2025-10-01")

	assert.Equal(t, "October 2025", en.InvoiceMonth(ref))
	assert.Contains(t, strings.ToLower(pt.InvoiceMonth(ref)), "outubro")
	assert.Contains(t, pt.InvoiceMonth(ref), "2025")
}

func TestFormatter_DueDate(t *testing.T) {
	en, err := billingcycle.NewFormatter("en_US")
	require.NoError(t, err)

	pt, err := billingcycle.NewFormatter("pt_BR")
	require.NoError(t, err)

	due := mustDate(t, "2025-12-15")

	assert.Equal(t, "12/15/2025", en.DueDate(due))
	assert.Equal(t, "15/12/2025", pt.DueDate(due))
}

func TestFormatter_InvoiceInfo(t *testing.T) {
	f, err := billingcycle.NewFormatter("en_US")
	require.NoError(t, err)

	info := f.InvoiceInfo(mustDate(t, "2025-10-31"), 7, 15)

	assert.Equal(t, "2025-11-01", info.ReferenceMonth.String())
	assert.Equal(t, "2025-12-15", info.DueDate.String())
	assert.Equal(t, "November 2025", info.InvoiceMonth)
	assert.Equal(t, "12/15/2025", info.DueDateFormatted)

	// Same result as calling the operations one by one.
	ref := billingcycle.ReferenceMonth(mustDate(t, "2025-10-31"), 7)
	assert.Equal(t, ref, info.ReferenceMonth)
	assert.Equal(t, billingcycle.DueDate(ref, 15), info.DueDate)
	assert.Equal(t, f.InvoiceMonth(ref), info.InvoiceMonth)
}
