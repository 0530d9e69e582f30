package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	"github.com/MrJamesThe3rd/drepessoal/internal/categorize"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

var errEmptyDescription = errors.New("description cannot be empty")

var (
	statusLabels = []string{"All", "Draft", "Confirmed"}
	periodLabels = []string{"All Time", "This Month", "Last Month"}
)

// ledgerFilter holds the cursor of each filter the list cycles through.
// card 0 means every account, n selects cards[n-1].
type ledgerFilter struct {
	status int
	period int
	card   int
}

func (f ledgerFilter) build(cards []*card.Card, now time.Time) transaction.ListFilter {
	var lf transaction.ListFilter

	switch f.status {
	case 1:
		lf.Status = new(transaction.StatusDraft)
	case 2:
		lf.Status = new(transaction.StatusConfirmed)
	}

	if f.period > 0 {
		month := billingcycle.MonthOf(now).AddMonths(1 - f.period)
		start := month.Time()
		end := month.Next().Time().Add(-time.Nanosecond)
		lf.StartDate = &start
		lf.EndDate = &end
	}

	if f.card > 0 && f.card <= len(cards) {
		lf.CardID = &cards[f.card-1].ID
	}

	return lf
}

func (f ledgerFilter) cardLabel(cards []*card.Card) string {
	if f.card > 0 && f.card <= len(cards) {
		return cards[f.card-1].Name
	}

	return "All"
}

type ledgerState int

const (
	ledgerBrowsing ledgerState = iota
	ledgerEditing
)

// editFields is shared by every copy of the model so huh can write into it.
type editFields struct {
	description string
	category    string
	confirmed   bool
}

type ListModel struct {
	CommonModel
	txService   *transaction.Service
	cardService *card.Service

	state  ledgerState
	table  table.Model
	txs    []*transaction.Transaction
	cards  []*card.Card
	form   *huh.Form
	edit   *editFields
	filter ledgerFilter

	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service, cardSvc *card.Service) ListModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Status", Width: 10},
			{Title: "Amount", Width: 10},
			{Title: "Category", Width: 14},
			{Title: "Invoice", Width: 9},
			{Title: "Description", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return ListModel{
		txService:   txSvc,
		cardService: cardSvc,
		table:       t,
		edit:        &editFields{},
		loading:     true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state == ledgerEditing {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | s: status | d: period | c: card | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.loadCardsCmd(), m.loadTxsCmd())
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.txs = msg.txs
			m.table.SetRows(ledgerRows(m.txs))
		}

		return m, nil

	case loadCardsMsg:
		if msg.err == nil {
			m.cards = msg.cards
		}

		return m, nil

	case listSaveMsg:
		m.status = "Saved"
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.closeForm()

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	if m.state == ledgerEditing {
		return m.updateForm(msg)
	}

	return m.updateTable(msg)
}

func (m ListModel) updateTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch key.String() {
	case "esc":
		return m, Back
	case "e":
		return m.openForm()
	case "r":
		m.loading = true
		return m, m.loadTxsCmd()
	case "s":
		m.filter.status = (m.filter.status + 1) % len(statusLabels)
		return m, m.loadTxsCmd()
	case "d":
		m.filter.period = (m.filter.period + 1) % len(periodLabels)
		return m, m.loadTxsCmd()
	case "c":
		m.filter.card = (m.filter.card + 1) % (len(m.cards) + 1)
		return m, m.loadTxsCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m ListModel) openForm() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	*m.edit = editFields{
		description: tx.Description,
		category:    tx.Category,
		confirmed:   tx.Status == transaction.StatusConfirmed,
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.edit.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errEmptyDescription
					}

					return nil
				}),
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(huh.NewOptions(categorize.Categories...)...).
				Value(&m.edit.category),
			huh.NewConfirm().
				Key("confirmed").
				Title("Confirmed?").
				Value(&m.edit.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerEditing
	m.table.Blur()

	return m, m.form.Init()
}

func (m *ListModel) closeForm() {
	m.state = ledgerBrowsing
	m.form = nil
	m.table.Focus()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Period: %s | [c] Card: %s",
		activeStyle(statusLabels[m.filter.status]),
		activeStyle(periodLabels[m.filter.period]),
		activeStyle(m.filter.cardLabel(m.cards)),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
		resultLine(m.txs),
	)

	if m.state == ledgerEditing && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.editPanel())
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) editPanel() string {
	raw := ""
	if tx := m.selected(); tx != nil {
		raw = tx.RawDescription
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(fmt.Sprintf("Edit Transaction\n\nOriginal: %s\n\n%s", raw, m.form.View()))
}

// resultLine sums the listed entries the way an income statement does:
// income minus expenses.
func resultLine(txs []*transaction.Transaction) string {
	income := lo.SumBy(txs, func(tx *transaction.Transaction) int64 {
		if tx.Type == transaction.TypeIncome {
			return tx.Amount
		}

		return 0
	})
	expenses := lo.SumBy(txs, func(tx *transaction.Transaction) int64 {
		if tx.Type == transaction.TypeExpense {
			return tx.Amount
		}

		return 0
	})

	return lipgloss.NewStyle().PaddingTop(1).Render(fmt.Sprintf(
		"Income %s | Expenses %s | Result %s",
		FormatAmount(income), FormatAmount(expenses), activeStyle(FormatAmount(income-expenses)),
	))
}

func ledgerRows(txs []*transaction.Transaction) []table.Row {
	return lo.Map(txs, func(tx *transaction.Transaction, _ int) table.Row {
		invoice := ""
		if tx.InvoiceMonth != nil {
			invoice = tx.InvoiceMonth.Key()
		}

		desc := tx.Description
		if tx.Installment != nil {
			desc += " (" + tx.Installment.String() + ")"
		}

		return table.Row{
			FormatDate(tx.Date),
			string(tx.Status),
			FormatSigned(tx),
			tx.Category,
			invoice,
			desc,
		}
	})
}

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

type listSaveMsg struct {
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter.build(m.cards, time.Now())

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadListMsg{txs: txs, err: err}
	}
}

func (m ListModel) loadCardsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cards, err := m.cardService.List(ctx)

		return loadCardsMsg{cards: cards, err: err}
	}
}

func (m ListModel) saveCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	edit := *m.edit

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated := *tx
		updated.Description = strings.TrimSpace(edit.description)
		updated.Category = edit.category

		updated.Status = transaction.StatusDraft
		if edit.confirmed {
			updated.Status = transaction.StatusConfirmed
		}

		return listSaveMsg{err: m.txService.Update(ctx, &updated)}
	}
}
