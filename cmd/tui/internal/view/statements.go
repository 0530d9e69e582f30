package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
)

type statementsState int

const (
	statementsStateCards statementsState = iota
	statementsStateList
)

// StatementsModel browses the invoices of each card and records their payment.
type StatementsModel struct {
	CommonModel
	cardService      *card.Service
	statementService *statement.Service
	formatter        *billingcycle.Formatter

	state      statementsState
	cards      []*card.Card
	cardTable  table.Model
	current    *card.Card
	statements []*statement.Statement
	table      table.Model
	detail     bool

	loading bool
	status  string
}

func NewStatementsModel(cardSvc *card.Service, statementSvc *statement.Service, formatter *billingcycle.Formatter) StatementsModel {
	cardTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Card", Width: 24},
			{Title: "Closing", Width: 8},
			{Title: "Due", Width: 8},
			{Title: "Limit", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	cardTable.SetStyles(tableStyles())

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Invoice", Width: 20},
			{Title: "Closes", Width: 12},
			{Title: "Due", Width: 12},
			{Title: "Total", Width: 12},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	return StatementsModel{
		cardService:      cardSvc,
		statementService: statementSvc,
		formatter:        formatter,
		cardTable:        cardTable,
		table:            t,
		loading:          true,
	}
}

func (m StatementsModel) Title() string { return "Card Statements" }

func (m StatementsModel) ShortHelp() string {
	if m.state == statementsStateCards {
		return "Enter: open card | Esc: back"
	}

	return "Enter: entries | p: mark paid | u: undo payment | r: refresh | Esc: cards"
}

func (m StatementsModel) Init() tea.Cmd {
	return m.loadCardsCmd()
}

func (m StatementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCardsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.cards = msg.cards
		m.refreshCards()

		return m, nil

	case loadStatementsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.statements = msg.statements
		m.refreshStatements()

		return m, nil

	case paymentMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.done

		return m, m.loadStatementsCmd()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		if m.state == statementsStateCards {
			return m.updateCards(msg)
		}

		return m.updateStatements(msg)
	}

	return m, nil
}

func (m StatementsModel) updateCards(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, Back
	case "enter":
		idx := m.cardTable.Cursor()
		if idx < 0 || idx >= len(m.cards) {
			return m, nil
		}

		m.current = m.cards[idx]
		m.state = statementsStateList
		m.loading = true
		m.status = ""

		return m, m.loadStatementsCmd()
	}

	var cmd tea.Cmd
	m.cardTable, cmd = m.cardTable.Update(msg)

	return m, cmd
}

func (m StatementsModel) updateStatements(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = statementsStateCards
		m.current = nil
		m.detail = false
		m.status = ""

		return m, nil
	case "enter":
		m.detail = !m.detail
		return m, nil
	case "r":
		m.loading = true
		return m, m.loadStatementsCmd()
	case "p":
		if st := m.selected(); st != nil {
			return m, m.payCmd(st)
		}
	case "u":
		if st := m.selected(); st != nil {
			return m, m.unpayCmd(st)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m StatementsModel) selected() *statement.Statement {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.statements) {
		return nil
	}

	return m.statements[idx]
}

func (m *StatementsModel) refreshCards() {
	rows := make([]table.Row, 0, len(m.cards))
	for _, c := range m.cards {
		rows = append(rows, table.Row{
			c.Name,
			fmt.Sprintf("%d", c.ClosingDay),
			fmt.Sprintf("%d", c.DueDay),
			FormatAmount(c.LimitCents),
		})
	}

	m.cardTable.SetRows(rows)
}

func (m *StatementsModel) refreshStatements() {
	rows := make([]table.Row, 0, len(m.statements))
	for _, st := range m.statements {
		rows = append(rows, table.Row{
			m.formatter.InvoiceMonth(st.ReferenceMonth),
			st.ClosingDate.String(),
			m.formatter.DueDate(st.DueDate),
			FormatAmount(st.TotalCents),
			string(st.Status),
		})
	}

	m.table.SetRows(rows)
}

func (m StatementsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading...")
	}

	var content string

	switch m.state {
	case statementsStateCards:
		if len(m.cards) == 0 {
			content = "No cards registered yet."
		} else {
			content = "Select a card\n\n" + m.cardTable.View()
		}
	case statementsStateList:
		header := fmt.Sprintf("%s (closes on %d, due on %d)", activeStyle(m.current.Name), m.current.ClosingDay, m.current.DueDay)
		content = header + "\n\n" + m.table.View()

		if m.detail {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.detailView())
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + m.ShortHelp())
}

func (m StatementsModel) detailView() string {
	st := m.selected()
	if st == nil {
		return ""
	}

	var sb strings.Builder

	for _, tx := range st.Transactions {
		line := fmt.Sprintf("%s  %10s  %s", FormatDate(tx.Date), FormatSigned(tx), tx.Description)
		if tx.Installment != nil {
			line += "  " + tx.Installment.String()
		}

		sb.WriteString(line + "\n")
	}

	if st.PaidAt != nil {
		fmt.Fprintf(&sb, "\nPaid on %s", FormatDate(*st.PaidAt))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(sb.String())
}

// Messages

type loadCardsMsg struct {
	cards []*card.Card
	err   error
}

func (m StatementsModel) loadCardsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cards, err := m.cardService.List(ctx)

		return loadCardsMsg{cards: cards, err: err}
	}
}

type loadStatementsMsg struct {
	statements []*statement.Statement
	err        error
}

func (m StatementsModel) loadStatementsCmd() tea.Cmd {
	id := m.current.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		statements, err := m.statementService.List(ctx, id)

		return loadStatementsMsg{statements: statements, err: err}
	}
}

type paymentMsg struct {
	done string
	err  error
}

func (m StatementsModel) payCmd(st *statement.Statement) tea.Cmd {
	invoice := m.formatter.InvoiceMonth(st.ReferenceMonth)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.statementService.MarkPaid(ctx, st.CardID, st.ReferenceMonth, time.Now()); err != nil {
			return paymentMsg{err: err}
		}

		return paymentMsg{done: invoice + " marked as paid"}
	}
}

func (m StatementsModel) unpayCmd(st *statement.Statement) tea.Cmd {
	invoice := m.formatter.InvoiceMonth(st.ReferenceMonth)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.statementService.Unpay(ctx, st.CardID, st.ReferenceMonth)
		if errors.Is(err, statement.ErrNotPaid) {
			return paymentMsg{done: invoice + " has no payment"}
		}

		if err != nil {
			return paymentMsg{err: err}
		}

		return paymentMsg{done: invoice + " payment removed"}
	}
}
