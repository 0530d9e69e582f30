package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/drepessoal/internal/categorize"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

// ReviewModel walks through imported drafts, categorising and confirming each one.
type ReviewModel struct {
	CommonModel
	txService       *transaction.Service
	categoryService *categorize.Service

	queue     []*transaction.Transaction
	currentTx *transaction.Transaction
	form      *huh.Form
	edit      *editFields
	suggested string

	status     string
	loading    bool
	totalCount int
}

func NewReviewModel(txSvc *transaction.Service, categorySvc *categorize.Service) ReviewModel {
	return ReviewModel{
		txService:       txSvc,
		categoryService: categorySvc,
		edit:            &editFields{},
		loading:         true,
	}
}

func (m ReviewModel) Title() string     { return "Review Drafts" }
func (m ReviewModel) ShortHelp() string { return "Enter: confirm & next | Esc: back" }

func (m ReviewModel) Init() tea.Cmd {
	return m.loadDraftsCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.loading {
			return m, nil
		}

	case loadDraftsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading drafts: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.totalCount = len(m.queue)
		cmd := m.nextTx()

		return m, cmd

	case saveResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		cmd := m.nextTx()

		return m, cmd
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.saveAndNextCmd()
	}

	return m, cmd
}

func (m ReviewModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading drafts...")
	}

	if m.currentTx == nil || m.form == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	invoice := "-"
	if m.currentTx.InvoiceMonth != nil {
		invoice = m.currentTx.InvoiceMonth.Key()
	}

	info := fmt.Sprintf(
		"Date:    %s\nType:    %s\nAmount:  %s\nInvoice: %s\nRaw:     %s\n",
		FormatDate(m.currentTx.Date),
		m.currentTx.Type,
		FormatAmount(m.currentTx.Amount),
		invoice,
		m.currentTx.RawDescription,
	)

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("%s\n\n%s\n%s\n\n(%s)", m.status, info, m.form.View(), m.ShortHelp()),
	)
}

// nextTx pops the next draft and prepares its form with the suggested category.
func (m *ReviewModel) nextTx() tea.Cmd {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.form = nil

		m.status = "No draft transactions found."
		if m.totalCount > 0 {
			m.status = "All done! No more drafts."
		}

		return nil
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]
	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)

	m.edit.description = m.currentTx.Description
	m.edit.category = m.currentTx.Category
	m.suggested = m.currentTx.Category

	if m.edit.category == "" && m.currentTx.RawDescription != "" {
		ctx, cancel := DbCtx()
		defer cancel()

		if suggested, err := m.categoryService.Suggest(ctx, m.currentTx.RawDescription); err == nil {
			m.edit.category = suggested
			m.suggested = suggested
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&m.edit.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}

					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(categorize.Categories...)...).
				Value(&m.edit.category),
		),
	).WithWidth(50).WithShowHelp(false)

	return m.form.Init()
}

type loadDraftsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ReviewModel) loadDraftsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, transaction.ListFilter{Status: new(transaction.StatusDraft)})

		return loadDraftsMsg{txs: txs, err: err}
	}
}

type saveResultMsg struct {
	err error
}

func (m ReviewModel) saveAndNextCmd() tea.Cmd {
	tx := m.currentTx
	desc := strings.TrimSpace(m.edit.description)
	category := m.edit.category
	learn := tx.RawDescription != "" && category != "" && category != m.suggested

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if learn {
			if err := m.categoryService.Learn(ctx, tx.RawDescription, category); err != nil {
				return saveResultMsg{err: err}
			}
		}

		tx.Description = desc
		tx.Category = category
		tx.Status = transaction.StatusConfirmed

		return saveResultMsg{err: m.txService.Update(ctx, tx)}
	}
}
