package main

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/drepessoal/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	cardStore "github.com/MrJamesThe3rd/drepessoal/internal/card/store"
	"github.com/MrJamesThe3rd/drepessoal/internal/categorize"
	categorizeStore "github.com/MrJamesThe3rd/drepessoal/internal/categorize/store"
	"github.com/MrJamesThe3rd/drepessoal/internal/config"
	"github.com/MrJamesThe3rd/drepessoal/internal/database"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
	statementStore "github.com/MrJamesThe3rd/drepessoal/internal/statement/store"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
	txStore "github.com/MrJamesThe3rd/drepessoal/internal/transaction/store"
)

type model struct {
	formatter        *billingcycle.Formatter
	cardService      *card.Service
	txService        *transaction.Service
	statementService *statement.Service
	categoryService  *categorize.Service

	currentView View

	calculatorView view.CalculatorModel
	statementsView view.StatementsModel
	listView       view.ListModel
	reviewView     view.ReviewModel
}

type View int

const (
	ViewMenu       View = 0
	ViewCalculator View = 1
	ViewStatements View = 2
	ViewList       View = 3
	ViewReview     View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	formatter, err := billingcycle.NewFormatter(cfg.App.Locale)
	if err != nil {
		slog.Error("invalid locale", "locale", cfg.App.Locale, "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	cardSvc := card.NewService(cardStore.New(db))
	txSvc := transaction.NewService(txStore.New(db), cardSvc)
	statementSvc := statement.NewService(statementStore.New(db), cardSvc, txSvc, time.Now)
	categorySvc := categorize.NewService(categorizeStore.New(db))

	return model{
		formatter:        formatter,
		cardService:      cardSvc,
		txService:        txSvc,
		statementService: statementSvc,
		categoryService:  categorySvc,
		currentView:      ViewMenu,
		calculatorView:   view.NewCalculatorModel(formatter),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCalculator
				m.calculatorView = view.NewCalculatorModel(m.formatter)

				return m, m.calculatorView.Init()
			case "2":
				m.currentView = ViewStatements
				m.statementsView = view.NewStatementsModel(m.cardService, m.statementService, m.formatter)

				return m, m.statementsView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.txService, m.cardService)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.txService, m.categoryService)

				return m, m.reviewView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCalculator:
		var newModel tea.Model
		newModel, cmd = m.calculatorView.Update(msg)
		m.calculatorView = newModel.(view.CalculatorModel)
	case ViewStatements:
		var newModel tea.Model
		newModel, cmd = m.statementsView.Update(msg)
		m.statementsView = newModel.(view.StatementsModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"DRE Pessoal\n\n" +
				"1. Invoice Calculator\n" +
				"2. Card Statements\n" +
				"3. Transactions\n" +
				"4. Review Drafts\n\n" +
				"q. Quit",
		)
	case ViewCalculator:
		return m.calculatorView.View()
	case ViewStatements:
		return m.statementsView.View()
	case ViewList:
		return m.listView.View()
	case ViewReview:
		return m.reviewView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
