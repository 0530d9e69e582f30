package view

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
)

var errInvalidDay = errors.New("enter a day between 1 and 31")

// CalculatorModel answers which invoice a purchase lands on and when it is due.
type CalculatorModel struct {
	CommonModel
	formatter *billingcycle.Formatter

	form   *huh.Form
	input  *calcInput
	result *billingcycle.Info
}

// calcInput lives on the heap so the form bindings survive model copies.
type calcInput struct {
	purchase   string
	closingDay string
	dueDay     string
}

func NewCalculatorModel(formatter *billingcycle.Formatter) CalculatorModel {
	m := CalculatorModel{
		formatter: formatter,
		input:     &calcInput{purchase: time.Now().Format(time.DateOnly)},
	}
	m.form = m.newForm()

	return m
}

func (m CalculatorModel) Title() string { return "Invoice Calculator" }

func (m CalculatorModel) ShortHelp() string {
	if m.result != nil {
		return "n: new calculation | Esc: back"
	}

	return "Enter: next | Esc: back"
}

func (m CalculatorModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("purchase_date").
				Title("Purchase date").
				Placeholder("YYYY-MM-DD").
				Value(&m.input.purchase).
				Validate(func(s string) error {
					_, err := billingcycle.ParseDate(s)
					return err
				}),
			huh.NewInput().
				Key("closing_day").
				Title("Closing day").
				Placeholder("1-31").
				Value(&m.input.closingDay).
				Validate(validateDay),
			huh.NewInput().
				Key("due_day").
				Title("Due day").
				Placeholder("1-31").
				Value(&m.input.dueDay).
				Validate(validateDay),
		),
	).WithWidth(40).WithShowHelp(false)
}

func validateDay(s string) error {
	day, err := strconv.Atoi(s)
	if err != nil || !billingcycle.IsValidDay(day) {
		return errInvalidDay
	}

	return nil
}

func (m CalculatorModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			if m.result != nil {
				m.result = nil
				m.form = m.newForm()

				return m, m.form.Init()
			}
		}
	}

	if m.result != nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.result = m.calculate()
	}

	return m, cmd
}

func (m CalculatorModel) calculate() *billingcycle.Info {
	purchase, err := billingcycle.ParseDate(m.input.purchase)
	if err != nil {
		return nil
	}

	closingDay, _ := strconv.Atoi(m.input.closingDay)
	dueDay, _ := strconv.Atoi(m.input.dueDay)
	info := m.formatter.InvoiceInfo(purchase, closingDay, dueDay)

	return &info
}

func (m CalculatorModel) View() string {
	if m.result == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.Title() + "\n\n" + m.form.View())
	}

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s\n\nPurchase on %s, closing day %s, due day %s\n\nInvoice:  %s (%s)\nDue date: %s\n\n(%s)",
		m.Title(),
		m.input.purchase, m.input.closingDay, m.input.dueDay,
		activeStyle(m.result.InvoiceMonth), m.result.ReferenceMonth.Key(),
		activeStyle(m.result.DueDateFormatted),
		m.ShortHelp(),
	))
}
