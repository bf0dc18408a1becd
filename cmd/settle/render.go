package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/money"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).PaddingTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
	debtStyle   = amountStyle.Foreground(lipgloss.Color("203"))
	creditStyle = amountStyle.Foreground(lipgloss.Color("78"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// formatter renders minor units as locale-formatted decimals.
type formatter struct {
	p *message.Printer
}

func newFormatter(tag language.Tag) formatter {
	return formatter{p: message.NewPrinter(tag)}
}

func (f formatter) amount(m money.Money) string {
	return f.p.Sprint(number.Decimal(m.Decimal().InexactFloat64(), number.Scale(money.Exponent)))
}

func render(result *calculator.Result, tag language.Tag) string {
	f := newFormatter(tag)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Total: "+f.amount(result.Total)) + "\n")

	balances := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Participant", "Owes", "Paid", "Net").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || row >= len(result.Balances):
				return cellStyle
			case col == 3 && result.Balances[row].Net < 0:
				return debtStyle
			case col == 3 && result.Balances[row].Net > 0:
				return creditStyle
			default:
				return amountStyle
			}
		})
	for _, bal := range result.Balances {
		balances.Row(bal.ParticipantID, f.amount(bal.Owed), f.amount(bal.Paid), f.amount(bal.Net))
	}
	b.WriteString(balances.Render() + "\n")

	if len(result.Transfers) == 0 {
		b.WriteString(titleStyle.Render("Everyone is settled up.") + "\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render("Transfers") + "\n")
	transfers := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("From", "To", "Amount").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return amountStyle
			default:
				return cellStyle
			}
		})
	for _, t := range result.Transfers {
		transfers.Row(t.From, t.To, f.amount(t.Amount))
	}
	b.WriteString(transfers.Render() + "\n")

	return b.String()
}
