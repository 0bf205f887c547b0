package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/pebble-records/pkg/models"
)

// ConfirmationDialog represents a yes/no confirmation dialog
type ConfirmationDialog struct {
	Title       string
	Message     string
	YesSelected bool
	OnConfirm   func() tea.Cmd
	OnCancel    func() tea.Cmd
}

// NewConfirmationDialog creates a new confirmation dialog
func NewConfirmationDialog(title, message string) ConfirmationDialog {
	return ConfirmationDialog{
		Title:       title,
		Message:     message,
		YesSelected: false,
	}
}

// Update handles confirmation dialog updates
func (d *ConfirmationDialog) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "y":
			d.YesSelected = true
			return nil
		case "right", "l", "n":
			d.YesSelected = false
			return nil
		case "enter":
			if d.YesSelected && d.OnConfirm != nil {
				return d.OnConfirm()
			}
			if !d.YesSelected && d.OnCancel != nil {
				return d.OnCancel()
			}
			return nil
		}
	}
	return nil
}

// View renders the confirmation dialog
func (d ConfirmationDialog) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n\n")
	b.WriteString(d.Message)
	b.WriteString("\n\n")

	yesButton := inactiveButtonStyle.Render("Yes")
	noButton := inactiveButtonStyle.Render("No")

	if d.YesSelected {
		yesButton = activeButtonStyle.Render("Yes")
	} else {
		noButton = activeButtonStyle.Render("No")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left, yesButton, "  ", noButton))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(FormatKey("←/→", "choose") + " • " + FormatKey("enter", "confirm") + " • " + FormatKey("esc", "back")))

	return boxStyle.Render(b.String())
}

// ProductItem is a catalog entry in the browse list
type ProductItem struct {
	Product models.Product
}

func (i ProductItem) FilterValue() string {
	return i.Product.Name + " " + i.Product.Category
}

func (i ProductItem) Title() string {
	return fmt.Sprintf("%s  %s", i.Product.Name, infoStyle.Render(fmt.Sprintf("$%.2f", i.Product.Price)))
}

func (i ProductItem) Description() string {
	stock := successStyle.Render("in stock")
	if !i.Product.InStock {
		stock = dangerStyle.Render("out of stock")
	}
	return mutedStyle.Render(i.Product.Category+" / "+i.Product.Subcategory+" • ") + stock
}

// ProductItemDelegate renders ProductItem entries
type ProductItemDelegate struct{}

func (d ProductItemDelegate) Height() int                             { return 2 }
func (d ProductItemDelegate) Spacing() int                            { return 1 }
func (d ProductItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d ProductItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ProductItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Title() + "\n  " + i.Description())
	} else {
		s = unselectedItemStyle.Render("  " + i.Title() + "\n  " + i.Description())
	}

	_, _ = fmt.Fprint(w, s)
}

// ProductView renders the details of one product
type ProductView struct {
	Product  models.Product
	MaxStock int
}

// View renders the product view
func (p ProductView) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.Product.Name))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(p.Product.Category + " / " + p.Product.Subcategory))
	b.WriteString("\n\n")
	b.WriteString(p.Product.Description)
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-8s", label)))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Price", infoStyle.Render(fmt.Sprintf("$%.2f", p.Product.Price)))
	if len(p.Product.Sizes) > 0 {
		row("Sizes", strings.Join(p.Product.Sizes, ", "))
	}
	if len(p.Product.Colors) > 0 {
		row("Colors", strings.Join(p.Product.Colors, ", "))
	}
	row("Stock", FormatProgressBar(p.Product.StockCount, p.MaxStock, 20))

	return activeBoxStyle.Render(b.String())
}

// LogView displays recent activity
type LogView struct {
	Logs   []string
	MaxLen int
}

// NewLogView creates a new log view
func NewLogView(maxLen int) LogView {
	return LogView{
		Logs:   make([]string, 0),
		MaxLen: maxLen,
	}
}

// AddLog adds a log entry
func (l *LogView) AddLog(entry string) {
	l.Logs = append(l.Logs, entry)
	if len(l.Logs) > l.MaxLen {
		l.Logs = l.Logs[1:]
	}
}

// View renders the log view
func (l LogView) View() string {
	if len(l.Logs) == 0 {
		return mutedStyle.Render("No activity")
	}

	var b strings.Builder
	for _, log := range l.Logs {
		b.WriteString(mutedStyle.Render("• "))
		b.WriteString(log)
		b.WriteString("\n")
	}

	return boxStyle.Render(b.String())
}
