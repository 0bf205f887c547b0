package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marshallshelly/pebble-records/pkg/models"
)

// BrowseMode represents the current screen of the catalog browser
type BrowseMode int

const (
	ModeLoading BrowseMode = iota
	ModeList
	ModeDetail
	ModeConfirm
	ModePlacing
	ModePlaced
	ModeError
)

// Catalog lists the products to browse.
type Catalog interface {
	List(ctx context.Context) ([]models.Product, error)
}

// AddressBook returns the actor's saved addresses.
type AddressBook interface {
	Addresses(ctx context.Context) ([]models.Address, error)
}

// Orders places orders for the actor.
type Orders interface {
	Create(ctx context.Context, draft models.OrderDraft) (models.Order, error)
}

// BrowseModel is the Bubbletea model for the catalog browser
type BrowseModel struct {
	ctx          context.Context
	mode         BrowseMode
	list         list.Model
	confirmation ConfirmationDialog
	logs         LogView
	err          error
	width        int
	height       int
	catalog      Catalog
	addresses    AddressBook
	orders       Orders
	selected     models.Product
	maxStock     int
	placed       models.Order
}

// NewBrowseModel creates a new catalog browser model
func NewBrowseModel(ctx context.Context, catalog Catalog, addresses AddressBook, orders Orders) BrowseModel {
	l := list.New([]list.Item{}, ProductItemDelegate{}, 0, 0)
	l.Title = "Catalog"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return BrowseModel{
		ctx:       ctx,
		mode:      ModeLoading,
		list:      l,
		logs:      NewLogView(5),
		catalog:   catalog,
		addresses: addresses,
		orders:    orders,
	}
}

// Mode returns the current screen.
func (m BrowseModel) Mode() BrowseMode {
	return m.mode
}

// Placed returns the last order placed from the browser.
func (m BrowseModel) Placed() models.Order {
	return m.placed
}

// Init loads the catalog
func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(
		loadCatalogCmd(m.ctx, m.catalog),
		tea.EnterAltScreen,
	)
}

// Messages
type catalogLoadedMsg struct {
	products []models.Product
}

type orderConfirmedMsg struct{}

type orderCancelledMsg struct{}

type orderPlacedMsg struct {
	order models.Order
}

type errorMsg struct {
	err error
}

// Commands
func loadCatalogCmd(ctx context.Context, catalog Catalog) tea.Cmd {
	return func() tea.Msg {
		products, err := catalog.List(ctx)
		if err != nil {
			return errorMsg{err: fmt.Errorf("failed to load catalog: %w", err)}
		}
		return catalogLoadedMsg{products: products}
	}
}

func placeOrderCmd(ctx context.Context, addresses AddressBook, orders Orders, p models.Product) tea.Cmd {
	return func() tea.Msg {
		saved, err := addresses.Addresses(ctx)
		if err != nil {
			return errorMsg{err: fmt.Errorf("failed to load addresses: %w", err)}
		}

		ship, _ := models.DefaultAddress(saved)

		order, err := orders.Create(ctx, models.DraftFor(p, 1, ship))
		if err != nil {
			return errorMsg{err: fmt.Errorf("failed to place order: %w", err)}
		}
		return orderPlacedMsg{order: order}
	}
}

// Update handles messages
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case catalogLoadedMsg:
		items := make([]list.Item, len(msg.products))
		m.maxStock = 0
		for i, p := range msg.products {
			items[i] = ProductItem{Product: p}
			if p.StockCount > m.maxStock {
				m.maxStock = p.StockCount
			}
		}
		m.mode = ModeList
		return m, m.list.SetItems(items)

	case orderConfirmedMsg:
		m.mode = ModePlacing
		m.logs.AddLog(infoStyle.Render("Placing order for " + m.selected.Name))
		return m, placeOrderCmd(m.ctx, m.addresses, m.orders, m.selected)

	case orderCancelledMsg:
		m.mode = ModeDetail
		return m, nil

	case orderPlacedMsg:
		m.placed = msg.order
		m.mode = ModePlaced
		m.logs.AddLog(successStyle.Render("✓ Placed " + msg.order.OrderNumber))
		return m, nil

	case errorMsg:
		m.mode = ModeError
		m.err = msg.err
		m.logs.AddLog(dangerStyle.Render("Failed: " + msg.err.Error()))
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeLoading, ModePlacing:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case ModeList:
			if m.list.FilterState() == list.Filtering {
				break
			}
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit

			case "enter", " ":
				item, ok := m.list.SelectedItem().(ProductItem)
				if !ok {
					return m, nil
				}
				m.selected = item.Product
				m.mode = ModeDetail
				return m, nil
			}

		case ModeDetail:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "backspace":
				m.mode = ModeList
				return m, nil
			case "o", "enter":
				if !m.selected.InStock {
					m.logs.AddLog(warningStyle.Render(m.selected.Name + " is out of stock"))
					return m, nil
				}
				m.confirmation = NewConfirmationDialog(
					"Place Order",
					fmt.Sprintf("Order 1 x %s for $%.2f?", m.selected.Name, m.selected.Price),
				)
				m.confirmation.OnConfirm = func() tea.Cmd {
					return func() tea.Msg { return orderConfirmedMsg{} }
				}
				m.confirmation.OnCancel = func() tea.Cmd {
					return func() tea.Msg { return orderCancelledMsg{} }
				}
				m.mode = ModeConfirm
				return m, nil
			}
			return m, nil

		case ModeConfirm:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "q":
				m.mode = ModeDetail
				return m, nil
			default:
				return m, m.confirmation.Update(msg)
			}

		case ModePlaced, ModeError:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "enter", "esc":
				m.mode = ModeList
				m.err = nil
				return m, nil
			}
			return m, nil
		}
	}

	// Update list
	if m.mode == ModeList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI
func (m BrowseModel) View() string {
	switch m.mode {
	case ModeLoading:
		return infoStyle.Render("Loading catalog...")

	case ModeList:
		help := helpStyle.Render(
			FormatKey("↑/↓", "navigate") + " • " +
				FormatKey("/", "filter") + " • " +
				FormatKey("enter", "details") + " • " +
				FormatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left,
			m.list.View(),
			help,
		)

	case ModeDetail:
		help := helpStyle.Render(
			FormatKey("o", "order") + " • " +
				FormatKey("esc", "back") + " • " +
				FormatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left,
			ProductView{Product: m.selected, MaxStock: m.maxStock}.View(),
			m.logs.View(),
			help,
		)

	case ModeConfirm:
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			m.confirmation.View(),
		)

	case ModePlacing:
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			lipgloss.JoinVertical(
				lipgloss.Left,
				infoStyle.Render("Placing order..."),
				"\n",
				m.logs.View(),
			),
		)

	case ModePlaced:
		msg := titleStyle.Render("Order Placed!") + "\n\n" +
			successStyle.Render(m.placed.OrderNumber) + "  " + FormatStatus(m.placed.Status) + "\n" +
			fmt.Sprintf("Total $%.2f", m.placed.Total) + "\n\n" +
			helpStyle.Render(FormatKey("enter", "back to catalog")+" • "+FormatKey("q", "quit"))

		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			boxStyle.Render(msg),
		)

	case ModeError:
		msg := titleStyle.Render("Something Went Wrong") + "\n\n" +
			errorStyle.Render(m.err.Error()) + "\n\n" +
			helpStyle.Render(FormatKey("enter", "back to catalog")+" • "+FormatKey("q", "quit"))

		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			boxStyle.Render(msg),
		)
	}

	return "Unknown mode"
}

// RunBrowseUI starts the interactive catalog browser
func RunBrowseUI(ctx context.Context, catalog Catalog, addresses AddressBook, orders Orders) error {
	p := tea.NewProgram(NewBrowseModel(ctx, catalog, addresses, orders), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
