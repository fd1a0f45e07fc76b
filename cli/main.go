package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#D9480F")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	lowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9f0a"))
)

const (
	viewMain      = "main"
	viewInventory = "inventory"
	viewOrders    = "orders"
	viewRestock   = "restock"
	viewBurger    = "burger"
	viewFries     = "fries"
	viewDrink     = "drink"
	viewMeal      = "meal"
)

// forms maps each input view to its title and help line.
var forms = map[string]struct{ title, help string }{
	viewRestock: {"Add Stock", "Format: <item name>,<quantity>   e.g. Buns,24 or Potato Fries,2.5"},
	viewBurger:  {"Burger Order", "Options: no:Lettuce,Tomatoes,Onion extra:Cheese=2,Patty   (empty = Standard)"},
	viewFries:   {"Fries Order", "Number of sets (1 set = 200g)"},
	viewDrink:   {"Drink Order", "Format: <drink>[,<quantity>]   e.g. Cola,2"},
	viewMeal:    {"Meal Order", "Format: <meal>,<drink>[,<quantity>]   e.g. Deluxe Meal,Mango,2"},
}

// Model defines the application state
type Model struct {
	mainMenu      list.Model
	inventoryView table.Model
	orderList     list.Model
	textInput     textinput.Model
	spinner       spinner.Model
	client        *ApiClient
	menu          *Menu
	summary       string
	loading       bool
	currentView   string
	status        string
	error         string
}

// item represents a list item
type item struct {
	title, desc string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

// orderItem represents an order in the list
type orderItem struct {
	id    uint
	title string
	desc  string
}

func (i orderItem) Title() string       { return i.title }
func (i orderItem) Description() string { return i.desc }
func (i orderItem) FilterValue() string { return i.title }

func initialModel(client *ApiClient) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "Inventory", desc: "View stock levels by category"},
		item{title: "Add Stock", desc: "Restock an ingredient or drink"},
		item{title: "Burger", desc: "Order a burger with opt-outs and extras"},
		item{title: "Fries", desc: "Order fries by the set"},
		item{title: "Drink", desc: "Order soft drinks"},
		item{title: "Meal", desc: "Order a meal bundle"},
		item{title: "Recent Orders", desc: "Show the order log"},
		item{title: "Exit", desc: "Exit the application"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "burgerstock cashier"

	columns := []table.Column{
		{Title: "Item", Width: 16},
		{Title: "Category", Width: 12},
		{Title: "Quantity", Width: 10},
		{Title: "Unit", Width: 8},
		{Title: "Reorder", Width: 8},
		{Title: "", Width: 4},
	}
	inventoryTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	orderList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	orderList.Title = "Recent Orders"

	ti := textinput.New()
	ti.CharLimit = 156
	ti.Width = 60

	return Model{
		mainMenu:      mainMenu,
		inventoryView: inventoryTable,
		orderList:     orderList,
		spinner:       s,
		textInput:     ti,
		client:        client,
		currentView:   viewMain,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen, fetchMenu(m.client))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.orderList.SetSize(msg.Width-h, msg.Height-v-2)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.inForm() {
				return m, tea.Quit
			}
		case "esc":
			if m.currentView != viewMain {
				m.currentView = viewMain
				m.textInput.Blur()
				return m, nil
			}
		case "r":
			if m.currentView == viewInventory {
				return m, fetchInventory(m.client)
			}
		case "enter":
			switch {
			case m.currentView == viewMain:
				return m.selectMenu()
			case m.inForm():
				return m, m.submit()
			}
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case menuMsg:
		m.menu = msg.menu
		return m, nil
	case inventoryMsg:
		m.loading = false
		m.inventoryView.SetRows(inventoryRows(msg.page.Items))
		m.summary = fmt.Sprintf("Total items: %d   Low stock: %d", msg.page.TotalItems, msg.page.LowStockCount)
		return m, nil
	case ordersMsg:
		m.loading = false
		m.orderList.SetItems(convertOrdersToItems(msg.orders))
		return m, nil
	case errorMsg:
		m.loading = false
		m.status = ""
		m.error = msg.err
		return m, nil
	case confirmMsg:
		m.loading = false
		m.error = ""
		m.status = msg.message
		m.textInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.currentView == viewMain:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case m.currentView == viewInventory:
		m.inventoryView, cmd = m.inventoryView.Update(msg)
	case m.currentView == viewOrders:
		m.orderList, cmd = m.orderList.Update(msg)
	case m.inForm():
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

func (m Model) inForm() bool {
	_, ok := forms[m.currentView]
	return ok
}

func (m Model) selectMenu() (tea.Model, tea.Cmd) {
	selected, ok := m.mainMenu.SelectedItem().(item)
	if !ok {
		return m, nil
	}
	m.error = ""
	m.status = ""

	switch selected.title {
	case "Exit":
		return m, tea.Quit
	case "Inventory":
		m.currentView = viewInventory
		m.loading = true
		return m, fetchInventory(m.client)
	case "Recent Orders":
		m.currentView = viewOrders
		m.loading = true
		return m, fetchOrders(m.client)
	default:
		m.currentView = map[string]string{
			"Add Stock": viewRestock,
			"Burger":    viewBurger,
			"Fries":     viewFries,
			"Drink":     viewDrink,
			"Meal":      viewMeal,
		}[selected.title]
		m.textInput.SetValue("")
		m.textInput.Placeholder = forms[m.currentView].help
		m.textInput.Focus()
		return m, textinput.Blink
	}
}

// submit turns the current form input into an API call.
func (m Model) submit() tea.Cmd {
	input := m.textInput.Value()
	client := m.client

	switch m.currentView {
	case viewRestock:
		name, qty, err := parseRestock(input)
		if err != nil {
			return fail(err)
		}
		return func() tea.Msg {
			message, err := client.Restock(name, qty)
			if err != nil {
				return errorMsg{err: err.Error()}
			}
			return confirmMsg{message: message}
		}
	case viewBurger:
		b, err := parseBurger(input)
		if err != nil {
			return fail(err)
		}
		return placeOrder(func() (*OrderResult, error) { return client.PlaceBurger(b) })
	case viewFries:
		sets, err := parseCount(input)
		if err != nil {
			return fail(err)
		}
		return placeOrder(func() (*OrderResult, error) { return client.PlaceFries(sets) })
	case viewDrink:
		name, qty, err := parseDrink(input)
		if err != nil {
			return fail(err)
		}
		return placeOrder(func() (*OrderResult, error) { return client.PlaceDrink(name, qty) })
	case viewMeal:
		meal, drink, qty, err := parseMeal(input)
		if err != nil {
			return fail(err)
		}
		return placeOrder(func() (*OrderResult, error) { return client.PlaceMeal(meal, drink, qty) })
	}
	return nil
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	switch m.currentView {
	case viewMain:
		return docStyle.Render(m.mainMenu.View())
	case viewInventory:
		b.WriteString(titleStyle.Render("Inventory") + "\n\n")
		if m.loading {
			b.WriteString(m.spinner.View() + " loading...\n")
		} else {
			b.WriteString(m.inventoryView.View() + "\n" + infoStyle.Render(m.summary) + "\n")
		}
		b.WriteString("\nPress 'r' to refresh, 'esc' to go back\n")
	case viewOrders:
		b.WriteString(m.orderList.View())
		b.WriteString("\nPress 'esc' to go back\n")
	default:
		form := forms[m.currentView]
		b.WriteString(titleStyle.Render(form.title) + "\n\n")
		b.WriteString(menuHint(m.currentView, m.menu))
		b.WriteString(m.textInput.View() + "\n\n")
		b.WriteString(form.help + "\nPress 'enter' to submit, 'esc' to go back\n")
	}

	if m.status != "" {
		b.WriteString("\n" + successStyle.Render(m.status) + "\n")
	}
	if m.error != "" {
		b.WriteString("\n" + errorStyle.Render(m.error) + "\n")
	}
	return docStyle.Render(b.String())
}

// menuHint lists the choices relevant to a form.
func menuHint(view string, menu *Menu) string {
	if menu == nil {
		return ""
	}
	switch view {
	case viewBurger:
		extras := make([]string, 0, len(menu.Extras))
		for _, e := range menu.Extras {
			extras = append(extras, e.Name)
		}
		return fmt.Sprintf("Optional: %s\nExtras: %s\n\n", strings.Join(menu.Optional, ", "), strings.Join(extras, ", "))
	case viewDrink:
		return fmt.Sprintf("Drinks: %s\n\n", strings.Join(menu.Drinks, ", "))
	case viewMeal:
		var lines []string
		for _, meal := range menu.Meals {
			lines = append(lines, fmt.Sprintf("%s: %d burger, %d fries set(s), %d drink(s)", meal.Name, meal.Burgers, meal.FriesSets, meal.Drinks))
		}
		return strings.Join(lines, "\n") + fmt.Sprintf("\nDrinks: %s\n\n", strings.Join(menu.Drinks, ", "))
	}
	return ""
}

// Custom message types for the tea.Model
type inventoryMsg struct {
	page *InventoryPage
}

type ordersMsg struct {
	orders []Order
}

type menuMsg struct {
	menu *Menu
}

type errorMsg struct {
	err string
}

type confirmMsg struct {
	message string
}

func fail(err error) tea.Cmd {
	return func() tea.Msg {
		return errorMsg{err: err.Error()}
	}
}

// fetchInventory retrieves stock from the API
func fetchInventory(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		page, err := client.GetInventory("")
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching inventory: %v", err)}
		}
		return inventoryMsg{page: page}
	}
}

// fetchOrders retrieves orders from the API
func fetchOrders(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		orders, err := client.GetOrders(50)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching orders: %v", err)}
		}
		return ordersMsg{orders: orders}
	}
}

func fetchMenu(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		menu, err := client.GetMenu()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching menu: %v", err)}
		}
		return menuMsg{menu: menu}
	}
}

func placeOrder(call func() (*OrderResult, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := call()
		if err != nil {
			return errorMsg{err: "Order failed: " + err.Error()}
		}
		return confirmMsg{message: res.Confirmation}
	}
}

func inventoryRows(items []StockItem) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		marker := ""
		if isLow(it) {
			marker = lowStyle.Render("LOW")
		}
		rows = append(rows, table.Row{it.Name, it.Category, it.Quantity, it.Unit, it.ReorderLevel, marker})
	}
	return rows
}

// convertOrdersToItems converts API orders to list items
func convertOrdersToItems(orders []Order) []list.Item {
	items := make([]list.Item, len(orders))
	for i, order := range orders {
		items[i] = orderItem{
			id:    order.ID,
			title: fmt.Sprintf("Order #%d (%s)", order.ID, order.OrderType),
			desc:  fmt.Sprintf("%s - %s", order.Customizations, order.CreatedAt.Local().Format("Jan 2 15:04:05")),
		}
	}
	return items
}

func main() {
	apiURL := flag.String("api", "", "burgerstock API base URL")
	flag.Parse()

	client := NewApiClient(*apiURL)
	if _, err := client.CheckHealth(); err != nil {
		fmt.Printf("Warning: API server at %s is not available: %v\n", client.BaseURL, err)
	}

	p := tea.NewProgram(initialModel(client))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}
