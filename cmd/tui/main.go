package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/auth"
	authStore "github.com/MrJamesThe3rd/tally/internal/auth/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/tally/internal/expense/store"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/tally/internal/matching/store"
)

type model struct {
	authService     *auth.Service
	expenseService  *expense.Service
	matchingService *matching.Service
	importService   *importer.Service
	exportService   *export.Service

	session     *auth.Session
	currentView View

	loginView    view.LoginModel
	importView   view.ImportModel
	expensesView view.ExpensesModel
	reviewView   view.ReviewModel
	summaryView  view.SummaryModel
	exportView   view.ExportModel
}

type View int

const (
	ViewLogin    View = 0
	ViewMenu     View = 1
	ViewImport   View = 2
	ViewExpenses View = 3
	ViewReview   View = 4
	ViewSummary  View = 5
	ViewExport   View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.App.Name)
	authSvc := auth.NewService(authStore.New(db), tokens)
	expSvc := expense.NewService(expenseStore.New(db), cfg.Import.WriteConcurrency)

	return model{
		authService:     authSvc,
		expenseService:  expSvc,
		matchingService: matching.NewService(matchingStore.New(db)),
		importService:   importer.NewService(),
		exportService:   export.NewService(expSvc),
		currentView:     ViewLogin,
		loginView:       view.NewLoginModel(authSvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.LoggedInMsg:
		m.session = msg.Session
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	userID := m.session.User.ID

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.importService, m.expenseService, m.matchingService, userID)

		return m, m.importView.Init()
	case "2":
		m.currentView = ViewExpenses
		m.expensesView = view.NewExpensesModel(m.expenseService, userID)

		return m, m.expensesView.Init()
	case "3":
		m.currentView = ViewReview
		m.reviewView = view.NewReviewModel(m.expenseService, m.matchingService, userID)

		return m, m.reviewView.Init()
	case "4":
		m.currentView = ViewSummary
		m.summaryView = view.NewSummaryModel(m.expenseService, userID)

		return m, m.summaryView.Init()
	case "5":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.exportService, userID)

		return m, m.exportView.Init()
	case "0":
		m.session = nil
		m.currentView = ViewLogin
		m.loginView = view.NewLoginModel(m.authService)

		return m, m.loginView.Init()
	}

	return m, nil
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Tally TUI  " + lipgloss.NewStyle().Faint(true).Render(m.session.User.Email) + "\n\n" +
				"1. Import Expenses\n" +
				"2. Expenses\n" +
				"3. Categorize Expenses\n" +
				"4. Monthly Summary\n" +
				"5. Export Expenses\n\n" +
				"0. Sign out\n" +
				"q. Quit",
		)
	case ViewImport:
		return withHelp(m.importView)
	case ViewExpenses:
		return withHelp(m.expensesView)
	case ViewReview:
		return withHelp(m.reviewView)
	case ViewSummary:
		return withHelp(m.summaryView)
	case ViewExport:
		return withHelp(m.exportView)
	}

	return "Unknown View"
}

// withHelp renders a screen with its title above and key help below.
func withHelp(v view.View) string {
	faint := lipgloss.NewStyle().Faint(true)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(v.Title()),
		v.View(),
		faint.PaddingLeft(1).Render(v.ShortHelp()),
	)
}

func main() {
	// slog writes through the standard logger, which must not draw over the UI.
	if f, err := tea.LogToFile("tally-tui.log", "tally"); err == nil {
		defer f.Close()
	}

	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
