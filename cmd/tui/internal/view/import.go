package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/matching"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService   *importer.Service
	expenseService  *expense.Service
	matchingService *matching.Service
	userID          uuid.UUID

	state      importState
	filePicker filepicker.Model
	preview    table.Model

	status string
	notice *notice
	err    error
}

func NewImportModel(impSvc *importer.Service, expSvc *expense.Service, matchSvc *matching.Service, userID uuid.UUID) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService:   impSvc,
		expenseService:  expSvc,
		matchingService: matchSvc,
		userID:          userID,
		filePicker:      fp,
		preview:         newExpenseTable(10),
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateFilePick {
		return "Esc: cancel | Enter: select"
	}

	return "Esc: back"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		return m.handleResult(msg)
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		// Backing out of the picker is a cancelled selection.
		m.state = importStateImporting
		m.status = "Cancelling..."

		return m, m.importCmd("")
	case importStateResult:
		m.state = importStateFilePick
		m.status = ""
		m.notice = nil
		m.err = nil

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) handleResult(msg importResultMsg) (tea.Model, tea.Cmd) {
	if msg.cancelled {
		m.state = importStateFilePick
		m.status = ""

		return m, Back
	}

	m.state = importStateResult
	m.notice = msg.notice
	m.err = msg.err

	switch {
	case msg.notice != nil:
		m.status = ""
	case msg.err != nil:
		m.status = fmt.Sprintf("Error: %v", msg.err)
	case msg.duplicate:
		m.status = fmt.Sprintf("All %d expenses in this file were already imported.", msg.skipped)
	case len(msg.imported) == 0:
		m.status = "The file contains no expenses."
	default:
		m.status = fmt.Sprintf("Imported %d expenses, skipped %d duplicates.", len(msg.imported), msg.skipped)
	}

	m.preview.SetRows(expenseRows(msg.imported))

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select file to import:\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.notice != nil {
		return style.Render(m.notice.View() + "\n\n(Esc to pick another file)")
	}

	if m.err != nil {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
	}

	content := successStyle(m.status)
	if len(m.preview.Rows()) > 0 {
		content += "\n\n" + m.preview.View()
	}

	return style.Render(content + "\n\n(Esc to import another file)")
}

// Messages

type importResultMsg struct {
	imported  []*expense.Expense
	skipped   int
	duplicate bool
	cancelled bool
	notice    *notice
	err       error
}

// importCmd runs the whole import for the chosen path. An empty path is a
// cancelled selection.
func (m ImportModel) importCmd(path string) tea.Cmd {
	impSvc := m.importService
	expSvc := m.expenseService
	matchSvc := m.matchingService
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		n := &notice{}

		records := impSvc.SelectAndParse(ctx, importer.PathPicker(path), n)
		if n.set() {
			return importResultMsg{notice: n}
		}

		if path == "" {
			return importResultMsg{cancelled: true}
		}

		records, err := matchSvc.Categorize(ctx, userID, records)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := expSvc.ImportBatch(ctx, userID, records)
		if errors.Is(err, expense.ErrDuplicate) {
			return importResultMsg{duplicate: true, skipped: len(result.Skipped)}
		}

		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{imported: result.Imported, skipped: len(result.Skipped)}
	}
}
