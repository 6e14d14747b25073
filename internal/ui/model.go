package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/travel-terminal/internal/cities"
	"github.com/ngmaloney/travel-terminal/internal/models"
	"github.com/ngmaloney/travel-terminal/internal/session"
	"github.com/ngmaloney/travel-terminal/internal/visit"
)

// dateLayout is the dd/mm/yyyy format used by the form
const dateLayout = "02/01/2006"

// AppState represents the current state of the application
type AppState int

const (
	StateLogin      AppState = iota // Sign in with the fake account
	StateCityList                   // Browse visited cities
	StateCityDetail                 // Show the current city
	StateForm                       // Record a new visit
)

// Form fields in tab order once the draft is ready
const (
	fieldCityName = iota
	fieldDate
	fieldNotes
	fieldCount
)

// Deps are the collaborators the shell drives.
type Deps struct {
	Gate     *session.Gate
	Store    *cities.Store
	Geocoder visit.Geocoder

	// Position opens the form on this point right after login.
	Position *models.Position
}

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int

	gate     *session.Gate
	store    *cities.Store
	geocoder visit.Geocoder

	// Login
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginErr      string

	// Cities, as last published by the store
	cities   cities.State
	cityList list.Model
	openedID models.ID // city the detail screen waits for

	// Visit form
	workflow      *visit.Workflow
	attempt       int
	positionInput textinput.Model
	positionErr   string
	cityNameInput textinput.Model
	dateInput     textinput.Model
	notesInput    textarea.Model
	focus         int

	pendingPosition *models.Position
	spinner         spinner.Model
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	email := textinput.New()
	email.Placeholder = "jack@example.com"
	email.CharLimit = 100
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 100
	password.Width = 40

	position := textinput.New()
	position.Placeholder = "48.8566, 2.3522"
	position.CharLimit = 60
	position.Width = 40

	cityName := textinput.New()
	cityName.CharLimit = 100
	cityName.Width = 40

	date := textinput.New()
	date.Placeholder = "dd/mm/yyyy"
	date.CharLimit = len(dateLayout)
	date.Width = 12

	notes := textarea.New()
	notes.Placeholder = "Notes about your trip"
	notes.ShowLineNumbers = false
	notes.SetWidth(50)
	notes.SetHeight(4)

	s := spinner.New()
	s.Spinner = spinner.Globe
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		state:           StateLogin,
		gate:            deps.Gate,
		store:           deps.Store,
		geocoder:        deps.Geocoder,
		emailInput:      email,
		passwordInput:   password,
		cityList:        createCityList(nil, 0, 0),
		workflow:        visit.New(),
		positionInput:   position,
		cityNameInput:   cityName,
		dateInput:       date,
		notesInput:      notes,
		pendingPosition: deps.Position,
		spinner:         s,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cityList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case storeUpdatedMsg:
		return m, m.applyStore(msg.state)

	case storeOpDoneMsg:
		// Listeners may have delivered later transitions already, so read
		// the store rather than a snapshot taken when the op returned
		cmd := m.applyStore(m.store.State())
		// A deleted city leaves nothing to show
		if msg.op == opDelete && msg.err == nil && m.state == StateCityDetail {
			m.state = StateCityList
		}
		return m, cmd

	case geocodedMsg:
		if msg.attempt != m.attempt {
			return m, nil
		}
		if err := m.workflow.ResolveGeocode(msg.result, msg.err); err != nil {
			return m, nil
		}
		if m.workflow.Phase() == visit.PhaseReadyToSubmit {
			return m, m.fillDraftInputs()
		}
		return m, nil

	case submittedMsg:
		if msg.attempt != m.attempt {
			return m, nil
		}
		if err := m.workflow.ResolveSubmit(msg.city, msg.err); err != nil {
			return m, nil
		}
		if m.workflow.Phase() == visit.PhaseDone {
			m.state = StateCityList
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.state {
		case StateLogin:
			return m.handleLogin(msg)
		case StateCityList:
			return m.handleCityList(msg)
		case StateCityDetail:
			return m.handleCityDetail(msg)
		case StateForm:
			return m.handleForm(msg)
		}
	}

	return m, nil
}

// applyStore takes a store snapshot and refreshes the list
func (m *Model) applyStore(s cities.State) tea.Cmd {
	m.cities = s
	return m.cityList.SetItems(cityItems(s.Cities))
}

// handleLogin handles keyboard input on the login screen
func (m Model) handleLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return m, m.toggleLoginFocus()

	case "enter":
		if m.emailInput.Focused() {
			return m, m.toggleLoginFocus()
		}
		if !m.gate.Login(m.emailInput.Value(), m.passwordInput.Value()) {
			m.loginErr = "Wrong email or password"
			return m, nil
		}
		m.loginErr = ""
		m.passwordInput.SetValue("")
		m.passwordInput.Blur()
		m.state = StateCityList

		cmds := []tea.Cmd{loadCities(m.store)}
		if m.pendingPosition != nil {
			pos := *m.pendingPosition
			m.pendingPosition = nil
			cmds = append(cmds, m.openForm(), m.startVisit(pos))
		}
		return m, tea.Batch(cmds...)
	}

	m.loginErr = ""
	if m.emailInput.Focused() {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleLoginFocus() tea.Cmd {
	if m.emailInput.Focused() {
		m.emailInput.Blur()
		return m.passwordInput.Focus()
	}
	m.passwordInput.Blur()
	return m.emailInput.Focus()
}

// handleCityList handles keyboard input in the city list
func (m Model) handleCityList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "enter":
		if item, ok := m.cityList.SelectedItem().(cityItem); ok {
			m.state = StateCityDetail
			m.openedID = item.city.ID
			return m, fetchCity(m.store, item.city.ID)
		}
		return m, nil

	case "a":
		return m, m.openForm()

	case "d":
		if item, ok := m.cityList.SelectedItem().(cityItem); ok {
			return m, deleteCity(m.store, item.city.ID)
		}
		return m, nil

	case "o":
		m.gate.Logout()
		m.state = StateLogin
		m.passwordInput.Blur()
		return m, m.emailInput.Focus()
	}

	m.cityList, cmd = m.cityList.Update(msg)
	return m, cmd
}

// handleCityDetail handles keyboard input on the detail screen
func (m Model) handleCityDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.state = StateCityList
		return m, nil
	case "d":
		if id := m.cities.CurrentCity.ID; id != "" && id == m.openedID {
			return m, deleteCity(m.store, id)
		}
	}
	return m, nil
}

// openForm shows the visit form waiting for a position
func (m *Model) openForm() tea.Cmd {
	m.state = StateForm
	m.workflow = visit.New()
	m.attempt++
	m.positionErr = ""
	m.positionInput.SetValue("")
	return m.positionInput.Focus()
}

// startVisit begins geocoding the picked position
func (m *Model) startVisit(pos models.Position) tea.Cmd {
	if err := m.workflow.Start(pos); err != nil {
		return nil
	}
	m.attempt++
	m.positionErr = ""
	m.positionInput.SetValue(pos.String())
	m.positionInput.Blur()
	return tea.Batch(m.spinner.Tick, geocodePosition(m.geocoder, m.attempt, pos))
}

// fillDraftInputs copies the geocoded draft into the editable fields
func (m *Model) fillDraftInputs() tea.Cmd {
	m.cityNameInput.SetValue(m.workflow.CityName())
	m.cityNameInput.CursorEnd()
	m.dateInput.SetValue(m.workflow.Date().Format(dateLayout))
	m.dateInput.CursorEnd()
	m.notesInput.Reset()
	m.focus = fieldCityName
	return m.focusField()
}

func (m *Model) focusField() tea.Cmd {
	m.cityNameInput.Blur()
	m.dateInput.Blur()
	m.notesInput.Blur()

	switch m.focus {
	case fieldDate:
		return m.dateInput.Focus()
	case fieldNotes:
		return m.notesInput.Focus()
	default:
		return m.cityNameInput.Focus()
	}
}

// handleForm handles keyboard input on the visit form
func (m Model) handleForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.state = StateCityList
		m.positionInput.Blur()
		return m, nil
	}

	switch m.workflow.Phase() {
	case visit.PhaseIdle, visit.PhaseFailed, visit.PhaseDone:
		return m.handlePositionInput(msg)
	case visit.PhaseReadyToSubmit:
		return m.handleDraftInput(msg)
	}

	// Geocoding or submitting, nothing to edit
	return m, nil
}

// handlePositionInput reads the "lat, lng" point
func (m Model) handlePositionInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.Type == tea.KeyEnter {
		lat, lng, _ := strings.Cut(m.positionInput.Value(), ",")
		pos, err := models.ParsePosition(lat, lng)
		if err != nil {
			m.positionErr = err.Error()
			return m, nil
		}
		return m, m.startVisit(pos)
	}

	if !m.positionInput.Focused() {
		cmd = m.positionInput.Focus()
	}
	m.positionErr = ""
	var inputCmd tea.Cmd
	m.positionInput, inputCmd = m.positionInput.Update(msg)
	return m, tea.Batch(cmd, inputCmd)
}

// handleDraftInput edits the geocoded draft and submits it
func (m Model) handleDraftInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "tab":
		m.focus = (m.focus + 1) % fieldCount
		return m, m.focusField()
	case "shift+tab":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, m.focusField()
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.focus != fieldNotes {
			return m.submit()
		}
	}

	switch m.focus {
	case fieldCityName:
		m.cityNameInput, cmd = m.cityNameInput.Update(msg)
		m.workflow.SetCityName(strings.TrimSpace(m.cityNameInput.Value()))
	case fieldDate:
		m.dateInput, cmd = m.dateInput.Update(msg)
		m.workflow.SetDate(parseDate(m.dateInput.Value()))
	case fieldNotes:
		m.notesInput, cmd = m.notesInput.Update(msg)
		m.workflow.SetNotes(m.notesInput.Value())
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	draft, ok := m.workflow.BeginSubmit()
	if !ok {
		return m, nil
	}
	return m, tea.Batch(m.spinner.Tick, submitVisit(m.store, m.attempt, draft))
}

// parseDate reads a dd/mm/yyyy date, returning the zero time when invalid
func parseDate(s string) time.Time {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}
	}
	return d
}
