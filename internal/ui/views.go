package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/travel-terminal/internal/visit"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateLogin:
		return m.viewLogin()
	case StateCityList:
		return m.viewCityList()
	case StateCityDetail:
		return m.viewCityDetail()
	case StateForm:
		return m.viewForm()
	}

	return ""
}

func (m Model) viewLogin() string {
	title := titleStyle.Render("🌍 Travel Terminal")

	emailLabel, passwordLabel := labelStyle, labelStyle
	if m.emailInput.Focused() {
		emailLabel = activeLabelStyle
	} else {
		passwordLabel = activeLabelStyle
	}

	var b strings.Builder
	b.WriteString(emailLabel.Render("Email address") + "\n")
	b.WriteString(m.emailInput.View() + "\n\n")
	b.WriteString(passwordLabel.Render("Password") + "\n")
	b.WriteString(m.passwordInput.View())
	if m.loginErr != "" {
		b.WriteString("\n\n" + errorStyle.Render(m.loginErr))
	}

	help := helpStyle.Render("tab: switch field • enter: login • ctrl+c: quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		title,
		"",
		paneStyle.Render(b.String()),
		help,
	)
}

// header shows the signed-in user like the app bar
func (m Model) header() string {
	title := titleStyle.Render("🌍 Travel Terminal")
	if user, ok := m.gate.Current(); ok {
		return title + "  " + mutedStyle.Render("Welcome, "+user.Name)
	}
	return title
}

func (m Model) viewCityList() string {
	var body string
	switch {
	case m.cities.Error != "":
		body = errorStyle.Render("⛔ " + m.cities.Error)
	case m.cities.IsLoading && len(m.cities.Cities) == 0:
		body = fmt.Sprintf("%s Loading cities...", m.spinner.View())
	case len(m.cities.Cities) == 0:
		body = mutedStyle.Render("👋 Add your first city by pressing 'a' and picking a point on the map")
	default:
		body = m.cityList.View()
	}

	status := ""
	if m.cities.IsLoading && len(m.cities.Cities) > 0 {
		status = m.spinner.View() + " " + mutedStyle.Render("Working...")
	}

	help := helpStyle.Render("enter: open • a: add visit • d: delete • o: logout • q: quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header(),
		"",
		body,
		status,
		help,
	)
}

func (m Model) viewCityDetail() string {
	help := helpStyle.Render("esc: back • d: delete • q: quit")

	if m.cities.Error != "" {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.header(), "", errorStyle.Render("⛔ "+m.cities.Error), help)
	}

	city := m.cities.CurrentCity
	if m.cities.IsLoading || city.IsZero() || city.ID != m.openedID {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.header(), "", fmt.Sprintf("%s Loading city...", m.spinner.View()), help)
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("City name") + "\n")
	b.WriteString(valueStyle.Render(strings.TrimSpace(city.Emoji+" "+city.CityName)) + "\n\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("You went to %s on", city.CityName)) + "\n")
	b.WriteString(valueStyle.Render(formatLongDate(city.Date)) + "\n")
	if city.Notes != "" {
		b.WriteString("\n" + labelStyle.Render("Your notes") + "\n")
		b.WriteString(valueStyle.Render(city.Notes) + "\n")
	}
	b.WriteString("\n" + labelStyle.Render("Position") + "\n")
	b.WriteString(mutedStyle.Render(city.Position.String()) + "\n\n")
	b.WriteString(labelStyle.Render("Learn more") + "\n")
	b.WriteString(successStyle.Render("https://en.wikipedia.org/wiki/" + strings.ReplaceAll(city.CityName, " ", "_")))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header(),
		"",
		paneStyle.Render(b.String()),
		help,
	)
}

func (m Model) viewForm() string {
	var body string
	help := helpStyle.Render("enter: continue • esc: back")

	switch m.workflow.Phase() {
	case visit.PhaseGeocoding:
		body = fmt.Sprintf("%s Looking up %s...", m.spinner.View(), m.workflow.Position())

	case visit.PhaseSubmitting:
		body = fmt.Sprintf("%s Adding %s...", m.spinner.View(), m.workflow.CityName())

	case visit.PhaseReadyToSubmit:
		body = m.viewDraft()
		help = helpStyle.Render("tab: next field • enter/ctrl+s: add • esc: back")

	default:
		var b strings.Builder
		if m.workflow.Phase() == visit.PhaseFailed {
			b.WriteString(errorStyle.Render("⛔ "+m.workflow.Err()) + "\n\n")
		}
		b.WriteString(activeLabelStyle.Render("Start by picking a point on the map (lat, lng)") + "\n")
		b.WriteString(m.positionInput.View())
		if m.positionErr != "" {
			b.WriteString("\n" + errorStyle.Render(m.positionErr))
		}
		body = b.String()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header(),
		"",
		paneStyle.Render(body),
		help,
	)
}

func (m Model) viewDraft() string {
	label := func(field int, text string) string {
		if m.focus == field {
			return activeLabelStyle.Render(text)
		}
		return labelStyle.Render(text)
	}

	var b strings.Builder
	b.WriteString(label(fieldCityName, "City name") + "  " + m.workflow.Emoji() + "\n")
	b.WriteString(m.cityNameInput.View() + "\n\n")
	b.WriteString(label(fieldDate, fmt.Sprintf("When did you go to %s?", m.workflow.CityName())) + "\n")
	b.WriteString(m.dateInput.View() + "\n\n")
	b.WriteString(label(fieldNotes, fmt.Sprintf("Notes about your trip to %s", m.workflow.CityName())) + "\n")
	b.WriteString(m.notesInput.View())
	if m.workflow.Country() != "" {
		b.WriteString("\n\n" + mutedStyle.Render(m.workflow.Country()+" • "+m.workflow.Position().String()))
	}
	return b.String()
}

// formatLongDate renders dates like "October 15, 2026"
func formatLongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("January 2, 2006")
}
