package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tokenforge/internal/application/usecase"
	"tokenforge/internal/application/wizard"
	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
	tokendom "tokenforge/internal/domain/token"
)

// Model renders the wizard state machine as a terminal UI. All state
// transitions go through wizard.Reduce; the model only holds widgets and
// dispatches actions.
type Model struct {
	st wizard.State

	uc     *usecase.IssuanceUsecase
	signer issuance.TransactionSigner

	detailInputs []textinput.Model // name, symbol, description, supply, decimals
	socialInputs []textinput.Model // website, twitter, telegram, discord
	focus        int

	themeCursor   int
	featureCursor int

	spin  spinner.Model
	width int
}

const detailInputCount = 5

var detailFields = []wizard.Field{
	wizard.FieldName, wizard.FieldSymbol, wizard.FieldDescription,
	wizard.FieldSupply, wizard.FieldDecimals,
}

var socialFields = []wizard.Field{
	wizard.FieldWebsite, wizard.FieldTwitter, wizard.FieldTelegram, wizard.FieldDiscord,
}

func New(uc *usecase.IssuanceUsecase, signer issuance.TransactionSigner, net chain.Network) Model {
	st := wizard.NewState(net, uc.MinDeployBalanceSOL())
	if signer != nil {
		st = wizard.Reduce(st, wizard.SignerChanged{Connected: true, Address: signer.Address()})
	}

	makeInput := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = 40
		return ti
	}

	details := []textinput.Model{
		makeInput("My Viral Token", 32),
		makeInput("VIRAL", 10),
		makeInput("The next big thing", 200),
		makeInput("1000000000", 28),
		makeInput("9", 2),
	}
	details[3].SetValue(st.Data.Supply)
	details[4].SetValue(st.Data.Decimals)
	details[0].Focus()

	socials := []textinput.Model{
		makeInput("https://...", 120),
		makeInput("@handle", 60),
		makeInput("t.me/...", 60),
		makeInput("discord.gg/...", 60),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusedStyle

	return Model{
		st:           st,
		uc:           uc,
		signer:       signer,
		detailInputs: details,
		socialInputs: socials,
		spin:         sp,
		width:        80,
	}
}

// ------------------------------------------------------------
// Async commands
// ------------------------------------------------------------

type balanceMsg struct {
	balance chain.Balance
	err     error
}

type deployMsg struct {
	result *issuance.Result
	err    error
}

func (m Model) queryBalance() tea.Cmd {
	uc, net, signer := m.uc, m.st.Network, m.signer
	return func() tea.Msg {
		if signer == nil {
			return balanceMsg{err: issuance.ErrSignerUnavailable}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		bal, err := uc.CheckBalance(ctx, net, signer.Address())
		return balanceMsg{balance: bal, err: err}
	}
}

func (m Model) deploy() tea.Cmd {
	uc, signer := m.uc, m.signer
	draft := m.st.Data.Draft(m.st.Network)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		res, err := uc.Deploy(ctx, draft, signer)
		return deployMsg{result: res, err: err}
	}
}

// ------------------------------------------------------------
// tea.Model
// ------------------------------------------------------------

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.st.Deploying {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case balanceMsg:
		if msg.err != nil {
			m.st = wizard.Reduce(m.st, wizard.BalanceUnknown{})
		} else {
			m.st = wizard.Reduce(m.st, wizard.BalanceResolved{Balance: msg.balance})
		}
		return m, nil

	case deployMsg:
		if msg.err != nil {
			rep := usecase.FailureReportFrom(msg.err)
			m.st = wizard.Reduce(m.st, wizard.DeployFailed{Report: rep})
		} else {
			m.st = wizard.Reduce(m.st, wizard.DeploySucceeded{Result: *msg.result})
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.st.Completed() {
		switch key {
		case "q", "enter", "esc":
			return m, tea.Quit
		case "d":
			m.st = wizard.Reduce(m.st, wizard.Reset{})
			m.focus = 0
			return m.syncInputs(), nil
		}
		return m, nil
	}
	if m.st.Deploying {
		return m, nil // a pending attempt cannot be interrupted from here
	}

	switch m.st.Step {
	case wizard.StepDetails:
		return m.handleDetailsKey(msg, key)
	case wizard.StepFeatures:
		return m.handleFeaturesKey(key)
	case wizard.StepSocial:
		return m.handleSocialKey(msg, key)
	case wizard.StepDeploy:
		return m.handleDeployKey(key)
	}
	return m, nil
}

func (m Model) handleDetailsKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	// Focus positions 0..4 are the inputs, 5 is the theme row.
	switch key {
	case "tab", "down":
		m.focus = (m.focus + 1) % (detailInputCount + 1)
		return m.refocusDetails(), nil
	case "shift+tab", "up":
		m.focus = (m.focus + detailInputCount) % (detailInputCount + 1)
		return m.refocusDetails(), nil
	case "enter":
		if m.st.CanNext() {
			m.st = wizard.Reduce(m.st, wizard.Next{})
			m.focus = 0
		}
		return m, nil
	}

	if m.focus == detailInputCount {
		themes := tokendom.Themes()
		switch key {
		case "left":
			m.themeCursor = (m.themeCursor + len(themes) - 1) % len(themes)
		case "right", " ":
			m.themeCursor = (m.themeCursor + 1) % len(themes)
		default:
			return m, nil
		}
		m.st = wizard.Reduce(m.st, wizard.SetTheme{Theme: themes[m.themeCursor].Value})
		return m, nil
	}

	var cmd tea.Cmd
	m.detailInputs[m.focus], cmd = m.detailInputs[m.focus].Update(msg)
	m.st = wizard.Reduce(m.st, wizard.SetField{
		Field: detailFields[m.focus],
		Value: m.detailInputs[m.focus].Value(),
	})
	// The reducer uppercases the symbol; mirror it back into the widget.
	if detailFields[m.focus] == wizard.FieldSymbol {
		m.detailInputs[m.focus].SetValue(m.st.Data.Symbol)
	}
	return m, cmd
}

func (m Model) handleFeaturesKey(key string) (tea.Model, tea.Cmd) {
	features := tokendom.ViralFeatureCatalog()
	switch key {
	case "up", "k":
		m.featureCursor = (m.featureCursor + len(features) - 1) % len(features)
	case "down", "j":
		m.featureCursor = (m.featureCursor + 1) % len(features)
	case " ", "x":
		m.st = wizard.Reduce(m.st, wizard.ToggleFeature{Feature: features[m.featureCursor]})
	case "enter":
		if m.st.CanNext() {
			m.st = wizard.Reduce(m.st, wizard.Next{})
			m.focus = 0
			m.refocusSocials()
		}
	case "esc", "left":
		m.st = wizard.Reduce(m.st, wizard.Prev{})
		m.focus = 0
		return m.refocusDetails(), nil
	}
	return m, nil
}

func (m Model) handleSocialKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.socialInputs)
		m.refocusSocials()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.socialInputs) - 1) % len(m.socialInputs)
		m.refocusSocials()
		return m, nil
	case "enter":
		if m.st.CanNext() {
			m.st = wizard.Reduce(m.st, wizard.Next{})
			return m, m.queryBalance()
		}
		return m, nil
	case "esc":
		m.st = wizard.Reduce(m.st, wizard.Prev{})
		m.focus = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.socialInputs[m.focus], cmd = m.socialInputs[m.focus].Update(msg)
	m.st = wizard.Reduce(m.st, wizard.SetField{
		Field: socialFields[m.focus],
		Value: m.socialInputs[m.focus].Value(),
	})
	return m, cmd
}

func (m Model) handleDeployKey(key string) (tea.Model, tea.Cmd) {
	if m.st.Failure != nil {
		if key == "esc" || key == "enter" {
			m.st = wizard.Reduce(m.st, wizard.DismissFailure{})
		}
		return m, nil
	}

	switch key {
	case "esc", "left":
		m.st = wizard.Reduce(m.st, wizard.Prev{})
		return m, nil
	case "n":
		next := chain.NetworkMainnet
		if m.st.Network == chain.NetworkMainnet {
			next = chain.NetworkDevnet
		}
		m.st = wizard.Reduce(m.st, wizard.SetNetwork{Network: next})
		return m, m.queryBalance()
	case "r":
		return m, m.queryBalance()
	case "enter":
		if !m.st.CanDeploy() {
			return m, nil
		}
		m.st = wizard.Reduce(m.st, wizard.DeployStarted{})
		return m, tea.Batch(m.deploy(), m.spin.Tick)
	}
	return m, nil
}

func (m Model) refocusDetails() Model {
	for i := range m.detailInputs {
		if i == m.focus {
			m.detailInputs[i].Focus()
		} else {
			m.detailInputs[i].Blur()
		}
	}
	return m
}

func (m *Model) refocusSocials() {
	for i := range m.socialInputs {
		if i == m.focus {
			m.socialInputs[i].Focus()
		} else {
			m.socialInputs[i].Blur()
		}
	}
}

// syncInputs pushes reducer state back into the widgets after a Reset.
func (m Model) syncInputs() Model {
	vals := []string{
		m.st.Data.Name, m.st.Data.Symbol, m.st.Data.Description,
		m.st.Data.Supply, m.st.Data.Decimals,
	}
	for i := range m.detailInputs {
		m.detailInputs[i].SetValue(vals[i])
	}
	for i := range m.socialInputs {
		m.socialInputs[i].SetValue("")
	}
	m.themeCursor = 0
	m.featureCursor = 0
	return m.refocusDetails()
}

// ------------------------------------------------------------
// View
// ------------------------------------------------------------

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("tokenforge — Solana token wizard") + "\n\n")
	b.WriteString("  " + m.renderProgress() + "\n\n")

	switch {
	case m.st.Completed():
		b.WriteString(m.viewResult())
	case m.st.Step == wizard.StepDetails:
		b.WriteString(m.viewDetails())
	case m.st.Step == wizard.StepFeatures:
		b.WriteString(m.viewFeatures())
	case m.st.Step == wizard.StepSocial:
		b.WriteString(m.viewSocial())
	case m.st.Step == wizard.StepDeploy:
		b.WriteString(m.viewDeploy())
	}

	b.WriteString("\n" + m.renderFooter() + "\n")
	return b.String()
}

func (m Model) renderProgress() string {
	titles := wizard.Titles()
	parts := make([]string, 0, len(titles))
	for i, t := range titles {
		label := fmt.Sprintf("%d. %s", i+1, t)
		switch {
		case wizard.Step(i) < m.st.Step || m.st.Completed():
			parts = append(parts, stepDoneStyle.Render("✓ "+t))
		case wizard.Step(i) == m.st.Step:
			parts = append(parts, stepActiveStyle.Render(label))
		default:
			parts = append(parts, stepTodoStyle.Render(label))
		}
	}
	return strings.Join(parts, stepTodoStyle.Render("  ›  "))
}

func (m Model) viewDetails() string {
	labels := []string{"Name", "Symbol", "Description", "Supply", "Decimals"}
	var b strings.Builder
	for i, in := range m.detailInputs {
		b.WriteString(fmt.Sprintf("  %s\n  %s\n", labelStyle.Render(labels[i]), in.View()))
	}

	themes := tokendom.Themes()
	cur := themes[m.themeCursor]
	theme := fmt.Sprintf("‹ %s ›  %s", cur.Label, helpStyle.Render(cur.Description))
	if m.focus == detailInputCount {
		theme = focusedStyle.Render(theme)
	}
	b.WriteString(fmt.Sprintf("  %s\n  %s\n", labelStyle.Render("Theme"), theme))
	return b.String()
}

func (m Model) viewFeatures() string {
	var b strings.Builder
	b.WriteString("  " + labelStyle.Render("Pick at least one viral feature") + "\n\n")
	for i, f := range tokendom.ViralFeatureCatalog() {
		check := "[ ]"
		if m.st.Data.HasFeature(f) {
			check = okStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", check, f)
		if i == m.featureCursor {
			line = focusedStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m Model) viewSocial() string {
	labels := []string{"Website", "Twitter", "Telegram", "Discord"}
	var b strings.Builder
	b.WriteString("  " + labelStyle.Render("Social links (all optional)") + "\n\n")
	for i, in := range m.socialInputs {
		b.WriteString(fmt.Sprintf("  %s\n  %s\n", labelStyle.Render(labels[i]), in.View()))
	}
	return b.String()
}

func (m Model) viewDeploy() string {
	var b strings.Builder

	d := m.st.Data
	summary := fmt.Sprintf(
		"%s (%s)  —  supply %s × 10^%s, theme %s\nnetwork: %s",
		d.Name, d.Symbol, d.Supply, d.Decimals, d.Theme, m.st.Network,
	)
	b.WriteString("  " + boxStyle.Render(summary) + "\n\n")

	switch {
	case !m.st.SignerConnected:
		b.WriteString("  " + errStyle.Render("No wallet keypair configured; deploy is disabled.") + "\n")
	case m.st.Balance == nil:
		b.WriteString("  " + warnStyle.Render("Balance: checking… (deploy disabled until known)") + "\n")
	case m.st.Balance.SOL < m.st.MinDeploySOL:
		b.WriteString("  " + errStyle.Render(fmt.Sprintf(
			"Balance: %.4f SOL — need at least %.2f SOL", m.st.Balance.SOL, m.st.MinDeploySOL)) + "\n")
	default:
		b.WriteString("  " + okStyle.Render(fmt.Sprintf("Balance: %.4f SOL — ready to deploy", m.st.Balance.SOL)) + "\n")
	}

	if m.st.Deploying {
		b.WriteString(fmt.Sprintf("\n  %s Deploying… creating mint, waiting for confirmation\n", m.spin.View()))
	}
	if m.st.Failure != nil {
		b.WriteString("\n  " + errStyle.Render(m.st.Failure.Message) + "\n")
		b.WriteString("  " + helpStyle.Render("esc: dismiss and retry") + "\n")
	}
	return b.String()
}

func (m Model) viewResult() string {
	res := m.st.Result
	body := fmt.Sprintf(
		"Token deployed!\n\nMint:      %s\nHolding:   %s\nTx:        %s\nExplorer:  %s",
		res.MintAddress, res.AssociatedAccount, res.Signature, res.ExplorerURL,
	)
	return "  " + okStyle.Render("✓") + " " + boxStyle.Render(body) + "\n"
}

func (m Model) renderFooter() string {
	var help string
	switch {
	case m.st.Completed():
		help = "d: deploy another  •  q: quit"
	case m.st.Deploying:
		help = "waiting for the network…"
	case m.st.Step == wizard.StepDeploy:
		if m.st.Failure != nil {
			help = "esc: dismiss"
		} else {
			help = "enter: deploy  •  n: switch network  •  r: refresh balance  •  esc: back"
		}
	case m.st.Step == wizard.StepDetails:
		help = "tab/↑↓: fields  •  ←→: theme  •  enter: next"
	case m.st.Step == wizard.StepFeatures:
		help = "↑↓: move  •  space: toggle  •  enter: next  •  esc: back"
	default:
		help = "tab/↑↓: fields  •  enter: next  •  esc: back"
	}
	return "  " + helpStyle.Render(help)
}
