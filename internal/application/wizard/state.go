// Package wizard holds the multi-step form state machine as an explicit
// immutable state value plus a pure reducer. Render layers (the TUI, or
// any other front) subscribe to the state and dispatch actions; they never
// mutate it directly.
package wizard

import (
	"strings"

	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
	tokendom "tokenforge/internal/domain/token"
)

// Step is the wizard's position. Forward movement is gated by the step's
// validator; backward movement is free until a deploy completes.
type Step int

const (
	StepDetails Step = iota
	StepFeatures
	StepSocial
	StepDeploy
)

// StepCount is the number of form steps (terminal states excluded).
const StepCount = 4

// Titles returns the progress labels in step order.
func Titles() []string {
	return []string{"Token Details", "Viral Features", "Social Links", "Deploy"}
}

// FormData mirrors the form fields as entered. Supply and Decimals stay
// strings until deploy time, exactly as collected.
type FormData struct {
	Name        string
	Symbol      string
	Description string
	Supply      string
	Decimals    string
	Theme       tokendom.Theme

	ViralFeatures []string

	Website  string
	Twitter  string
	Telegram string
	Discord  string
}

// DefaultFormData carries the original defaults: a billion-token supply at
// the maximum 9 decimals, custom theme.
func DefaultFormData() FormData {
	return FormData{
		Supply:   "1000000000",
		Decimals: "9",
		Theme:    tokendom.ThemeCustom,
	}
}

// HasFeature reports whether a viral feature tag is currently selected.
func (d FormData) HasFeature(f string) bool {
	for _, v := range d.ViralFeatures {
		if v == f {
			return true
		}
	}
	return false
}

// Draft converts the form into the domain draft submitted on deploy.
func (d FormData) Draft(net chain.Network) tokendom.Draft {
	return tokendom.Draft{
		Name:          d.Name,
		Symbol:        d.Symbol,
		Description:   d.Description,
		Supply:        d.Supply,
		Decimals:      d.Decimals,
		Theme:         string(d.Theme),
		ViralFeatures: append([]string(nil), d.ViralFeatures...),
		Website:       d.Website,
		Twitter:       d.Twitter,
		Telegram:      d.Telegram,
		Discord:       d.Discord,
		Network:       string(net),
	}
}

// State is the whole wizard at one instant. Values only; reducers return
// fresh copies. Nothing here survives a session.
type State struct {
	Step Step
	Data FormData

	Network chain.Network

	SignerConnected bool
	SignerAddress   string

	// Balance is nil while unknown (not yet queried, invalidated by a
	// network/account switch, or the query failed). The deploy gate
	// never trusts a nil balance.
	Balance *chain.Balance

	// MinDeploySOL is the deploy-eligibility threshold, fixed at init.
	MinDeploySOL float64

	Deploying bool
	Result    *issuance.Result
	Failure   *issuance.FailureReport
}

// NewState returns the initial wizard state for a cluster.
func NewState(net chain.Network, minDeploySOL float64) State {
	if minDeploySOL <= 0 {
		minDeploySOL = chain.DefaultMinDeployBalanceSOL
	}
	return State{
		Step:         StepDetails,
		Data:         DefaultFormData(),
		Network:      net,
		MinDeploySOL: minDeploySOL,
	}
}

// Completed reports the terminal success state.
func (s State) Completed() bool { return s.Result != nil }

// StepValid runs the given step's validator. Validators are pure: same
// state in, same answer out, no side effects.
func (s State) StepValid(step Step) bool {
	switch step {
	case StepDetails:
		return strings.TrimSpace(s.Data.Name) != "" &&
			strings.TrimSpace(s.Data.Symbol) != "" &&
			strings.TrimSpace(s.Data.Description) != ""
	case StepFeatures:
		return len(s.Data.ViralFeatures) > 0
	case StepSocial:
		return true // social links are optional
	case StepDeploy:
		return s.SignerConnected && s.SignerAddress != ""
	default:
		return false
	}
}

// CanNext gates forward navigation on the current step's validator.
func (s State) CanNext() bool {
	return !s.Completed() && s.Step < StepDeploy && s.StepValid(s.Step)
}

// CanPrev allows backward navigation any time before completion, except
// while a deploy is pending.
func (s State) CanPrev() bool {
	return !s.Completed() && !s.Deploying && s.Step > StepDetails
}

// CanDeploy is the deploy-eligibility gate: on the deploy step, signer
// connected, nothing in flight, and a known balance at or above the
// threshold. An unknown balance always disables deploy.
func (s State) CanDeploy() bool {
	if s.Completed() || s.Deploying || s.Step != StepDeploy {
		return false
	}
	if !s.StepValid(StepDeploy) {
		return false
	}
	return s.Balance != nil && s.Balance.SOL >= s.MinDeploySOL
}
