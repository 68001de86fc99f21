package wizard

import (
	"strings"

	"tokenforge/internal/domain/chain"
	"tokenforge/internal/domain/issuance"
	tokendom "tokenforge/internal/domain/token"
)

// Action is one wizard event. Reduce maps (state, action) to a new state
// and is the only way state changes.
type Action interface{ isWizardAction() }

// Field identifies a text input on the form.
type Field string

const (
	FieldName        Field = "name"
	FieldSymbol      Field = "symbol"
	FieldDescription Field = "description"
	FieldSupply      Field = "supply"
	FieldDecimals    Field = "decimals"
	FieldWebsite     Field = "website"
	FieldTwitter     Field = "twitter"
	FieldTelegram    Field = "telegram"
	FieldDiscord     Field = "discord"
)

type SetField struct {
	Field Field
	Value string
}

type SetTheme struct{ Theme tokendom.Theme }

type ToggleFeature struct{ Feature string }

type Next struct{}
type Prev struct{}

type SetNetwork struct{ Network chain.Network }

type SignerChanged struct {
	Connected bool
	Address   string
}

type BalanceResolved struct{ Balance chain.Balance }
type BalanceUnknown struct{}

type DeployStarted struct{}
type DeploySucceeded struct{ Result issuance.Result }
type DeployFailed struct{ Report issuance.FailureReport }
type DismissFailure struct{}

type Reset struct{}

func (SetField) isWizardAction()        {}
func (SetTheme) isWizardAction()        {}
func (ToggleFeature) isWizardAction()   {}
func (Next) isWizardAction()            {}
func (Prev) isWizardAction()            {}
func (SetNetwork) isWizardAction()      {}
func (SignerChanged) isWizardAction()   {}
func (BalanceResolved) isWizardAction() {}
func (BalanceUnknown) isWizardAction()  {}
func (DeployStarted) isWizardAction()   {}
func (DeploySucceeded) isWizardAction() {}
func (DeployFailed) isWizardAction()    {}
func (DismissFailure) isWizardAction()  {}
func (Reset) isWizardAction()           {}

// Reduce applies one action. It never mutates its input and ignores
// actions that are illegal in the current state (e.g. Next past a failing
// validator), so render layers can dispatch freely.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetField:
		if s.Completed() || s.Deploying {
			return s
		}
		s.Data = setField(s.Data, act.Field, act.Value)
		return s

	case SetTheme:
		if s.Completed() || s.Deploying {
			return s
		}
		if _, err := tokendom.ParseTheme(string(act.Theme)); err != nil {
			return s
		}
		s.Data.Theme = act.Theme
		return s

	case ToggleFeature:
		if s.Completed() || s.Deploying || !tokendom.IsViralFeature(act.Feature) {
			return s
		}
		s.Data.ViralFeatures = toggleFeature(s.Data.ViralFeatures, act.Feature)
		return s

	case Next:
		if !s.CanNext() {
			return s
		}
		s.Step++
		return s

	case Prev:
		if !s.CanPrev() {
			return s
		}
		s.Step--
		return s

	case SetNetwork:
		if s.Deploying || s.Completed() || act.Network == s.Network {
			return s
		}
		s.Network = act.Network
		// A cluster switch invalidates the balance immediately; deploy
		// stays disabled until the new query resolves.
		s.Balance = nil
		return s

	case SignerChanged:
		addr := strings.TrimSpace(act.Address)
		connected := act.Connected && addr != ""
		if connected == s.SignerConnected && addr == s.SignerAddress {
			return s
		}
		s.SignerConnected = connected
		s.SignerAddress = addr
		// New identity (or disconnect) — prior balance no longer applies.
		s.Balance = nil
		return s

	case BalanceResolved:
		b := act.Balance
		s.Balance = &b
		return s

	case BalanceUnknown:
		s.Balance = nil
		return s

	case DeployStarted:
		if !s.CanDeploy() {
			return s
		}
		s.Deploying = true
		s.Failure = nil
		return s

	case DeploySucceeded:
		if !s.Deploying {
			return s
		}
		r := act.Result
		s.Deploying = false
		s.Result = &r
		s.Failure = nil
		return s

	case DeployFailed:
		if !s.Deploying {
			return s
		}
		// Stay on the deploy step; the user may dismiss and retry, which
		// re-runs the whole assemble-and-submit sequence from scratch.
		rep := act.Report
		s.Deploying = false
		s.Failure = &rep
		return s

	case DismissFailure:
		s.Failure = nil
		return s

	case Reset:
		fresh := NewState(s.Network, s.MinDeploySOL)
		fresh.SignerConnected = s.SignerConnected
		fresh.SignerAddress = s.SignerAddress
		fresh.Balance = s.Balance
		return fresh

	default:
		return s
	}
}

func setField(d FormData, f Field, v string) FormData {
	switch f {
	case FieldName:
		d.Name = v
	case FieldSymbol:
		d.Symbol = strings.ToUpper(v)
	case FieldDescription:
		d.Description = v
	case FieldSupply:
		d.Supply = v
	case FieldDecimals:
		d.Decimals = v
	case FieldWebsite:
		d.Website = v
	case FieldTwitter:
		d.Twitter = v
	case FieldTelegram:
		d.Telegram = v
	case FieldDiscord:
		d.Discord = v
	}
	return d
}

func toggleFeature(features []string, f string) []string {
	out := make([]string, 0, len(features)+1)
	removed := false
	for _, v := range features {
		if v == f {
			removed = true
			continue
		}
		out = append(out, v)
	}
	if !removed {
		out = append(out, f)
	}
	return out
}
