package rules

import (
	"encoding/json"
	"fmt"
)

// ActionType tags the kind of decision being requested from, or returned
// by, a player actor.
type ActionType string

const (
	ActionTypeGetAction   ActionType = "get_action"
	ActionTypeDropTokens  ActionType = "drop_tokens"
	ActionTypeSelectNoble ActionType = "select_noble"
)

// DropTokensAction returns the tokens a player gives back after ending a
// turn with more than ten total tokens.
type DropTokensAction struct {
	Tokens ColorVec `json:"tokens"`
}

// SelectNoblesAction picks which eligible noble visits, by index into the
// snapshot's noble list.
type SelectNoblesAction struct {
	Index int `json:"index"`
}

// TakeTokenKind distinguishes the two ways a player can take bank tokens.
type TakeTokenKind string

const (
	TakeThreeDifferent TakeTokenKind = "three_different"
	TakeTwoSame        TakeTokenKind = "two_same"
)

// TakeTokenAction takes tokens from the bank, either up to three distinct
// colors or two of a single color.
type TakeTokenAction struct {
	Kind   TakeTokenKind `json:"type"`
	Tokens ColorVec      `json:"tokens"`
}

// CardSourceKind tags whether a BuyCardAction targets a face-up river card
// or one of the acting player's own reserved cards.
type CardSourceKind string

const (
	SourceRevealed CardSourceKind = "revealed"
	SourceReserved CardSourceKind = "reserved"
)

// RevealedLocation addresses a face-up card in the river.
type RevealedLocation struct {
	Tier Tier `json:"tier"`
	Idx  int  `json:"idx"`
}

// CardSource is the tagged union {"type":"revealed","location":{tier,idx}}
// or {"type":"reserved","location":k}, matching the wire format exactly.
type CardSource struct {
	Kind             CardSourceKind
	RevealedLocation RevealedLocation
	ReservedIdx      int
}

func NewRevealedSource(tier Tier, idx int) CardSource {
	return CardSource{Kind: SourceRevealed, RevealedLocation: RevealedLocation{Tier: tier, Idx: idx}}
}

func NewReservedSource(idx int) CardSource {
	return CardSource{Kind: SourceReserved, ReservedIdx: idx}
}

func (s CardSource) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SourceRevealed:
		return json.Marshal(struct {
			Type     string           `json:"type"`
			Location RevealedLocation `json:"location"`
		}{string(s.Kind), s.RevealedLocation})
	case SourceReserved:
		return json.Marshal(struct {
			Type     string `json:"type"`
			Location int    `json:"location"`
		}{string(s.Kind), s.ReservedIdx})
	default:
		return nil, fmt.Errorf("rules: unknown card source kind %q", s.Kind)
	}
}

func (s *CardSource) UnmarshalJSON(data []byte) error {
	var head struct {
		Type     string          `json:"type"`
		Location json.RawMessage `json:"location"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	switch CardSourceKind(head.Type) {
	case SourceRevealed:
		var loc RevealedLocation
		if err := json.Unmarshal(head.Location, &loc); err != nil {
			return err
		}
		*s = NewRevealedSource(loc.Tier, loc.Idx)
	case SourceReserved:
		var idx int
		if err := json.Unmarshal(head.Location, &idx); err != nil {
			return err
		}
		*s = NewReservedSource(idx)
	default:
		return fmt.Errorf("rules: unknown card source type %q", head.Type)
	}
	return nil
}

// BuyCardAction purchases a card, visible on the board or from a player's
// own reserve, spending Uses tokens (including jokers) toward its cost.
type BuyCardAction struct {
	Source CardSource `json:"source"`
	Uses   ColorVec   `json:"uses"`
}

// ReserveCardAction reserves a card face up (Idx set) or blind from the
// pool (Idx == nil), taking a joker token if the bank has one.
type ReserveCardAction struct {
	Tier Tier `json:"tier"`
	Idx  *int `json:"idx"`
}

// PlayerActionKind tags the PlayerAction union.
type PlayerActionKind string

const (
	PlayerActionTakeTokens  PlayerActionKind = "take_tokens"
	PlayerActionBuyCard     PlayerActionKind = "buy_card"
	PlayerActionReserveCard PlayerActionKind = "reserve_card"
	PlayerActionNop         PlayerActionKind = "nop"
)

// PlayerAction is the tagged union of main-phase decisions: take tokens,
// buy a card, reserve a card, or pass.
type PlayerAction struct {
	Kind        PlayerActionKind
	TakeTokens  TakeTokenAction
	BuyCard     BuyCardAction
	ReserveCard ReserveCardAction
}

func NewTakeTokensAction(a TakeTokenAction) PlayerAction {
	return PlayerAction{Kind: PlayerActionTakeTokens, TakeTokens: a}
}

func NewBuyCardAction(a BuyCardAction) PlayerAction {
	return PlayerAction{Kind: PlayerActionBuyCard, BuyCard: a}
}

func NewReserveCardAction(a ReserveCardAction) PlayerAction {
	return PlayerAction{Kind: PlayerActionReserveCard, ReserveCard: a}
}

func NewNopAction() PlayerAction { return PlayerAction{Kind: PlayerActionNop} }

func (a PlayerAction) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case PlayerActionTakeTokens:
		return json.Marshal(struct {
			Type   string         `json:"type"`
			Action TakeTokenAction `json:"action"`
		}{string(a.Kind), a.TakeTokens})
	case PlayerActionBuyCard:
		return json.Marshal(struct {
			Type   string       `json:"type"`
			Action BuyCardAction `json:"action"`
		}{string(a.Kind), a.BuyCard})
	case PlayerActionReserveCard:
		return json.Marshal(struct {
			Type   string           `json:"type"`
			Action ReserveCardAction `json:"action"`
		}{string(a.Kind), a.ReserveCard})
	case PlayerActionNop:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{string(a.Kind)})
	default:
		return nil, fmt.Errorf("rules: unknown player action kind %q", a.Kind)
	}
}

func (a *PlayerAction) UnmarshalJSON(data []byte) error {
	var head struct {
		Type   string          `json:"type"`
		Action json.RawMessage `json:"action"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	switch PlayerActionKind(head.Type) {
	case PlayerActionTakeTokens:
		var t TakeTokenAction
		if err := json.Unmarshal(head.Action, &t); err != nil {
			return err
		}
		*a = NewTakeTokensAction(t)
	case PlayerActionBuyCard:
		var b BuyCardAction
		if err := json.Unmarshal(head.Action, &b); err != nil {
			return err
		}
		*a = NewBuyCardAction(b)
	case PlayerActionReserveCard:
		var r ReserveCardAction
		if err := json.Unmarshal(head.Action, &r); err != nil {
			return err
		}
		*a = NewReserveCardAction(r)
	case PlayerActionNop:
		*a = NewNopAction()
	default:
		return fmt.Errorf("rules: unknown player action type %q", head.Type)
	}
	return nil
}
