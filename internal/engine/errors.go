package engine

import (
	"errors"
	"fmt"
)

// Rule names a refusal reason.
type Rule string

const (
	RuleLockdown         Rule = "lockdown"
	RuleResting          Rule = "resting"
	RuleDuplicate        Rule = "duplicate"
	RuleInvalidInput     Rule = "invalid_input"
	RuleChainOrder       Rule = "chain_order"
	RuleChainActive      Rule = "chain_active"
	RuleNoChain          Rule = "no_chain"
	RuleNotFound         Rule = "not_found"
	RuleInsufficientGold Rule = "insufficient_gold"
	RuleResearchRatio    Rule = "research_ratio"
	RuleAlreadyDone      Rule = "already_done"
	RuleTooShort         Rule = "too_short"
	RuleCooldown         Rule = "cooldown"
	RuleNotLockedDown    Rule = "not_locked_down"
	RuleBossLocked       Rule = "boss_locked"
)

// RefusalError reports an operation rejected by a game rule. State is untouched.
type RefusalError struct {
	Rule    Rule
	Message string
}

func (e *RefusalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("refused: %s", e.Rule)
	}
	return e.Message
}

func refuse(rule Rule, format string, args ...any) error {
	return &RefusalError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// IsRefusal reports whether err is a rule refusal, optionally of a specific rule.
func IsRefusal(err error, rules ...Rule) bool {
	var re *RefusalError
	if !errors.As(err, &re) {
		return false
	}
	if len(rules) == 0 {
		return true
	}
	return contains(rules, re.Rule)
}
