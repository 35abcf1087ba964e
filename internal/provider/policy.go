package provider

import (
	"math/rand"

	"github.com/fjod/go_storefront/pkg/paymentpb"
)

// OutcomePolicy decides how a submitted payment ends.
type OutcomePolicy interface {
	PaymentOutcome() (outcome string, details string)
}

// RandomPolicy approves 95% of payments.
type RandomPolicy struct{}

func (RandomPolicy) PaymentOutcome() (string, string) {
	return calcOutcome(rand.Intn(101)) // 101 because Intn is exclusive of the upper bound
}

func calcOutcome(randomInt int) (string, string) {
	if randomInt < 95 {
		return paymentpb.OutcomePaid, ""
	}
	switch randomInt - 95 {
	case 1:
		return paymentpb.OutcomeFailed, "card declined"
	case 2:
		return paymentpb.OutcomeFailed, "insufficient funds"
	case 3:
		return paymentpb.OutcomeFailed, "expired card"
	default:
		return paymentpb.OutcomeFailed, "unknown reason"
	}
}

// FixedPolicy always answers with the same outcome.
type FixedPolicy struct {
	Outcome string
	Details string
}

func (f FixedPolicy) PaymentOutcome() (string, string) {
	return f.Outcome, f.Details
}

// PolicyFor returns RandomPolicy for "random" and a FixedPolicy for any other outcome.
func PolicyFor(outcome string) OutcomePolicy {
	switch outcome {
	case "random", "":
		return RandomPolicy{}
	case paymentpb.OutcomeFailed:
		return FixedPolicy{Outcome: outcome, Details: "card declined"}
	default:
		return FixedPolicy{Outcome: outcome}
	}
}
