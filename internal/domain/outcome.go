package domain

// Outcome is the provider's verdict on a checkout session. It is one of
// OutcomePaid, OutcomeCancelled or OutcomeFailed.
type Outcome interface {
	outcome()
}

type OutcomePaid struct {
	CustomerRef string
	Details     string
}

type OutcomeCancelled struct {
	Details string
}

type OutcomeFailed struct {
	Error string
}

func (OutcomePaid) outcome()      {}
func (OutcomeCancelled) outcome() {}
func (OutcomeFailed) outcome()    {}

// ProviderStatus is the provider's raw answer to a session status query.
type ProviderStatus struct {
	SessionID   string
	Outcome     string
	CustomerRef string
	Details     string
}
