package domain

// CheckoutSession is the provider-hosted payment flow created for one order.
type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

// SessionIDPlaceholder in a return URL is replaced by the provider with the session id.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// ReturnTargets are the URLs the provider sends the shopper back to.
type ReturnTargets struct {
	SuccessURL string
	CancelURL  string
}
