package mail

import "context"

// Message is one outbound email. It is what the transport-agnostic parts of
// the system (the auth service, the queue, the worker) pass around.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Deliverer performs the actual delivery of one message.
type Deliverer interface {
	Deliver(ctx context.Context, msg Message) error
}
