// Package agent wraps the identity-agent capability the binding core
// consumes: notification listing, exchange retrieval, IPEX replies, and
// key-state lookup. The agent itself is an external collaborator; this
// package fixes call sequencing and error classification only.
package agent

import (
	"context"
	"encoding/json"
)

// IPEX exchange routes observed on notifications.
const (
	RouteIpexOffer = "/exn/ipex/offer"
	RouteIpexGrant = "/exn/ipex/grant"
	RouteIpexAgree = "/exn/ipex/agree"
	RouteIpexAdmit = "/exn/ipex/admit"
)

// Notification is an agent-delivered pointer to a pending exchange
// message. The core only consumes and retires notifications; it never
// creates or mutates them.
type Notification struct {
	ID          string `json:"id"`
	Route       string `json:"route"`
	ExchangeRef string `json:"exchangeRef"`
	Read        bool   `json:"read"`
}

// ExchangeMessage is the exchange a notification points at. Ephemeral;
// fetched per notification and never persisted.
type ExchangeMessage struct {
	Route     string `json:"route"`
	Sender    string `json:"sender"`
	Said      string `json:"said"`
	Recipient string `json:"recipient"`
}

// AgreeParams describes the agree reply to an IPEX offer. The offer's
// content-addressed identifier is the correlation key.
type AgreeParams struct {
	SenderName string `json:"senderName"`
	Recipient  string `json:"recipient"`
	OfferSaid  string `json:"offerSaid"`
}

// AgreeReply is the signed agree message produced by the agent.
type AgreeReply struct {
	Message    json.RawMessage `json:"exn"`
	Signatures []string        `json:"sigs"`
}

// KeyState is the current key-event state of an AID.
type KeyState struct {
	Aid         string   `json:"i"`
	Sequence    string   `json:"s"`
	CurrentKeys []string `json:"k"`
}

// Client is the identity-agent capability consumed by the exchange loop
// and the key resolver. One client instance must not be called
// concurrently while a loop owns it.
type Client interface {
	ListNotifications(ctx context.Context) ([]Notification, error)
	GetExchange(ctx context.Context, said string) (*ExchangeMessage, error)
	Agree(ctx context.Context, params AgreeParams) (*AgreeReply, error)
	SubmitAgree(ctx context.Context, senderName string, reply *AgreeReply, recipients []string) error
	DeleteNotification(ctx context.Context, id string) error
	GetKeyState(ctx context.Context, aid string) (*KeyState, error)
}

// Admitter is the optional grant-handling capability. Clients that do not
// implement it see grant notifications skipped.
type Admitter interface {
	AdmitGrant(ctx context.Context, senderName, grantSaid, recipient string) error
}
