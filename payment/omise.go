// Package payment charges card tokens produced by the checkout popup.
package payment

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// ErrNotConfigured is returned by Charge when no gateway keys were provided.
var ErrNotConfigured = errors.New("payment gateway not configured")

// ChargeResult is the part of a gateway charge the shop keeps on the order.
type ChargeResult struct {
	ID     string
	Status string
	Paid   bool
}

// Gateway creates card charges.
type Gateway interface {
	Charge(amount int64, currency, token, description string) (ChargeResult, error)
	PublicKey() string
}

// OmiseGateway charges through the Omise API.
type OmiseGateway struct {
	client    *omise.Client
	publicKey string
}

// NewOmiseGateway builds a gateway. Missing keys give a gateway whose
// Charge always fails with ErrNotConfigured, so the shop still serves the catalog.
func NewOmiseGateway(publicKey, secretKey string) (*OmiseGateway, error) {
	g := &OmiseGateway{publicKey: publicKey}
	if publicKey == "" || secretKey == "" {
		return g, nil
	}

	client, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client init failed: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *OmiseGateway) PublicKey() string {
	return g.publicKey
}

func (g *OmiseGateway) Charge(amount int64, currency, token, description string) (ChargeResult, error) {
	if g.client == nil {
		return ChargeResult{}, ErrNotConfigured
	}

	var charge omise.Charge
	op := &operations.CreateCharge{
		Amount:      amount,
		Currency:    currency,
		Card:        token,
		Description: description,
	}
	if err := g.client.Do(&charge, op); err != nil {
		return ChargeResult{}, fmt.Errorf("create charge failed: %w", err)
	}

	return ChargeResult{
		ID:     charge.ID,
		Status: string(charge.Status),
		Paid:   charge.Paid,
	}, nil
}

// zeroDecimal lists currencies charged in whole units.
var zeroDecimal = map[string]bool{"jpy": true}

// ToMinorUnits converts a price to the currency's smallest unit.
func ToMinorUnits(amount float64, currency string) int64 {
	if zeroDecimal[strings.ToLower(currency)] {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}
