// Package account talks to the authenticated user endpoints behind the
// profile screens: login, orders, vouchers and password change.
package account

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrderType selects the order list.
type OrderType string

const (
	OrdersActive   OrderType = "active"
	OrdersCanceled OrderType = "canceled"
)

// ParseOrderType validates an order type, defaulting to active.
func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case "", OrdersActive:
		return OrdersActive, nil
	case OrdersCanceled:
		return OrdersCanceled, nil
	default:
		return "", fmt.Errorf("unknown order type %q (want active or canceled)", s)
	}
}

// Title returns the screen title of the order list.
func (t OrderType) Title() string {
	if t == OrdersCanceled {
		return "Pedidos Cancelados"
	}
	return "Meus Pedidos"
}

// ID accepts numeric and string identifiers.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// Date is a timestamp from the account API. Besides RFC 3339 it accepts
// date-only and zone-less values and epoch milliseconds; anything else
// decodes to the zero time instead of failing the whole list.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	d.Time = time.Time{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		var ms json.Number
		if err := json.Unmarshal(data, &ms); err == nil {
			if n, err := ms.Int64(); err == nil {
				d.Time = time.UnixMilli(n).UTC()
			}
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return nil
}

// Order is one purchase of the signed-in user.
type Order struct {
	ID        ID      `json:"id"`
	CreatedAt Date    `json:"createdAt"`
	Total     float64 `json:"total"`
}

// Voucher is a discount coupon of the signed-in user.
type Voucher struct {
	ID          ID      `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Discount    float64 `json:"discount"`
	ExpiresAt   Date    `json:"expiresAt"`
}

// PasswordChange is the security form.
type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

// Validate checks the form locally. It never touches the network.
func (p PasswordChange) Validate() error {
	switch {
	case p.Current == "":
		return fmt.Errorf("current password: %w", ErrMissingField)
	case p.New == "":
		return fmt.Errorf("new password: %w", ErrMissingField)
	case p.Confirm == "":
		return fmt.Errorf("password confirmation: %w", ErrMissingField)
	case p.New != p.Confirm:
		return ErrPasswordMismatch
	}
	return nil
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"` // #nosec G117 -- request body field
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"` // #nosec G117 -- request body field
	Password        string `json:"password"`        // #nosec G117 -- request body field
}
