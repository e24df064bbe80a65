package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Order represents a customer order placed at an establishment
type Order struct {
	ID            *int64         `json:"id"`
	Date          time.Time      `json:"date"`
	Client        *Client        `json:"client"`
	Waiter        *Waiter        `json:"waiter"`
	Establishment *Establishment `json:"establishment"`
	Status        Status         `json:"status"`
	Lines         []OrderLine    `json:"lines"`
}

// OrderLine is one product and its quantity within an order
type OrderLine struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// Patch lists the order fields that may be overwritten by a partial update.
// A nil field is left untouched. The optional references are removed with the Clear flags,
// which decoding sets when the document holds an explicit null for them.
type Patch struct {
	Date          *time.Time     `json:"date,omitempty"`
	Client        *Client        `json:"client,omitempty"`
	Waiter        *Waiter        `json:"waiter,omitempty"`
	Establishment *Establishment `json:"establishment,omitempty"`
	Status        *Status        `json:"status,omitempty"`
	Lines         *[]OrderLine   `json:"lines,omitempty"`

	ClearClient        bool `json:"-"`
	ClearWaiter        bool `json:"-"`
	ClearEstablishment bool `json:"-"`
}

// UnmarshalJSON decodes a patch, telling an absent reference apart from a null one.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = Patch(decoded)
	p.ClearClient = isNull(fields, "client")
	p.ClearWaiter = isNull(fields, "waiter")
	p.ClearEstablishment = isNull(fields, "establishment")
	return nil
}

func isNull(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Apply overwrites the fields of o that are set in p.
func (p *Patch) Apply(o *Order) {
	if p.Date != nil {
		o.Date = *p.Date
	}
	if p.Client != nil || p.ClearClient {
		o.Client = p.Client
	}
	if p.Waiter != nil || p.ClearWaiter {
		o.Waiter = p.Waiter
	}
	if p.Establishment != nil || p.ClearEstablishment {
		o.Establishment = p.Establishment
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Lines != nil {
		o.Lines = *p.Lines
	}
}

// IsEmpty reports whether the patch sets no field at all.
func (p *Patch) IsEmpty() bool {
	return p.Date == nil && p.Client == nil && p.Waiter == nil &&
		p.Establishment == nil && p.Status == nil && p.Lines == nil &&
		!p.ClearClient && !p.ClearWaiter && !p.ClearEstablishment
}
