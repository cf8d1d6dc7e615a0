// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import "time"

// CategoryKind identifies a broadcast audience category.
type CategoryKind int

const (
	CategoryAll CategoryKind = iota + 1
	CategoryResidents
	CategoryStaff
)

// String returns the wire name of the category ("ALL", "RESIDENTS", "STAFF").
func (k CategoryKind) String() string {
	switch k {
	case CategoryAll:
		return "ALL"
	case CategoryResidents:
		return "RESIDENTS"
	case CategoryStaff:
		return "STAFF"
	default:
		return "UNKNOWN"
	}
}

// ParseCategoryKind maps a wire name onto a CategoryKind.
// Returns false when the name is not a known category.
func ParseCategoryKind(s string) (CategoryKind, bool) {
	switch s {
	case "ALL":
		return CategoryAll, true
	case "RESIDENTS":
		return CategoryResidents, true
	case "STAFF":
		return CategoryStaff, true
	default:
		return 0, false
	}
}

// Audience is a closed tagged variant: either a single explicit address or a
// directory category. Constructed once per request and never mutated.
type Audience struct {
	individual bool
	address    string
	kind       CategoryKind
}

// IndividualAudience targets one explicit address.
func IndividualAudience(address string) Audience {
	return Audience{individual: true, address: address}
}

// CategoryAudience targets everyone in a directory category.
func CategoryAudience(kind CategoryKind) Audience {
	return Audience{kind: kind}
}

// IsIndividual reports whether the audience is a single address.
func (a Audience) IsIndividual() bool { return a.individual }

// Address returns the explicit address of an individual audience.
func (a Audience) Address() string { return a.address }

// Category returns the category kind of a broadcast audience.
func (a Audience) Category() CategoryKind { return a.kind }

// Role of a directory member.
type Role int

const (
	RoleResident Role = iota + 1
	RoleStaff
)

func (r Role) String() string {
	switch r {
	case RoleResident:
		return "RESIDENT"
	case RoleStaff:
		return "STAFF"
	default:
		return "UNKNOWN"
	}
}

// Recipient is one resolved destination. Address is syntactically valid and
// unique (case-insensitive) within a resolved set.
type Recipient struct {
	Address     string
	DisplayName string
	Role        Role
}

// LayoutKind selects the branded HTML layout a message is wrapped in.
type LayoutKind int

const (
	// LayoutBroadcast is the system-notification layout used for category
	// sends.
	LayoutBroadcast LayoutKind = iota
	// LayoutIndividual is the person-to-person layout used for single
	// sends, carrying the sender's name.
	LayoutIndividual
)

// MessageTemplate is the caller-owned content of a send. BodyHTML may
// reference personalization fields ({{.DisplayName}}, {{.Address}}); the
// renderer substitutes them per recipient. Read-only to the engine.
type MessageTemplate struct {
	Subject  string
	BodyHTML string
	Layout   LayoutKind

	// ReplyTo and Cc carry the individual-send extras through rendering;
	// empty for broadcasts.
	ReplyTo string
	Cc      []string

	// SenderName, when set, is rendered into the individual layout header.
	SenderName string
}

// RenderedMessage is the final per-recipient subject and HTML body.
type RenderedMessage struct {
	Subject  string
	BodyHTML string
}

// DeliveryStatus is the terminal state of one recipient's delivery.
type DeliveryStatus int

const (
	StatusSent DeliveryStatus = iota + 1
	StatusFailed
)

func (s DeliveryStatus) String() string {
	switch s {
	case StatusSent:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DeliveryOutcome records the final result for one recipient after all
// attempts. Created by the delivery pool and never mutated afterwards.
type DeliveryOutcome struct {
	Recipient Recipient
	Status    DeliveryStatus
	Err       error
	Attempts  int
}

// DispatchResult aggregates one dispatch. Outcomes are ordered to match the
// resolved recipient order.
type DispatchResult struct {
	Total    int
	Sent     int
	Failed   int
	Outcomes []DeliveryOutcome
	Elapsed  time.Duration
}
