package models

import (
	"math"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusDefaulted Status = "defaulted"
	StatusPaid      Status = "paid"
)

// Statuses lists every loan status in display order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusDefaulted, StatusPaid}

// ParseStatus returns the status named by s, ignoring case and surrounding space.
func ParseStatus(s string) (Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Label is the human readable form of the status, e.g. "Approved".
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Loan is a single loan application. Loans are never modified after load.
type Loan struct {
	ID              string    `json:"id" csv:"id" bson:"id" db:"id"`
	ApplicantName   string    `json:"applicantName" csv:"applicant name" bson:"applicantName" db:"applicant_name"`
	ApplicantEmail  string    `json:"applicantEmail" csv:"applicant email" bson:"applicantEmail" db:"applicant_email"`
	Amount          int       `json:"amount" csv:"amount" bson:"amount" db:"amount"`
	Status          Status    `json:"status" csv:"status" bson:"status" db:"status"`
	ApplicationDate time.Time `json:"applicationDate" csv:"application date" bson:"applicationDate" db:"application_date"`
	Purpose         string    `json:"purpose" csv:"purpose" bson:"purpose" db:"purpose"`
	CreditScore     int       `json:"creditScore" csv:"credit score" bson:"creditScore" db:"credit_score"`
	LoanTerm        int       `json:"loanTerm" csv:"loan term" bson:"loanTerm" db:"loan_term"`
}

// Page is one slice of a filtered collection. Total counts every match, not
// just the loans on this page.
type Page struct {
	Loans []Loan `json:"loans"`
	Total int    `json:"total"`
}

// Filter holds optional constraints. A nil pointer or empty name means the
// constraint is absent; the zero Filter matches every loan.
type Filter struct {
	Status        *Status
	MinAmount     *int
	MaxAmount     *int
	ApplicantName string
}

func (f Filter) IsEmpty() bool {
	return f.Status == nil && f.MinAmount == nil && f.MaxAmount == nil && f.ApplicantName == ""
}

// Match reports whether the loan satisfies every present constraint.
func (f Filter) Match(l Loan) bool {
	if f.Status != nil && l.Status != *f.Status {
		return false
	}
	if f.MinAmount != nil && l.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && l.Amount > *f.MaxAmount {
		return false
	}
	if f.ApplicantName != "" &&
		!strings.Contains(strings.ToLower(l.ApplicantName), strings.ToLower(f.ApplicantName)) {
		return false
	}
	return true
}

// Equal compares filters by value rather than by pointer identity.
func (f Filter) Equal(o Filter) bool {
	return eqPtr(f.Status, o.Status) &&
		eqPtr(f.MinAmount, o.MinAmount) &&
		eqPtr(f.MaxAmount, o.MaxAmount) &&
		f.ApplicantName == o.ApplicantName
}

// Clone returns a copy that shares no pointers with f.
func (f Filter) Clone() Filter {
	return Filter{
		Status:        clonePtr(f.Status),
		MinAmount:     clonePtr(f.MinAmount),
		MaxAmount:     clonePtr(f.MaxAmount),
		ApplicantName: f.ApplicantName,
	}
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 1000
)

// Cursor identifies a page of a filtered collection. Page is 1-indexed.
type Cursor struct {
	Page     int
	PageSize int
}

// Normalize replaces non-positive fields with the defaults and caps PageSize
// at MaxPageSize.
func (c Cursor) Normalize() Cursor {
	if c.Page < 1 {
		c.Page = DefaultPage
	}
	if c.PageSize < 1 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	return c
}

// Offset is the index of the first loan on the page. It saturates at
// math.MaxInt instead of overflowing.
func (c Cursor) Offset() int {
	c = c.Normalize()
	if c.Page-1 > math.MaxInt/c.PageSize {
		return math.MaxInt
	}
	return (c.Page - 1) * c.PageSize
}
