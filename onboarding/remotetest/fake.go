// Package remotetest provides an in-memory contract.Remote for tests.
package remotetest

import (
	"context"
	"fmt"
	"sync"

	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
)

type Call struct {
	Op        string
	Kind      statex.EntityKind
	CompanyID int
	ID        int
	Input     any
}

// Fake hands out sequential ids and records every call. FailCreate and
// FailDelete decide per call whether to return an error.
type Fake struct {
	mu     sync.Mutex
	nextID int
	calls  []Call

	FailCreate func(kind statex.EntityKind, input any) error
	FailDelete func(kind statex.EntityKind, id int) error
}

func New() *Fake {
	return &Fake{nextID: 100}
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Deletes returns the ids deleted for kind, in call order.
func (f *Fake) Deletes(kind statex.EntityKind) []int {
	var out []int
	for _, c := range f.Calls() {
		if c.Op == "delete" && c.Kind == kind {
			out = append(out, c.ID)
		}
	}
	return out
}

func (f *Fake) Creates(kind statex.EntityKind) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Op == "create" && c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) create(kind statex.EntityKind, companyID int, input any) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailCreate != nil {
		if err := f.FailCreate(kind, input); err != nil {
			f.calls = append(f.calls, Call{Op: "create", Kind: kind, CompanyID: companyID, Input: input})
			return 0, err
		}
	}
	f.nextID++
	id := f.nextID
	f.calls = append(f.calls, Call{Op: "create", Kind: kind, CompanyID: companyID, ID: id, Input: input})
	return id, nil
}

func (f *Fake) remove(kind statex.EntityKind, companyID, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Op: "delete", Kind: kind, CompanyID: companyID, ID: id})
	if f.FailDelete != nil {
		return f.FailDelete(kind, id)
	}
	return nil
}

func (f *Fake) CreateStaff(_ context.Context, companyID int, in altegio.StaffInput) (*altegio.Staff, error) {
	id, err := f.create(statex.EntityStaff, companyID, in)
	if err != nil {
		return nil, err
	}
	return &altegio.Staff{ID: id, Name: in.Name, Specialization: in.Specialization}, nil
}

func (f *Fake) DeleteStaff(_ context.Context, companyID, staffID int) error {
	return f.remove(statex.EntityStaff, companyID, staffID)
}

func (f *Fake) CreateServiceCategory(_ context.Context, companyID int, in altegio.CategoryInput) (*altegio.ServiceCategory, error) {
	id, err := f.create(statex.EntityCategory, companyID, in)
	if err != nil {
		return nil, err
	}
	return &altegio.ServiceCategory{ID: id, Title: in.Title}, nil
}

func (f *Fake) DeleteServiceCategory(_ context.Context, companyID, categoryID int) error {
	return f.remove(statex.EntityCategory, companyID, categoryID)
}

func (f *Fake) CreateService(_ context.Context, companyID int, in altegio.ServiceInput) (*altegio.Service, error) {
	id, err := f.create(statex.EntityService, companyID, in)
	if err != nil {
		return nil, err
	}
	return &altegio.Service{ID: id, Title: in.Title, CategoryID: in.CategoryID}, nil
}

func (f *Fake) DeleteService(_ context.Context, companyID, serviceID int) error {
	return f.remove(statex.EntityService, companyID, serviceID)
}

func (f *Fake) CreateCustomer(_ context.Context, companyID int, in altegio.CustomerInput) (*altegio.Customer, error) {
	id, err := f.create(statex.EntityClient, companyID, in)
	if err != nil {
		return nil, err
	}
	return &altegio.Customer{ID: id, Name: in.Name, Phone: in.Phone, Email: in.Email}, nil
}

func (f *Fake) DeleteCustomer(_ context.Context, companyID, clientID int) error {
	return f.remove(statex.EntityClient, companyID, clientID)
}

func (f *Fake) CreateBooking(_ context.Context, companyID int, in altegio.BookingInput) (*altegio.Booking, error) {
	id, err := f.create(statex.EntityBooking, companyID, in)
	if err != nil {
		return nil, err
	}
	return &altegio.Booking{ID: id, StaffID: in.StaffID, Datetime: in.Datetime}, nil
}

func (f *Fake) DeleteBooking(_ context.Context, companyID, recordID int) error {
	return f.remove(statex.EntityBooking, companyID, recordID)
}

// FailNotFound is a FailDelete helper that rejects the listed ids.
func FailNotFound(ids ...int) func(statex.EntityKind, int) error {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(kind statex.EntityKind, id int) error {
		if set[id] {
			return fmt.Errorf("%s %d: not found", kind, id)
		}
		return nil
	}
}
