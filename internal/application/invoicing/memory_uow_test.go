package invoicing

import (
	"context"
	"fmt"
	"sort"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// memoryStore is the committed state shared by memory units of work
type memoryStore struct {
	payers  []invoicing.Payer
	orders  []invoicing.InvoiceOrder
	seqs    map[string]int64
	commits int
	opened  int
	closed  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{seqs: map[string]int64{}}
}

func (s *memoryStore) Begin(_ context.Context) (UnitOfWork, error) {
	s.opened++
	u := &memoryUoW{store: s}
	u.reset()
	return u, nil
}

type memoryUoW struct {
	EventCollector
	store     *memoryStore
	payers    []invoicing.Payer
	orders    []invoicing.InvoiceOrder
	seqs      map[string]int64
	committed bool
}

func (u *memoryUoW) reset() {
	u.payers = append([]invoicing.Payer(nil), u.store.payers...)
	u.orders = append([]invoicing.InvoiceOrder(nil), u.store.orders...)
	u.seqs = make(map[string]int64, len(u.store.seqs))
	for k, v := range u.store.seqs {
		u.seqs[k] = v
	}
}

func (u *memoryUoW) Payers() invoicing.PayerRepository       { return &memoryPayers{u: u} }
func (u *memoryUoW) Orders() invoicing.OrderRepository       { return &memoryOrders{u: u} }
func (u *memoryUoW) Sequences() invoicing.SequenceRepository { return &memorySeqs{u: u} }

func (u *memoryUoW) Commit() error {
	u.store.payers = append([]invoicing.Payer(nil), u.payers...)
	u.store.orders = append([]invoicing.InvoiceOrder(nil), u.orders...)
	u.store.seqs = make(map[string]int64, len(u.seqs))
	for k, v := range u.seqs {
		u.store.seqs[k] = v
	}
	u.store.commits++
	u.committed = true
	return nil
}

func (u *memoryUoW) Rollback() error {
	u.reset()
	return nil
}

func (u *memoryUoW) Close() error {
	u.store.closed++
	return u.Rollback()
}

type memoryPayers struct{ u *memoryUoW }

func (r *memoryPayers) Descriptor() shared.EntityDescriptor { return invoicing.PayerDescriptor{} }

func (r *memoryPayers) Add(_ context.Context, p *invoicing.Payer) error {
	r.u.payers = append(r.u.payers, *p)
	return nil
}

func (r *memoryPayers) Save(_ context.Context, p *invoicing.Payer) error {
	for i := range r.u.payers {
		if r.u.payers[i].ID == p.ID {
			r.u.payers[i] = *p
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryPayers) Get(ctx context.Context, value string) (*invoicing.Payer, error) {
	return r.GetBy(ctx, "name", value)
}

func (r *memoryPayers) GetBy(_ context.Context, field, value string) (*invoicing.Payer, error) {
	var found []invoicing.Payer
	for _, p := range r.u.payers {
		if field == "name" && p.Name == value {
			found = append(found, p)
		}
	}
	return exactlyOne(found)
}

func (r *memoryPayers) GetByID(_ context.Context, id uuid.UUID) (*invoicing.Payer, error) {
	for _, p := range r.u.payers {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryPayers) ListAll(_ context.Context) ([]invoicing.Payer, error) {
	return append([]invoicing.Payer(nil), r.u.payers...), nil
}

func (r *memoryPayers) DeleteByID(_ context.Context, id uuid.UUID) error {
	for _, o := range r.u.orders {
		if o.PayerID != nil && *o.PayerID == id {
			return shared.Wrap(shared.CodeIntegrityViolation, "payer is still allocated to orders", fmt.Errorf("order %s", o.ID))
		}
	}
	for i := range r.u.payers {
		if r.u.payers[i].ID == id {
			r.u.payers = append(r.u.payers[:i], r.u.payers[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type memoryOrders struct{ u *memoryUoW }

func (r *memoryOrders) Descriptor() shared.EntityDescriptor { return invoicing.OrderDescriptor{} }

func (r *memoryOrders) hydrate(o invoicing.InvoiceOrder) *invoicing.InvoiceOrder {
	if o.PayerID != nil {
		for i := range r.u.payers {
			if r.u.payers[i].ID == *o.PayerID {
				p := r.u.payers[i]
				o.AllocatePayer(&p)
			}
		}
	}
	return &o
}

func (r *memoryOrders) Add(_ context.Context, o *invoicing.InvoiceOrder) error {
	r.u.orders = append(r.u.orders, *o)
	return nil
}

func (r *memoryOrders) Save(_ context.Context, o *invoicing.InvoiceOrder) error {
	for i := range r.u.orders {
		if r.u.orders[i].ID == o.ID {
			r.u.orders[i] = *o
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryOrders) Get(ctx context.Context, value string) (*invoicing.InvoiceOrder, error) {
	return r.GetBy(ctx, "payer_name", value)
}

func (r *memoryOrders) GetBy(_ context.Context, field, value string) (*invoicing.InvoiceOrder, error) {
	var found []invoicing.InvoiceOrder
	for _, o := range r.u.orders {
		switch field {
		case "payer_name":
			if o.PayerName == value {
				found = append(found, *r.hydrate(o))
			}
		case "number":
			if o.Number != nil && *o.Number == value {
				found = append(found, *r.hydrate(o))
			}
		}
	}
	return exactlyOne(found)
}

func (r *memoryOrders) GetByID(_ context.Context, id uuid.UUID) (*invoicing.InvoiceOrder, error) {
	for _, o := range r.u.orders {
		if o.ID == id {
			return r.hydrate(o), nil
		}
	}
	return nil, nil
}

func (r *memoryOrders) ListAll(_ context.Context) ([]invoicing.InvoiceOrder, error) {
	out := make([]invoicing.InvoiceOrder, 0, len(r.u.orders))
	for _, o := range r.u.orders {
		out = append(out, *r.hydrate(o))
	}
	return out, nil
}

func (r *memoryOrders) DeleteByID(_ context.Context, id uuid.UUID) error {
	for i := range r.u.orders {
		if r.u.orders[i].ID == id {
			r.u.orders = append(r.u.orders[:i], r.u.orders[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type memorySeqs struct{ u *memoryUoW }

func (r *memorySeqs) Find(_ context.Context, prefix string) (*invoicing.Sequence, error) {
	v, ok := r.u.seqs[prefix]
	if !ok {
		return nil, nil
	}
	return &invoicing.Sequence{Prefix: prefix, LastValue: v}, nil
}

func (r *memorySeqs) Save(_ context.Context, seq *invoicing.Sequence) error {
	r.u.seqs[seq.Prefix] = seq.LastValue
	return nil
}

func exactlyOne[T any](found []T) (*T, error) {
	switch len(found) {
	case 0:
		return nil, shared.ErrNotFound
	case 1:
		return &found[0], nil
	default:
		return nil, shared.ErrNotUnique
	}
}

func sortedPayerNames(payers []invoicing.PayerView) []string {
	names := make([]string, 0, len(payers))
	for _, p := range payers {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

var (
	_ UnitOfWorkFactory = (*memoryStore)(nil)
	_ UnitOfWork        = (*memoryUoW)(nil)
)
