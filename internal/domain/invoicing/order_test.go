package invoicing

import (
	"errors"
	"testing"
	"time"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceOrder(t *testing.T) {
	o := NewInvoiceOrder(uuid.New(), "pepe", time.Date(2024, 2, 3, 15, 4, 5, 0, time.UTC), d("80.00"), nil)

	assert.Equal(t, "PEPE", o.PayerName)
	assert.Equal(t, date(2024, 2, 3), o.Date)
	assert.False(t, o.HasNumber())
	assert.Nil(t, o.AllocatedPayer())
}

func TestInvoiceOrder_AllocatePayer(t *testing.T) {
	o := NewInvoiceOrder(uuid.New(), "pepe", date(2024, 2, 3), d("80"), nil)
	p, err := NewPayer(uuid.New(), "Pepe Lopez", "", Address{})
	require.NoError(t, err)

	o.AllocatePayer(p)
	require.NotNil(t, o.PayerID)
	assert.Equal(t, p.ID, *o.PayerID)
	assert.Same(t, p, o.AllocatedPayer())

	o.AllocatePayer(nil)
	assert.Nil(t, o.PayerID)
	assert.Nil(t, o.AllocatedPayer())
}

func TestInvoiceOrder_SameNaturalKey(t *testing.T) {
	a := NewInvoiceOrder(uuid.New(), "pepe", date(2024, 2, 3), d("80.0"), ptr("T-0001"))
	b := NewInvoiceOrder(uuid.New(), "PEPE", date(2024, 2, 3), d("80"), ptr("T-0001"))
	c := NewInvoiceOrder(uuid.New(), "pepe", date(2024, 2, 3), d("80"), nil)

	assert.True(t, a.SameNaturalKey(b))
	assert.False(t, a.SameNaturalKey(c))
	assert.True(t, c.SameNaturalKey(NewInvoiceOrder(uuid.New(), "pepe", date(2024, 2, 3), d("80"), nil)))
}

func TestInvoiceOrder_Apply(t *testing.T) {
	o := NewInvoiceOrder(uuid.New(), "pepe", date(2024, 2, 3), d("80"), nil)

	require.NoError(t, o.Apply(OrderPatch{Quantity: shared.Some(d("120"))}))
	assert.True(t, o.Quantity.Equal(d("120")))
	assert.Equal(t, "PEPE", o.PayerName)
	assert.Equal(t, date(2024, 2, 3), o.Date)
	assert.Nil(t, o.Number)

	require.NoError(t, o.Apply(OrderPatch{PayerName: shared.Some("juan"), Number: shared.Some("X-1")}))
	assert.Equal(t, "JUAN", o.PayerName)
	require.NotNil(t, o.Number)
	assert.Equal(t, "X-1", *o.Number)
}

func TestInvoiceOrder_ApplyKeepsAssignedNumber(t *testing.T) {
	o := NewInvoiceOrder(uuid.New(), "pepe", date(2024, 2, 3), d("80"), ptr("A123"))

	err := o.Apply(OrderPatch{Quantity: shared.Some(d("120")), Number: shared.Some("B999")})
	assert.True(t, errors.Is(err, shared.ErrAlreadyNumbered))
	assert.Equal(t, "A123", *o.Number)
	assert.True(t, o.Quantity.Equal(d("80")), "a rejected patch must not be partially applied")

	require.NoError(t, o.Apply(OrderPatch{Quantity: shared.Some(d("120")), Number: shared.Some("A123")}))
	assert.Equal(t, "A123", *o.Number)
	assert.True(t, o.Quantity.Equal(d("120")))
}

func TestInvoiceOrder_View(t *testing.T) {
	o := NewInvoiceOrder(uuid.New(), "pepe", date(2024, 2, 3), d("80"), ptr("T-0001"))
	v := o.View()
	assert.Equal(t, "2024-02-03", v.Date)
	assert.Equal(t, "PEPE", v.PayerName)
	assert.Equal(t, "T-0001", *v.Number)
	assert.Nil(t, v.PayerID)
}

func TestNewOrdersUploadedEvent(t *testing.T) {
	p, _ := NewPayer(uuid.New(), "pepe", "", Address{})
	a := NewInvoiceOrder(uuid.New(), "pepe", date(2024, 2, 3), d("80"), ptr("T-0001"))
	a.AllocatePayer(p)
	b := NewInvoiceOrder(uuid.New(), "luis", date(2024, 2, 4), d("20.5"), ptr("T-0002"))

	e := NewOrdersUploadedEvent([]*InvoiceOrder{a, b})
	assert.Equal(t, 2, e.Count)
	assert.Equal(t, 1, e.Unallocated)
	assert.True(t, e.Total.Equal(d("100.5")))
	assert.Equal(t, "T-0001", e.FirstNumber)
	assert.Equal(t, "T-0002", e.LastNumber)
}
