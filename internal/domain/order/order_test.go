package order

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/product-cart/internal/domain/cart"
	"github.com/your-org/product-cart/internal/domain/catalog"
	"github.com/your-org/product-cart/internal/infrastructure/storage/memory"
)

type fakePublisher struct {
	published []*Confirmation
	err       error
}

func (f *fakePublisher) PublishCartCheckedOut(_ context.Context, c *Confirmation) error {
	f.published = append(f.published, c)
	return f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(bytes.NewBuffer(nil))
	return l
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Product{
		{ID: "1", Name: "Waffle with Berries", Price: decimal.RequireFromString("6.50"), Image: catalog.Image{Thumbnail: "w.jpg", Desktop: "w.jpg"}},
		{ID: "2", Name: "Vanilla Bean Crème Brûlée", Price: decimal.RequireFromString("7.00"), Image: catalog.Image{Desktop: "c.jpg"}},
		{ID: "3", Name: "Macaron Mix of Five", Price: decimal.RequireFromString("8.00"), Image: catalog.Image{Desktop: "m.jpg"}},
	})
}

func newTestService(pub Publisher) (*Service, *cart.Service) {
	carts := cart.NewService(memory.NewStore(), "cart", quietLogger())
	return NewService(carts, testCatalog(), pub, quietLogger()), carts
}

func TestSummarize(t *testing.T) {
	s := Summarize(testCatalog(), cart.Snapshot{"3": 1, "1": 2, "404": 5})

	require.Len(t, s.Lines, 2)
	assert.Equal(t, cart.ProductID("1"), s.Lines[0].ProductID)
	assert.Equal(t, "13", s.Lines[0].LineTotal.String())
	assert.Equal(t, "w.jpg", s.Lines[0].Thumbnail)
	assert.Equal(t, cart.ProductID("3"), s.Lines[1].ProductID)
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, "$21.00", Money(s.Total))
	assert.False(t, s.Empty)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(testCatalog(), cart.Snapshot{})
	assert.True(t, s.Empty)
	assert.Empty(t, s.Lines)
	assert.Zero(t, s.Count)
	assert.Equal(t, "$0.00", Money(s.Total))
}

func TestSummarizeDuplicateIDPricedOnce(t *testing.T) {
	c := catalog.New([]catalog.Product{
		{ID: "1", Name: "first", Price: decimal.NewFromInt(2)},
		{ID: "1", Name: "second", Price: decimal.NewFromInt(9)},
	})
	s := Summarize(c, cart.Snapshot{"1": 3})
	require.Len(t, s.Lines, 1)
	assert.Equal(t, "first", s.Lines[0].Name)
	assert.Equal(t, "$6.00", Money(s.Total))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$5.50", Money(decimal.RequireFromString("5.5")))
	assert.Equal(t, "$0.10", Money(decimal.RequireFromString("0.1")))
	assert.Equal(t, "$12.00", Money(decimal.NewFromInt(12)))
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc, carts := newTestService(pub)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

	owner := cart.SessionOwner("abc")
	_, err := carts.Add(ctx, owner, "2")
	require.NoError(t, err)
	_, err = carts.Add(ctx, owner, "2")
	require.NoError(t, err)

	conf, err := svc.Confirm(ctx, owner)
	require.NoError(t, err)

	_, err = uuid.Parse(conf.OrderID)
	assert.NoError(t, err)
	assert.Regexp(t, `^ORD-20260314-[0-9A-F]{8}$`, conf.OrderNumber)
	assert.Equal(t, owner, conf.Owner)
	assert.Equal(t, "$14.00", Money(conf.Summary.Total))

	require.Len(t, pub.published, 1)
	assert.Same(t, conf, pub.published[0])

	// the cart stays until a new order is started
	count, err := carts.Count(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestConfirmEmptyCart(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(pub)

	_, err := svc.Confirm(context.Background(), cart.SessionOwner("nobody"))
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, pub.published)
}

func TestConfirmPublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	svc, carts := newTestService(&fakePublisher{err: errors.New("broker down")})

	owner := cart.UserOwner("7")
	_, err := carts.Add(ctx, owner, "1")
	require.NoError(t, err)

	conf, err := svc.Confirm(ctx, owner)
	require.NoError(t, err)
	assert.NotEmpty(t, conf.OrderID)
}

func TestConfirmWithoutPublisher(t *testing.T) {
	ctx := context.Background()
	svc, carts := newTestService(nil)

	owner := cart.UserOwner("7")
	_, err := carts.Add(ctx, owner, "1")
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, owner)
	assert.NoError(t, err)
}

func TestStartNew(t *testing.T) {
	ctx := context.Background()
	svc, carts := newTestService(nil)

	owner := cart.SessionOwner("abc")
	_, err := carts.Add(ctx, owner, "1")
	require.NoError(t, err)

	snapshot, err := svc.StartNew(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, snapshot)

	summary, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.True(t, summary.Empty)
}
