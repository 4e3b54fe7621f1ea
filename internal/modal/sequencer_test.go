package modal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bazar/internal/catalog/models"
	"bazar/internal/modal/mocks"
	"bazar/internal/platform/logger"
)

type SequencerSuite struct {
	suite.Suite
	ctx  context.Context
	cart *mocks.MockSummaryRefresher
	seq  *Sequencer
}

var (
	mug = models.Product{Details: models.Details{ProductID: "1", Name: "Mug"}}
	tee = models.Product{Details: models.Details{ProductID: "2", Name: "Tee"}}
)

func TestSequencerSuite(t *testing.T) {
	suite.Run(t, new(SequencerSuite))
}

func (s *SequencerSuite) SetupTest() {
	s.ctx = context.Background()
	s.cart = mocks.NewMockSummaryRefresher(gomock.NewController(s.T()))
	s.seq = New(s.cart, WithLogger(logger.Discard()))
}

func (s *SequencerSuite) TestProductDetail() {
	s.seq.SelectProduct(mug)
	s.Equal(State{Kind: ProductDetail, Product: &mug}, s.seq.State())

	s.seq.SelectProduct(tee)
	s.Equal("Tee", s.seq.State().Product.Details.Name)

	s.seq.CloseProductDetail()
	s.Equal(State{}, s.seq.State())
}

func (s *SequencerSuite) TestOrderSummaryToCheckout() {
	s.cart.EXPECT().FetchSummary(gomock.Any()).Return(nil)
	s.seq.SelectProduct(mug)
	s.seq.OpenOrderSummary(s.ctx)
	s.Equal(OrderSummary, s.seq.State().Kind)
	s.Nil(s.seq.State().Product)

	s.Require().NoError(s.seq.ProceedToCheckout())
	s.Equal(Checkout, s.seq.State().Kind)

	s.cart.EXPECT().FetchSummary(gomock.Any()).Return(nil)
	s.seq.CloseCheckout(s.ctx)
	s.Equal(None, s.seq.State().Kind)
}

func (s *SequencerSuite) TestProceedToCheckoutRequiresOrderSummary() {
	for _, setup := range []func(){
		func() {},
		func() { s.seq.SelectProduct(mug) },
	} {
		s.SetupTest()
		setup()
		before := s.seq.State()
		s.Require().ErrorIs(s.seq.ProceedToCheckout(), ErrIllegalTransition)
		s.Equal(before, s.seq.State())
	}
}

func (s *SequencerSuite) TestCloseOnlyAffectsItsOwnOverlay() {
	s.seq.SelectProduct(mug)
	s.seq.CloseOrderSummary(s.ctx)
	s.seq.CloseCheckout(s.ctx)
	s.Equal(ProductDetail, s.seq.State().Kind)

	s.cart.EXPECT().FetchSummary(gomock.Any()).Return(nil)
	s.seq.OpenOrderSummary(s.ctx)
	s.seq.CloseProductDetail()
	s.Equal(OrderSummary, s.seq.State().Kind)
}

func (s *SequencerSuite) TestCloseOrderSummaryRefreshesOnce() {
	s.cart.EXPECT().FetchSummary(gomock.Any()).Return(nil).Times(2)
	s.seq.OpenOrderSummary(s.ctx)

	s.seq.CloseOrderSummary(s.ctx)
	s.Equal(None, s.seq.State().Kind)

	s.seq.CloseOrderSummary(s.ctx)
	s.Equal(None, s.seq.State().Kind)
}

func (s *SequencerSuite) TestRefreshFailureIsNotFatal() {
	s.cart.EXPECT().FetchSummary(gomock.Any()).Return(errors.New("backend down"))
	s.seq.OpenOrderSummary(s.ctx)
	s.Equal(OrderSummary, s.seq.State().Kind)
}

func (s *SequencerSuite) TestClose() {
	s.Run("from product detail does not refresh", func() {
		s.SetupTest()
		s.seq.SelectProduct(mug)
		s.seq.Close(s.ctx)
		s.Equal(None, s.seq.State().Kind)
	})

	s.Run("from checkout refreshes", func() {
		s.SetupTest()
		s.cart.EXPECT().FetchSummary(gomock.Any()).Return(nil).Times(2)
		s.seq.OpenOrderSummary(s.ctx)
		s.Require().NoError(s.seq.ProceedToCheckout())
		s.seq.Close(s.ctx)
		s.Equal(None, s.seq.State().Kind)
	})
}

func (s *SequencerSuite) TestDismissNeverRefreshes() {
	s.cart.EXPECT().FetchSummary(gomock.Any()).Return(nil).Times(1)
	s.seq.OpenOrderSummary(s.ctx)
	s.seq.Dismiss()
	s.Equal(State{}, s.seq.State())
}

func (s *SequencerSuite) TestKindString() {
	s.Equal("none", None.String())
	s.Equal("product_detail", ProductDetail.String())
	s.Equal("order_summary", OrderSummary.String())
	s.Equal("checkout", Checkout.String())
}
