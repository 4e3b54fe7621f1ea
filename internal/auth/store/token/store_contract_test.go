package token

import (
	"context"
	"sync"

	"github.com/stretchr/testify/suite"

	"bazar/pkg/platform/sentinel"
)

type store interface {
	Set(ctx context.Context, kind Kind, value string) error
	SetMany(ctx context.Context, values map[Kind]string) error
	Get(ctx context.Context, kind Kind) (string, error)
	Clear(ctx context.Context, kinds ...Kind) error
	ClearAll(ctx context.Context) error
}

// storeContractSuite holds behaviour every token store must share. Concrete
// suites embed it and provide newStore.
type storeContractSuite struct {
	suite.Suite
	ctx      context.Context
	newStore func() store
}

func (s *storeContractSuite) TestGetSet() {
	s.Run("returns ErrNotFound for a missing kind", func() {
		st := s.newStore()
		_, err := st.Get(s.ctx, KindAccessToken)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns the stored value", func() {
		st := s.newStore()
		s.Require().NoError(st.Set(s.ctx, KindAuthState, "nonce-1"))

		got, err := st.Get(s.ctx, KindAuthState)
		s.Require().NoError(err)
		s.Equal("nonce-1", got)
	})

	s.Run("empty value removes the kind", func() {
		st := s.newStore()
		s.Require().NoError(st.Set(s.ctx, KindAuthRedirect, "/cart"))
		s.Require().NoError(st.Set(s.ctx, KindAuthRedirect, ""))

		_, err := st.Get(s.ctx, KindAuthRedirect)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects unknown kinds", func() {
		st := s.newStore()
		s.Require().Error(st.Set(s.ctx, Kind("refresh_token"), "x"))
	})
}

func (s *storeContractSuite) TestSetMany() {
	s.Run("writes every value", func() {
		st := s.newStore()
		s.Require().NoError(st.SetMany(s.ctx, map[Kind]string{
			KindAccessToken: "access",
			KindIDToken:     "identity",
		}))

		access, err := st.Get(s.ctx, KindAccessToken)
		s.Require().NoError(err)
		identity, err := st.Get(s.ctx, KindIDToken)
		s.Require().NoError(err)
		s.Equal("access", access)
		s.Equal("identity", identity)
	})

	s.Run("readers never see half a token pair", func() {
		st := s.newStore()
		s.Require().NoError(st.SetMany(s.ctx, map[Kind]string{KindAccessToken: "a0", KindIDToken: "i0"}))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= 50; i++ {
				_ = st.SetMany(s.ctx, map[Kind]string{
					KindAccessToken: "a" + string(rune('0'+i%10)),
					KindIDToken:     "i" + string(rune('0'+i%10)),
				})
			}
		}()
		for i := 0; i < 50; i++ {
			access, err := st.Get(s.ctx, KindAccessToken)
			s.Require().NoError(err)
			s.Require().Len(access, 2)
		}
		wg.Wait()

		access, _ := st.Get(s.ctx, KindAccessToken)
		identity, _ := st.Get(s.ctx, KindIDToken)
		s.Equal(access[1:], identity[1:])
	})
}

func (s *storeContractSuite) TestClear() {
	s.Run("clears only the named kinds", func() {
		st := s.newStore()
		s.Require().NoError(st.SetMany(s.ctx, map[Kind]string{
			KindAccessToken: "access",
			KindAuthState:   "nonce",
		}))
		s.Require().NoError(st.Clear(s.ctx, KindAuthState))

		_, err := st.Get(s.ctx, KindAuthState)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		_, err = st.Get(s.ctx, KindAccessToken)
		s.Require().NoError(err)
	})

	s.Run("clearing a missing kind is not an error", func() {
		st := s.newStore()
		s.Require().NoError(st.Clear(s.ctx, KindIDToken))
		s.Require().NoError(st.Clear(s.ctx))
	})

	s.Run("ClearAll removes everything", func() {
		st := s.newStore()
		values := make(map[Kind]string, len(AllKinds))
		for _, k := range AllKinds {
			values[k] = "v-" + string(k)
		}
		s.Require().NoError(st.SetMany(s.ctx, values))
		s.Require().NoError(st.ClearAll(s.ctx))

		for _, k := range AllKinds {
			_, err := st.Get(s.ctx, k)
			s.Require().ErrorIs(err, sentinel.ErrNotFound, string(k))
		}
	})
}
