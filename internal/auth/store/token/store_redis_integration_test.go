//go:build integration

package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "bazar/pkg/domain"
	"bazar/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	storeContractSuite
	redis *containers.RedisContainer
}

func (s *RedisStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	s.newStore = func() store {
		return NewRedisStore(s.redis.Client, id.NewSessionID(), time.Hour)
	}
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) TestSessionScoping() {
	s.Run("sessions do not see each other's values", func() {
		a := NewRedisStore(s.redis.Client, id.NewSessionID(), time.Hour)
		b := NewRedisStore(s.redis.Client, id.NewSessionID(), time.Hour)
		s.Require().NoError(a.Set(s.ctx, KindAccessToken, "a-token"))

		_, err := b.Get(s.ctx, KindAccessToken)
		s.Require().Error(err)
	})

	s.Run("a resumed session reads the stored values", func() {
		sessionID := id.NewSessionID()
		first := NewRedisStore(s.redis.Client, sessionID, time.Hour)
		s.Require().NoError(first.Set(s.ctx, KindAccessToken, "kept"))

		resumed := NewRedisStore(s.redis.Client, sessionID, time.Hour)
		got, err := resumed.Get(s.ctx, KindAccessToken)
		s.Require().NoError(err)
		s.Equal("kept", got)
	})

	s.Run("writes set the session TTL", func() {
		st := NewRedisStore(s.redis.Client, id.NewSessionID(), time.Minute)
		s.Require().NoError(st.Set(s.ctx, KindIDToken, "identity"))

		ttl, err := s.redis.Client.TTL(s.ctx, sessionKeyPrefix+st.SessionID().String()).Result()
		s.Require().NoError(err)
		s.Greater(ttl, time.Duration(0))
		s.LessOrEqual(ttl, time.Minute)
	})
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}
