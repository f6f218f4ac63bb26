package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/testutil"
	"github.com/alumnet/alumni-backend/internal/validator"
)

func TestMain(m *testing.M) {
	validator.Setup()
	os.Exit(m.Run())
}

var (
	testLog    = zerolog.Nop()
	testHasher = NewBcryptHasher(bcrypt.MinCost)
)

var _ AccountStore = (*testutil.Accounts)(nil)

// recordingPublisher captures published notification events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.NotificationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev model.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) kinds() []model.NotificationKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.NotificationKind, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func studentReg(email, sap string) model.StudentRegistration {
	return model.StudentRegistration{
		RegistrationBase: model.RegistrationBase{Name: "Sara Khan", Email: email, Password: "secret123"},
		SapID:            sap,
		BatchSeason:      model.SeasonFall,
		BatchYear:        2022,
	}
}

func alumniReg(email string) model.AlumniRegistration {
	return model.AlumniRegistration{
		RegistrationBase: model.RegistrationBase{Name: "Omar Farooq", Email: email, Password: "secret123"},
		GradSeason:       model.SeasonSpring,
		GradYear:         2018,
	}
}
