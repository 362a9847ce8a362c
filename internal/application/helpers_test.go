package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Widedbounou/SK-B/config"
	"github.com/Widedbounou/SK-B/internal/application/apptest"
	"github.com/Widedbounou/SK-B/internal/domain/entity"
	"github.com/Widedbounou/SK-B/pkg/helpers"
	"github.com/Widedbounou/SK-B/pkg/taxonomy"
)

type fixture struct {
	users    *apptest.UserRepo
	offers   *apptest.OfferRepo
	media    *apptest.MediaStore
	cache    *apptest.OfferCache
	index    *apptest.OfferIndex
	sessions *apptest.SessionCache
	queue    *apptest.Queue
	offerSvc *OfferService
	userSvc  *UserService
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tax, err := taxonomy.LoadDefault()
	require.NoError(t, err)

	f := &fixture{
		users:    apptest.NewUserRepo(),
		offers:   apptest.NewOfferRepo(),
		media:    apptest.NewMediaStore(),
		cache:    apptest.NewOfferCache(),
		index:    apptest.NewOfferIndex(),
		sessions: apptest.NewSessionCache(),
		queue:    &apptest.Queue{},
		clock:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	cfg := &config.Config{MediaRoot: "soukoni", MailSendEnabled: true, VerifyEmailURL: "https://soukoni.tz/verify", AppName: "Soukoni"}
	logger := helpers.NewNopLogger()

	f.offerSvc = NewOfferService(f.offers, f.users, f.media, tax, cfg.MediaRoot, logger)
	f.offerSvc.Cache = f.cache
	f.offerSvc.Index = f.index
	f.offerSvc.now = f.tick

	f.userSvc = NewUserService(f.users, f.media, helpers.NewJWTManager("test-secret", time.Hour), cfg, logger)
	f.userSvc.Sessions = f.sessions
	f.userSvc.Emails = f.queue
	f.userSvc.now = f.tick
	return f
}

// tick advances the clock one second per call so creation order is stable.
func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fixture) signup(t *testing.T, email, username string) *entity.User {
	t.Helper()
	view, _, err := f.userSvc.Signup(context.Background(), SignupInput{
		Email:    email,
		Password: "secret",
		Username: username,
		Phone:    "+255 712 345 678",
	}, nil)
	require.NoError(t, err)
	u, err := f.users.GetByID(context.Background(), view.ID)
	require.NoError(t, err)
	return u
}

func (f *fixture) admin(t *testing.T) *entity.User {
	t.Helper()
	view, err := f.userSvc.CreateAdmin(context.Background(), SignupInput{
		Email:    "admin@soukoni.tz",
		Password: "root",
		Username: "admin",
		Phone:    "+255 700 000 000",
	})
	require.NoError(t, err)
	u, err := f.users.GetByID(context.Background(), view.ID)
	require.NoError(t, err)
	return u
}

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }
func boolPtr(b bool) *bool      { return &b }
