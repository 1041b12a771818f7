package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/projecthub/config"
	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
	"github.com/oksasatya/projecthub/internal/infrastructure/memory"
	"github.com/oksasatya/projecthub/pkg/helpers"
	"github.com/oksasatya/projecthub/pkg/mailer"
)

const testFrontendURL = "https://app.example.com"

type testEnv struct {
	store    *memory.Store
	jwt      *helpers.JWTManager
	hasher   *helpers.PasswordHasher
	mail     *recordingMailer
	logs     *logtest.Hook
	logger   *logrus.Logger
	users    *UserService
	auth     *AuthService
	projects *ProjectService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	jwt, err := helpers.NewJWTManager("test-secret", "projecthub-test")
	require.NoError(t, err)
	hasher, err := helpers.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	logger, hook := logtest.NewNullLogger()

	env := &testEnv{
		store:  memory.NewStore(),
		jwt:    jwt,
		hasher: hasher,
		mail:   &recordingMailer{},
		logs:   hook,
		logger: logger,
	}
	env.users = NewUserService(env.store, hasher, jwt, (&config.Config{FrontendURL: testFrontendURL}).ConfirmURL, logger)
	env.users.Mailer = env.mail
	env.auth = NewAuthService(env.store, jwt, hasher, DefaultSignInTTL, logger)
	env.projects = NewProjectService(env.store, logger)
	return env
}

func (e *testEnv) register(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{Email: email, Name: "Test User", Password: "s3cret-pass"})
	require.NoError(t, err)
	return u
}

func (e *testEnv) project(t *testing.T, ownerID, name string) *entity.Project {
	t.Helper()
	p, err := e.projects.Create(context.Background(), ownerID, CreateProjectInput{Name: name})
	require.NoError(t, err)
	return p
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.ConfirmationMail
	err  error
}

func (m *recordingMailer) SendConfirmation(_ context.Context, cm mailer.ConfirmationMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, cm)
	return m.err
}

func (m *recordingMailer) last() mailer.ConfirmationMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

// faultyStore wraps a Store and swaps in a broken invite repository,
// including inside transactions.
type faultyStore struct {
	repository.Store
	invites func(repository.InviteRepository) repository.InviteRepository
}

func (f *faultyStore) Invites() repository.InviteRepository {
	return f.invites(f.Store.Invites())
}

func (f *faultyStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return f.Store.WithTx(ctx, func(tx repository.Store) error {
		return fn(&faultyStore{Store: tx, invites: f.invites})
	})
}

type failingDelete struct {
	repository.InviteRepository
}

func (failingDelete) DeleteByEmail(context.Context, string) (int64, error) {
	return 0, errors.New("disk full")
}

type cancelOnList struct {
	repository.InviteRepository
	cancel context.CancelFunc
}

func (c cancelOnList) ListByEmail(ctx context.Context, email string) ([]entity.Invite, error) {
	invs, err := c.InviteRepository.ListByEmail(ctx, email)
	c.cancel()
	return invs, err
}
