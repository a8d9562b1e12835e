package auth_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	auth "github.com/commercekit/go-auth"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func testConfig() *auth.Config {
	return &auth.Config{
		AccessSecret:  "access-secret-0123456789abcdef0123456789",
		AccessExpiry:  "15m",
		RefreshSecret: "refresh-secret-0123456789abcdef012345678",
		RefreshExpiry: "7d",
		BcryptCost:    4,
		Issuer:        "commercekit-test",
		FrontendURL:   "http://localhost:3000",
	}
}

func setupDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()

	_, err = db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewCreateTable().
		Model((*auth.Token)(nil)).
		IfNotExists().
		Exec(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.NewDropTable().Model((*auth.Token)(nil)).IfExists().Exec(ctx)
		db.NewDropTable().Model((*auth.User)(nil)).IfExists().Exec(ctx)
	})

	return db
}

func setupAuther(t *testing.T) (*auth.Auther, auth.RepositoryManager, *capturingMailer, *bun.DB) {
	t.Helper()

	db := setupDB(t)
	repo := auth.NewRepositoryManager(db)
	require.NoError(t, repo.Validate())

	mailer := &capturingMailer{}
	auther := auth.NewAuther(repo, testConfig()).
		WithMailer(mailer).
		WithLogger(silentLogger{})

	return auther, repo, mailer, db
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// capturingMailer records outgoing mail; dispatch is asynchronous so
// readers poll through Sent.
type capturingMailer struct {
	mu   sync.Mutex
	mail []sentMail
	err  error
}

func (m *capturingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.mail = append(m.mail, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *capturingMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.mail))
	copy(out, m.mail)
	return out
}

func (m *capturingMailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type silentLogger struct{}

func (silentLogger) Debug(format string, args ...any) {}
func (silentLogger) Info(format string, args ...any)  {}
func (silentLogger) Warn(format string, args ...any)  {}
func (silentLogger) Error(format string, args ...any) {}
