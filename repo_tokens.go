package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ConsumeTokenSQL flips a token to used only if it is still unused. The
// predicate is what makes concurrent consumption of the same value have
// exactly one winner; losers see an empty result set.
var ConsumeTokenSQL = `UPDATE "tokens" AS "tkn"
SET
	"is_used" = TRUE
WHERE
	"tkn"."id" = ?
AND
	"tkn"."is_used" = FALSE
RETURNING *;`

type Tokens interface {
	repository.Repository[*Token]

	Issue(ctx context.Context, ownerID uuid.UUID, kind TokenKind, value string, expiresAt time.Time) (*Token, error)
	IssueTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, kind TokenKind, value string, expiresAt time.Time) (*Token, error)

	FindActive(ctx context.Context, value string, kind TokenKind, ownerID *uuid.UUID) (*Token, error)
	FindActiveTx(ctx context.Context, tx bun.IDB, value string, kind TokenKind, ownerID *uuid.UUID) (*Token, error)

	Consume(ctx context.Context, id uuid.UUID) (*Token, error)
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Token, error)

	ConsumeAll(ctx context.Context, ownerID uuid.UUID, kind TokenKind) error
	ConsumeAllTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, kind TokenKind) error
}

type tokens struct {
	repository.Repository[*Token]
	db *bun.DB
}

var (
	_ Tokens                        = (*tokens)(nil)
	_ repository.Repository[*Token] = (*tokens)(nil)
)

func NewTokensRepository(db *bun.DB) Tokens {
	repo := repository.NewRepository[*Token](db, repository.ModelHandlers[*Token]{
		NewRecord: func() *Token { return &Token{} },
		GetID: func(t *Token) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Token, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &tokens{
		Repository: repo,
		db:         db,
	}
}

func (a *tokens) Issue(ctx context.Context, ownerID uuid.UUID, kind TokenKind, value string, expiresAt time.Time) (*Token, error) {
	return a.IssueTx(ctx, a.db, ownerID, kind, value, expiresAt)
}

func (a *tokens) IssueTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, kind TokenKind, value string, expiresAt time.Time) (*Token, error) {
	record := &Token{
		ID:        uuid.New(),
		UserID:    ownerID,
		Value:     value,
		Kind:      kind,
		ExpiresAt: expiresAt,
	}

	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *tokens) FindActive(ctx context.Context, value string, kind TokenKind, ownerID *uuid.UUID) (*Token, error) {
	return a.FindActiveTx(ctx, a.db, value, kind, ownerID)
}

// FindActiveTx returns the unused, unexpired token matching the value and
// kind, optionally scoped to an owner. Scoping is optional because
// verification and reset flows only have the token value in hand, while
// refresh rotation also pins the JWT subject.
func (a *tokens) FindActiveTx(ctx context.Context, tx bun.IDB, value string, kind TokenKind, ownerID *uuid.UUID) (*Token, error) {
	record := &Token{}
	q := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", value).
		Where("?TableAlias.kind = ?", kind).
		Where("?TableAlias.is_used = ?", false).
		Where("?TableAlias.expires_at > ?", time.Now())

	if ownerID != nil {
		q = q.Where("?TableAlias.user_id = ?", *ownerID)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"kind": kind,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *tokens) Consume(ctx context.Context, id uuid.UUID) (*Token, error) {
	return a.ConsumeTx(ctx, a.db, id)
}

// ConsumeTx marks the token used. It returns record-not-found when the
// token was already consumed, which callers treat the same as a missing
// token.
func (a *tokens) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Token, error) {
	res, err := a.Repository.RawTx(ctx, tx, ConsumeTokenSQL, id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return res[0], nil
}

func (a *tokens) ConsumeAll(ctx context.Context, ownerID uuid.UUID, kind TokenKind) error {
	return a.ConsumeAllTx(ctx, a.db, ownerID, kind)
}

func (a *tokens) ConsumeAllTx(ctx context.Context, tx bun.IDB, ownerID uuid.UUID, kind TokenKind) error {
	_, err := tx.NewRaw(`
		UPDATE "tokens" AS "tkn"
		SET
			"is_used" = TRUE
		WHERE
			("tkn".user_id = ?)
			AND ("tkn".kind = ?)
			AND "tkn"."is_used" = FALSE;
	`, ownerID, kind).Exec(ctx)

	return err
}

// RandomTokenValue returns a high-entropy opaque token value for
// verification and reset links: 32 random bytes, hex encoded.
func RandomTokenValue() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
