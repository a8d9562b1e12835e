// Package auth implements the credential and token lifecycle for the
// commerce platform: registration, login, refresh token rotation, email
// verification, and password reset, backed by a persistent token store.
//
// Token lifecycle:
//   - Every verification, reset, and refresh token is persisted as a Token
//     record that moves exactly once from unused to used. Validity is a
//     derived predicate (!used && expires_at > now) checked at the point of
//     consumption, and consumption is guarded by a conditional update so
//     concurrent replays of the same value have exactly one winner.
//   - Refresh tokens are signed JWTs mirrored by a Token record; rotation
//     consumes the record before the successor pair is issued, and a
//     password reset revokes every outstanding refresh token of the owner.
//
// Collaborators:
//   - Storage is reached through the Users and Tokens repositories bundled
//     by RepositoryManager, which also provides the transaction boundary
//     the consume flows run under.
//   - Mailer delivers verification and reset links best-effort; a delivery
//     failure is logged and never fails the primary operation.
package auth
