// Package session owns the authentication credential and the identity
// decoded from it. It is the single owner of session state: everything
// else observes read-only snapshots through Identity and Token.
package session

import (
	"context"
	"errors"
	"sync"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/pkg/util"
)

// AuthAPI is the transport slice the manager needs for logging in.
type AuthAPI interface {
	Login(ctx context.Context, login, secret string) (string, error)
}

// Manager holds at most one active credential and the identity decoded
// from it. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	store    CredentialStore
	api      AuthAPI
	logger   *zap.Logger
	token    string
	identity domain.Identity
}

// NewManager builds a manager persisting credentials in the given store.
func NewManager(store CredentialStore, api AuthAPI, logger *zap.Logger) *Manager {
	return &Manager{store: store, api: api, logger: logger}
}

// Restore loads a previously persisted credential if one exists. Decode
// failures clear the session (fail-closed) and are logged, never returned:
// callers simply observe an empty identity afterwards.
func (m *Manager) Restore() {
	token, err := m.store.Read()
	if err != nil {
		m.logger.Warn("failed to read persisted credential", zap.Error(err))
		return
	}
	if token == "" {
		return
	}
	if err := m.adopt(token, false); err != nil {
		m.logger.Warn("persisted credential invalid, clearing session", zap.Error(err))
		m.Logout()
	}
}

// Login authenticates against the backend and adopts the returned
// credential. A rejected login surfaces as AuthenticationFailed, a
// transport failure as NetworkUnavailable; an undecodable token from the
// server clears the session and surfaces as InvalidCredential.
func (m *Manager) Login(ctx context.Context, login, secret string) error {
	token, err := m.api.Login(ctx, login, secret)
	if err != nil {
		return err
	}
	if err := m.adopt(token, true); err != nil {
		m.Logout()
		return util.NewInvalidCredential(err)
	}
	return nil
}

// Logout clears the credential and identity unconditionally. In-flight
// requests holding the old token are expected to fail on their own and be
// handled by their callers.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.identity = domain.Identity{}
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear persisted credential", zap.Error(err))
	}
}

// Identity returns a read-only snapshot of the current identity.
func (m *Manager) Identity() domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}

// Token returns the current credential, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Authenticated reports whether a credential is held.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

func (m *Manager) adopt(token string, persist bool) error {
	identity, err := DecodeIdentity(token)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.identity = identity
	m.mu.Unlock()

	if persist {
		if err := m.store.Write(token); err != nil {
			m.logger.Warn("failed to persist credential", zap.Error(err))
		}
	}
	return nil
}

// DecodeIdentity extracts identity claims from the payload segment of a
// signed credential. The signature is not validated: the token is
// trust-on-receipt from a server already authenticated over a secure
// channel, so only the claims are read.
func DecodeIdentity(token string) (domain.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.Identity{}, err
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return domain.Identity{}, errors.New("credential has no subject")
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name = "User"
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = string(domain.RoleUser)
	}

	return domain.Identity{
		Login: subject,
		Name:  name,
		Email: subject,
		Role:  domain.Role(role),
	}, nil
}
