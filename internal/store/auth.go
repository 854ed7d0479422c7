// Package store holds the client-side state of the storefront: the
// authenticated identity, the favorites set, the session cart and the
// persisted order log. Each store is the sole writer of its own keys in
// the injected kvstore.Store.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kugihands/internal/kvstore"
	"kugihands/internal/models"
)

const (
	usersKey   = "kugihands-users"
	sessionKey = "kugihands-user"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoActiveSession    = errors.New("no active session")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Auth owns the current authenticated identity. The all-identities
// collection and the active-session snapshot live under separate keys;
// the snapshot never contains the password hash.
type Auth struct {
	kv       kvstore.Store
	errorLog *log.Logger
	current  *models.Identity
	onChange []func(*models.Identity)
}

// NewAuth restores a previously persisted session if one exists. A corrupt
// snapshot is discarded and treated as no session.
func NewAuth(kv kvstore.Store, errorLog *log.Logger) *Auth {
	a := &Auth{kv: kv, errorLog: errorLog}
	a.restoreSession()
	return a
}

func (a *Auth) restoreSession() {
	raw, ok, err := a.kv.Get(sessionKey)
	if err != nil || !ok {
		return
	}
	var identity models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		a.logf("discarding corrupt session snapshot: %v", err)
		a.kv.Delete(sessionKey)
		return
	}
	sanitized := identity.Sanitized()
	a.current = &sanitized
}

func (a *Auth) logf(format string, args ...any) {
	if a.errorLog != nil {
		a.errorLog.Printf(format, args...)
	}
}

// OnSessionChange registers fn to run whenever a session activates or
// ends. fn receives the sanitized identity, or nil on logout.
func (a *Auth) OnSessionChange(fn func(*models.Identity)) {
	a.onChange = append(a.onChange, fn)
}

func (a *Auth) notify() {
	for _, fn := range a.onChange {
		fn(a.Current())
	}
}

// Current returns a copy of the active session identity, or nil.
func (a *Auth) Current() *models.Identity {
	if a.current == nil {
		return nil
	}
	identity := *a.current
	return &identity
}

func (a *Auth) IsAuthenticated() bool {
	return a.current != nil
}

// Registration is the input to Register. Field rules mirror the signup
// form: every field is required and the password needs six characters.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
}

// Register creates a new identity, persists it into the all-identities
// collection and activates it as the current session. It fails with
// ErrDuplicateEmail when the email is taken and with a
// *models.ValidationError when the input is incomplete.
func (a *Auth) Register(input Registration) (*models.Identity, error) {
	if fields := models.FieldErrors(input); fields != nil {
		return nil, &models.ValidationError{Fields: fields}
	}

	identities := a.loadIdentities()
	for _, existing := range identities {
		if existing.Email == input.Email {
			return nil, ErrDuplicateEmail
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity := models.Identity{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hashed),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Address:      input.Address,
		CreatedAt:    time.Now(),
	}

	if err := a.saveIdentities(append(identities, identity)); err != nil {
		return nil, err
	}
	if err := a.activate(identity); err != nil {
		a.saveIdentities(identities) // best-effort rollback of the new record
		return nil, err
	}
	return a.Current(), nil
}

// Login activates the identity matching email and password, failing with
// ErrInvalidCredentials when either does not match.
func (a *Auth) Login(email, password string) (*models.Identity, error) {
	for _, identity := range a.loadIdentities() {
		if identity.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		if err := a.activate(identity); err != nil {
			return nil, err
		}
		return a.Current(), nil
	}
	return nil, ErrInvalidCredentials
}

// Logout ends the session and removes the persisted snapshot. The
// identity record itself is kept.
func (a *Auth) Logout() error {
	if err := a.kv.Delete(sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.current = nil
	a.notify()
	return nil
}

// ProfilePatch carries the editable profile fields; empty fields are left
// as they are. Email and password are not editable here.
type ProfilePatch struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// UpdateProfile merges patch into both the all-identities record and the
// active session snapshot, persisting each.
func (a *Auth) UpdateProfile(patch ProfilePatch) (*models.Identity, error) {
	if a.current == nil {
		return nil, ErrNoActiveSession
	}

	identities := a.loadIdentities()
	index := -1
	for i, identity := range identities {
		if identity.ID == a.current.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNoActiveSession
	}

	merged := applyPatch(identities[index], patch)
	identities[index] = merged
	if err := a.saveIdentities(identities); err != nil {
		return nil, err
	}

	sanitized := merged.Sanitized()
	if err := a.persistSession(sanitized); err != nil {
		return nil, err
	}
	a.current = &sanitized
	return a.Current(), nil
}

func applyPatch(identity models.Identity, patch ProfilePatch) models.Identity {
	if patch.FirstName != "" {
		identity.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		identity.LastName = patch.LastName
	}
	if patch.Phone != "" {
		identity.Phone = patch.Phone
	}
	if patch.Address != "" {
		identity.Address = patch.Address
	}
	return identity
}

func (a *Auth) activate(identity models.Identity) error {
	sanitized := identity.Sanitized()
	if err := a.persistSession(sanitized); err != nil {
		return err
	}
	a.current = &sanitized
	a.notify()
	return nil
}

func (a *Auth) persistSession(identity models.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := a.kv.Set(sessionKey, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (a *Auth) loadIdentities() []models.Identity {
	raw, ok, err := a.kv.Get(usersKey)
	if err != nil || !ok {
		return nil
	}
	var identities []models.Identity
	if err := json.Unmarshal([]byte(raw), &identities); err != nil {
		a.logf("discarding corrupt identities collection: %v", err)
		return nil
	}
	return identities
}

func (a *Auth) saveIdentities(identities []models.Identity) error {
	raw, err := json.Marshal(identities)
	if err != nil {
		return fmt.Errorf("encode identities: %w", err)
	}
	if err := a.kv.Set(usersKey, string(raw)); err != nil {
		return fmt.Errorf("persist identities: %w", err)
	}
	return nil
}
