// Package middleware holds the session, flash and access control layers
// shared by the HTML pages and the JSON API.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/cvfolio/cvfolio/pkg/auth"
)

const (
	CookieName = "cvfolio_sid"

	keyUserID       = "userId"
	keyUserEmail    = "userEmail"
	keyUserName     = "userName"
	keyFlashType    = "flashType"
	keyFlashMessage = "flashMessage"

	// Locals keys, also visible to templates.
	LocalUser  = "user"
	LocalFlash = "flash"
)

type SessionUser struct {
	ID    int
	Email string
	Name  string
}

type Flash struct {
	Type    string
	Message string
}

// Sessions wraps the Fiber session store with the account and flash helpers.
type Sessions struct {
	store *session.Store
}

// NewSessions builds the session store. storage may be nil for in-memory sessions.
func NewSessions(ttl time.Duration, storage fiber.Storage, secure bool) *Sessions {
	return &Sessions{store: session.New(session.Config{
		Expiration:     ttl,
		Storage:        storage,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})}
}

// Login binds the user to a fresh session id. The welcome flash is stored in
// the same write: a later Get in this request would still resolve the old id
// from the request cookie.
func (s *Sessions) Login(c *fiber.Ctx, u auth.User, welcome string) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(keyUserID, u.ID)
	sess.Set(keyUserEmail, u.Email)
	sess.Set(keyUserName, u.DisplayName())
	if welcome != "" {
		sess.Set(keyFlashType, "success")
		sess.Set(keyFlashMessage, welcome)
	}
	return sess.Save()
}

func (s *Sessions) Logout(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// SetFlash stores a message shown once on the next rendered page.
func (s *Sessions) SetFlash(c *fiber.Ctx, typ, message string) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyFlashType, typ)
	sess.Set(keyFlashMessage, message)
	return sess.Save()
}

// User returns the signed-in user loaded by Load.
func User(c *fiber.Ctx) (SessionUser, bool) {
	u, ok := c.Locals(LocalUser).(SessionUser)
	return u, ok
}

// Load exposes the session user and the pending flash to handlers and
// templates. The flash is removed from the session as soon as it is read.
func (s *Sessions) Load() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.store.Get(c)
		if err != nil {
			return err
		}
		if id, ok := asInt(sess.Get(keyUserID)); ok {
			email, _ := sess.Get(keyUserEmail).(string)
			name, _ := sess.Get(keyUserName).(string)
			c.Locals(LocalUser, SessionUser{ID: id, Email: email, Name: name})
		}
		if msg, ok := sess.Get(keyFlashMessage).(string); ok && msg != "" {
			typ, _ := sess.Get(keyFlashType).(string)
			c.Locals(LocalFlash, Flash{Type: typ, Message: msg})
			sess.Delete(keyFlashType)
			sess.Delete(keyFlashMessage)
			if err := sess.Save(); err != nil {
				return err
			}
		}
		return c.Next()
	}
}

// RequireLogin redirects anonymous visitors of the admin pages to /login.
func (s *Sessions) RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := User(c); ok {
			return c.Next()
		}
		if err := s.SetFlash(c, "error", "Veuillez vous connecter pour accéder à l'administration"); err != nil {
			return err
		}
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
