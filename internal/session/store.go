// Package session keeps the bearer credential across restarts.
//
// The token lives in the local settings table and is mirrored into a
// cookie file next to it. Reads prefer the database and fall back to the
// cookie. Nothing in this package returns an error: storage failures are
// logged and the token is treated as absent.
package session

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// TokenKey is the settings key and cookie name of the credential
	TokenKey = "auth_token"

	cookieFile = "session.cookie"
)

// Settings is the durable key/value storage the store writes through to
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Store reads and writes the session token
type Store struct {
	settings   Settings
	cookiePath string
	now        func() time.Time
}

// NewStore creates a token store. settings may be nil, in which case only
// the cookie side channel is used.
func NewStore(settings Settings, dataDir string) *Store {
	return &Store{
		settings:   settings,
		cookiePath: filepath.Join(dataDir, cookieFile),
		now:        time.Now,
	}
}

// Get returns the stored token or "" when none is available
func (s *Store) Get() (token string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session] get failed: %v", r)
			token = ""
		}
	}()

	if s.settings != nil {
		t, err := s.settings.GetSetting(TokenKey)
		if err != nil {
			log.Printf("[session] read token from storage: %v", err)
		} else if t != "" {
			return t
		}
	}
	return s.readCookie()
}

// Set stores token in both locations
func (s *Store) Set(token string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session] set failed: %v", r)
		}
	}()

	if s.settings != nil {
		if err := s.settings.SetSetting(TokenKey, token); err != nil {
			log.Printf("[session] write token to storage: %v", err)
		}
	}
	c := &http.Cookie{
		Name:     TokenKey,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	s.writeCookie(c)
}

// Clear removes the token from both locations
func (s *Store) Clear() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session] clear failed: %v", r)
		}
	}()

	if s.settings != nil {
		if err := s.settings.DeleteSetting(TokenKey); err != nil {
			log.Printf("[session] delete token from storage: %v", err)
		}
	}
	c := &http.Cookie{
		Name:   TokenKey,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}
	s.writeCookie(c)
}

// LoggedIn reports whether a usable, unexpired token is stored
func (s *Store) LoggedIn() bool {
	t := s.Get()
	return t != "" && !Expired(t, s.now())
}

func (s *Store) readCookie() string {
	data, err := os.ReadFile(s.cookiePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[session] read cookie: %v", err)
		}
		return ""
	}
	c, err := http.ParseSetCookie(strings.TrimSpace(string(data)))
	if err != nil {
		log.Printf("[session] parse cookie: %v", err)
		return ""
	}
	if c.Name != TokenKey || c.MaxAge < 0 {
		return ""
	}
	return c.Value
}

func (s *Store) writeCookie(c *http.Cookie) {
	if err := os.MkdirAll(filepath.Dir(s.cookiePath), 0700); err != nil {
		log.Printf("[session] write cookie: %v", err)
		return
	}
	// String renders Max-Age=0 for a negative MaxAge
	if err := os.WriteFile(s.cookiePath, []byte(c.String()+"\n"), 0600); err != nil {
		log.Printf("[session] write cookie: %v", err)
	}
}
