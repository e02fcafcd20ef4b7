package cache

import (
	"bytes"
	"encoding/base32"
	"encoding/gob"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gorilla/securecookie"
	gorillasessions "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "sess:"

// SessionStore is a gin-contrib/sessions store backed by the shared Redis
// client. The cookie only carries an opaque session id; the session values
// live gob-encoded under "sess:<id>" with the cookie MaxAge as TTL.
type SessionStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options sessions.Options
}

func NewSessionStore(client *redis.Client, options sessions.Options, keyPairs ...[]byte) *SessionStore {
	return &SessionStore{
		client:  client,
		codecs:  securecookie.CodecsFromPairs(keyPairs...),
		options: options,
	}
}

func (s *SessionStore) Options(opts sessions.Options) {
	s.options = opts
}

func (s *SessionStore) Get(r *http.Request, name string) (*gorillasessions.Session, error) {
	return gorillasessions.GetRegistry(r).Get(s, name)
}

func (s *SessionStore) New(r *http.Request, name string) (*gorillasessions.Session, error) {
	session := gorillasessions.NewSession(s, name)
	opts := s.options.ToGorillaOptions()
	session.Options = opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.codecs...); err != nil {
		// Undecodable cookie (rotated secret, tampering): start fresh.
		session.ID = ""
		return session, nil
	}
	if err := s.load(r, session); err == nil {
		session.IsNew = false
	}
	return session, nil
}

func (s *SessionStore) Save(r *http.Request, w http.ResponseWriter, session *gorillasessions.Session) error {
	if session.Options.MaxAge < 0 {
		if err := s.destroy(r, session); err != nil {
			return err
		}
		// The deletion cookie has to match the attributes of the cookie it
		// deletes, whatever the caller left in session.Options.
		opts := s.options.ToGorillaOptions()
		opts.MaxAge = -1
		session.Options = opts
		http.SetCookie(w, s.newCookie(session, ""))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
			"=",
		)
	}

	if err := s.persist(r, session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie failed: %w", err)
	}
	http.SetCookie(w, s.newCookie(session, encoded))
	return nil
}

func (s *SessionStore) newCookie(session *gorillasessions.Session, value string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     session.Name(),
		Value:    value,
		Path:     session.Options.Path,
		Domain:   session.Options.Domain,
		MaxAge:   session.Options.MaxAge,
		Secure:   session.Options.Secure,
		HttpOnly: session.Options.HttpOnly,
		SameSite: session.Options.SameSite,
	}
	if session.Options.MaxAge > 0 {
		cookie.Expires = time.Now().Add(time.Duration(session.Options.MaxAge) * time.Second)
	}
	return cookie
}

func (s *SessionStore) persist(r *http.Request, session *gorillasessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values failed: %w", err)
	}

	maxAge := session.Options.MaxAge
	if maxAge == 0 {
		maxAge = s.options.MaxAge
	}

	key := sessionKeyPrefix + session.ID
	if err := s.client.Set(r.Context(), key, buf.Bytes(), time.Duration(maxAge)*time.Second).Err(); err != nil {
		return fmt.Errorf("redis set session failed: %w", err)
	}
	return nil
}

func (s *SessionStore) load(r *http.Request, session *gorillasessions.Session) error {
	key := sessionKeyPrefix + session.ID
	data, err := s.client.Get(r.Context(), key).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("session not found")
	}
	if err != nil {
		return fmt.Errorf("redis get session failed: %w", err)
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values); err != nil {
		return fmt.Errorf("decode session values failed: %w", err)
	}
	return nil
}

func (s *SessionStore) destroy(r *http.Request, session *gorillasessions.Session) error {
	key := sessionKeyPrefix + session.ID
	if err := s.client.Del(r.Context(), key).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}
