// Package session adapts the gin cookie session to the auth service's
// Session interface.
package session

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userId"

func init() {
	gob.Register(uint(0))
}

type GinSession struct {
	c *gin.Context
}

func New(c *gin.Context) *GinSession {
	return &GinSession{c: c}
}

func (s *GinSession) UserID() uint {
	sess := sessions.Default(s.c)
	if id, ok := sess.Get(userIDKey).(uint); ok {
		return id
	}
	return 0
}

func (s *GinSession) SetUserID(id uint) error {
	sess := sessions.Default(s.c)
	sess.Set(userIDKey, id)
	return sess.Save()
}

// Clear drops the server-side record and tells the browser to discard the
// cookie.
func (s *GinSession) Clear() error {
	sess := sessions.Default(s.c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}
