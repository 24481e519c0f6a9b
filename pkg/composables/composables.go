package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/session"
)

type contextKey int

const (
	userKey contextKey = iota
	loggerKey
)

var (
	ErrNoUser = errors.New("user not found")
)

// WithUser returns a new context carrying the signed-in user.
func WithUser(ctx context.Context, user session.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UseUser returns the user from the context.
// If no user was attached, ErrNoUser is returned.
func UseUser(ctx context.Context) (session.User, error) {
	user, ok := ctx.Value(userKey).(session.User)
	if !ok || user == nil {
		return nil, ErrNoUser
	}
	return user, nil
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// UseLogger returns the logger from the context, falling back to the standard logger.
func UseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Entry); ok && logger != nil {
		return logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
