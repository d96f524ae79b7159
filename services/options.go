package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Option configures a service.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDs replaces the identifier generator.
func WithIDs(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: newObjectID}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newObjectID() string {
	return primitive.NewObjectID().Hex()
}
