package repository

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"report2resolve-be/workflow"
)

func notFound(op, what string) error {
	return workflow.E(workflow.KindNotFound, op, what+" not found")
}

func conflict(op, msg string) error {
	return workflow.E(workflow.KindConflict, op, msg)
}

// storageErr classifies a driver error. Missing documents become NotFound,
// duplicate keys Conflict, anything else a transport failure.
func storageErr(op, what string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound(op, what)
	case mongo.IsDuplicateKeyError(err):
		return conflict(op, what+" already exists")
	}
	return workflow.Wrap(workflow.KindTransport, op, errors.Wrapf(err, "%s %s", op, what))
}
