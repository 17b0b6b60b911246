package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "import job")
}

func NewErrVendorFileNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "vendor file")
}

func NewErrChangeNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "vendor change")
}

type ErrNoRows struct {
	error
}

func NewErrNoRows() *ErrNoRows {
	return &ErrNoRows{fmt.Errorf("no rows were provided")}
}

type ErrInvalidReviewAction struct {
	error
}

func NewErrInvalidReviewAction(action string) *ErrInvalidReviewAction {
	return &ErrInvalidReviewAction{fmt.Errorf("invalid review action %q", action)}
}

type ErrJobNotCancellable struct {
	error
}

func NewErrJobNotCancellable(id uuid.UUID, status string) *ErrJobNotCancellable {
	return &ErrJobNotCancellable{fmt.Errorf("job %s is %s and cannot be cancelled", id, status)}
}

type ErrChangeNotReviewable struct {
	error
}

func NewErrChangeNotReviewable(id uuid.UUID, status string) *ErrChangeNotReviewable {
	return &ErrChangeNotReviewable{fmt.Errorf("change %s is %s and cannot be reviewed", id, status)}
}
