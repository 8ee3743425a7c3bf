package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domainErr "github.com/anchorpay/settlement-processor/internal/domain/error"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/repository"
)

// ErrorMapper maps database errors to domain errors. Scope commits run it so
// driver-level failures surface with the right domain sentinel instead of a
// raw pq message.
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		classifier: repository.NewErrorClassifier(),
	}
}

// MapError maps a database error to a domain error
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr.ErrNotFound
	}

	switch m.classifier.Classify(err) {
	case repository.SerializationErr:
		// SERIALIZABLE conflict detection; the whole scope was undone
		return fmt.Errorf("%w: %s conflicted with a concurrent scope", domainErr.ErrOperationAborted, operation)
	case repository.DuplicateKeyError:
		return domainErr.ErrDuplicateTransaction
	case repository.TransientError, repository.ConnectionError:
		return fmt.Errorf("%w: %s: %s", domainErr.ErrDatabaseConnection, operation, err.Error())
	case repository.ConstraintError:
		return fmt.Errorf("%w: %s violated a constraint", domainErr.ErrInvalidRequest, operation)
	default:
		return domainErr.ErrInternalServer
	}
}
