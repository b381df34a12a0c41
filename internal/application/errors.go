package application

import (
	stderrors "errors"
	"net/http"

	"github.com/wms-platform/pallet-service/internal/domain"
	"github.com/wms-platform/pallet-service/pkg/errors"
)

// mapDomainError translates domain failures into AppErrors with the right HTTP status
func mapDomainError(err error) *errors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	var validationErr *domain.ValidationError
	if stderrors.As(err, &validationErr) {
		return errors.ErrValidationWithFields(err.Error(), map[string]string{
			validationErr.Field: validationErr.Reason,
		}).Wrap(err)
	}

	var transitionErr *domain.IllegalTransitionError
	if stderrors.As(err, &transitionErr) {
		return errors.ErrIllegalTransition(err.Error()).
			WithDetail("from", string(transitionErr.From)).
			WithDetail("to", string(transitionErr.To)).
			Wrap(err)
	}

	switch {
	case stderrors.Is(err, domain.ErrValidation):
		return errors.ErrValidation(err.Error()).Wrap(err)
	case stderrors.Is(err, domain.ErrItemNotFound):
		return errors.ErrNotFound("packing item").Wrap(err)
	case stderrors.Is(err, domain.ErrPalletNotFound):
		return errors.ErrNotFound("pallet").Wrap(err)
	case stderrors.Is(err, domain.ErrBoxSizeNotFound):
		return errors.ErrNotFound("box size").Wrap(err)
	case stderrors.Is(err, domain.ErrNoBoxFits):
		return errors.NewAppError(errors.CodeNotFound, err.Error(), http.StatusNotFound).Wrap(err)
	case stderrors.Is(err, domain.ErrPalletNotEmpty),
		stderrors.Is(err, domain.ErrPalletShipped),
		stderrors.Is(err, domain.ErrPalletEmpty):
		return errors.ErrConflict(err.Error()).Wrap(err)
	}

	return errors.ErrInternal("").Wrap(err)
}

// notFoundWithID adds the missing id to a not-found error
func notFoundWithID(err error, id string) *errors.AppError {
	appErr := mapDomainError(err)
	if appErr.Code == errors.CodeNotFound {
		appErr.WithDetail("id", id)
	}
	return appErr
}
