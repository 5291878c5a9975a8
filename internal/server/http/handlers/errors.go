package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/solarstore/internal/domain/errors"
	"github.com/polkiloo/solarstore/internal/server/http/dto"
)

// writeError maps domain failures onto HTTP statuses. Unknown errors are
// attached to the context for the request logger and hidden from clients.
func writeError(c *gin.Context, err error) {
	var validation *domainErrors.ValidationError
	if errors.As(err, &validation) {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: validation.Error(), Fields: validation.Fields})
		return
	}
	var state *domainErrors.InvalidStateError
	if errors.As(err, &state) {
		c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{
			Message:       state.Error(),
			CurrentStatus: state.Status,
			CurrentPhase:  state.Phase,
		})
		return
	}

	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrInvalidToken),
		errors.Is(err, domainErrors.ErrCouponInvalid),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrInvalidRating),
		errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrInvalidOTP):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidCredentials),
		errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden),
		errors.Is(err, domainErrors.ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrConflict),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
