package resp

import (
	"errors"
	"net/http"

	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Extra carries the optional fields of the envelope.
type Extra struct {
	Message  string
	Warning  string
	Redirect string
}

func body(ok bool, data any, x Extra) gin.H {
	h := gin.H{"ok": ok}
	if data != nil {
		h["data"] = data
	}
	if x.Message != "" {
		h["message"] = x.Message
	}
	if x.Warning != "" {
		h["warning"] = x.Warning
	}
	if x.Redirect != "" {
		h["redirect"] = x.Redirect
	}
	return h
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, body(true, data, Extra{}))
}

func OKWith(c *gin.Context, data any, x Extra) {
	c.JSON(http.StatusOK, body(true, data, x))
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, body(true, data, Extra{}))
}

func CreatedWith(c *gin.Context, data any, x Extra) {
	c.JSON(http.StatusCreated, body(true, data, x))
}

func fail(c *gin.Context, status int, msg, redirect string) {
	h := body(false, nil, Extra{Redirect: redirect})
	h["error"] = msg
	c.AbortWithStatusJSON(status, h)
}

func BadRequest(c *gin.Context, msg string) {
	fail(c, http.StatusBadRequest, msg, "")
}

func Unauthorized(c *gin.Context, msg string) {
	fail(c, http.StatusUnauthorized, msg, "")
}

func Forbidden(c *gin.Context, msg string) {
	fail(c, http.StatusForbidden, msg, "")
}

func NotFound(c *gin.Context, msg string) {
	fail(c, http.StatusNotFound, msg, "")
}

// Error maps a service error to a status and a message fit for the user.
// Unknown errors are logged and reported as 500 without their detail.
func Error(c *gin.Context, err error, redirect string) {
	status, msg := Classify(err)
	if status >= http.StatusInternalServerError {
		Logger(c).WithError(err).Error("request failed")
	}
	fail(c, status, msg, redirect)
}

// Classify returns the HTTP status and public message for err.
func Classify(err error) (int, string) {
	var (
		emptyCart  *services.EmptyCartError
		badPay     *services.InvalidPaymentSelectionError
		pmMissing  *services.PaymentMethodNotFoundError
		noDriver   *services.NoDriverAvailableError
		persist    *services.OrderPersistenceError
		invalid    *services.ValidationError
		restMiss   *services.RestaurantNotFoundError
		itemMiss   *services.MenuItemNotFoundError
		orderMiss  *services.OrderNotFoundError
		transition *services.InvalidTransitionError
	)

	switch {
	case errors.As(err, &emptyCart):
		if emptyCart.Reason != "" {
			return http.StatusBadRequest, "Your cart cannot be ordered: " + emptyCart.Reason + "."
		}
		return http.StatusBadRequest, "Your cart is empty."
	case errors.As(err, &badPay):
		return http.StatusBadRequest, "Please select a valid payment method."
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Error()
	case errors.As(err, &pmMissing):
		return http.StatusNotFound, "Payment method not found."
	case errors.As(err, &restMiss), errors.As(err, &itemMiss), errors.As(err, &orderMiss):
		return http.StatusNotFound, err.Error()
	case services.IsNotFound(err):
		return http.StatusNotFound, "not found"
	case errors.As(err, &noDriver):
		return http.StatusConflict, "No drivers or vehicles are available right now."
	case errors.As(err, &transition):
		return http.StatusConflict, transition.Error()
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrNotDriver):
		return http.StatusForbidden, err.Error()
	case errors.As(err, &persist):
		return http.StatusInternalServerError, "An error occurred while placing your order. Please try again."
	}
	return http.StatusInternalServerError, "internal server error"
}

// LoggerKey is where RequestLogger stores the request scoped entry.
const LoggerKey = "logger"

func Logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(LoggerKey); ok {
		if e, ok := v.(*logrus.Entry); ok {
			return e
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
