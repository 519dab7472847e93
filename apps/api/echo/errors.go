package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/insights"
	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/risk"
	"github.com/anvesha/backend/core/student"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errStoreUnavailable     = echo.NewHTTPError(http.StatusServiceUnavailable, "data store unavailable")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *risk.Error:
			code, message = riskErrorResponse(origErr)
			if code == http.StatusInternalServerError {
				logger.Error(origErr.Error(), origErr)
			}
		default:
			if code, message = domainErrorResponse(origErr); code != 0 {
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			logger.Error(msg, errors.Wrap(err, msg))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func riskErrorResponse(err *risk.Error) (int, interface{}) {
	switch err.Kind {
	case risk.KindNotFound:
		return http.StatusNotFound, errHttpNotFound.Message
	case risk.KindStoreUnavailable:
		return http.StatusServiceUnavailable, errStoreUnavailable.Message
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// domainErrorResponse maps service sentinels to HTTP responses; a zero code
// means the error is not a known sentinel.
func domainErrorResponse(err error) (int, interface{}) {
	switch err {
	case student.ErrNotFound, student.ErrProfileNotFound,
		performance.ErrNotFound, performance.ErrActivityNotFound, performance.ErrNoActivities,
		insights.ErrDatasetNotFound, insights.ErrReportNotFound:
		return http.StatusNotFound, err.Error()
	case performance.ErrActivityExists:
		return http.StatusConflict, err.Error()
	}
	return 0, nil
}
