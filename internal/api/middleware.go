package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/output"
)

const maxBodySize = 1 << 20

// requestLogger logs one line per request with its route, status and
// duration.
func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := log.Fields{
				"method":   c.Request().Method,
				"route":    c.Path(),
				"status":   status,
				"total_ms": durationToMillis(time.Since(start)),
			}
			entry := logger.WithFields(fields)
			switch {
			case status >= http.StatusInternalServerError:
				entry.WithError(err).Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Info("request rejected")
			default:
				entry.Debug("request served")
			}
			return nil
		}
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err *clierr.Error) int {
	switch err.Kind() {
	case clierr.KindValidation:
		return http.StatusBadRequest
	case clierr.KindNotFound:
		return http.StatusNotFound
	case clierr.KindConstraint:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError renders every error as an output.ErrorResponse body.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	resp := output.ErrorResponse{Error: "internal error", Code: clierr.InternalError}

	var cliErr *clierr.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &cliErr):
		status = statusFor(cliErr)
		resp = output.ErrorResponse{Error: cliErr.Message, Code: cliErr.Code, Details: cliErr.Details}
		if cliErr.Code == "" {
			resp.Code = clierr.InternalError
		}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		resp.Error = http.StatusText(status)
		if msg, ok := httpErr.Message.(string); ok {
			resp.Error = msg
		}
		if status < http.StatusInternalServerError {
			resp.Code = clierr.InvalidInput
		}
	default:
		s.logger.WithError(err).Error("unhandled api error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	if werr := c.JSON(status, resp); werr != nil {
		s.logger.WithError(werr).Warn("writing error response")
	}
}

// decodeBody reads a JSON request body into v, rejecting unknown fields.
func decodeBody(c echo.Context, v any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid request body: %v", err)
	}
	return nil
}

// sonicSerializer is an echo.JSONSerializer backed by sonic.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i any, indent string) error {
	var (
		b   []byte
		err error
	)
	if indent != "" {
		b, err = sonic.ConfigStd.MarshalIndent(i, "", indent)
	} else {
		b, err = sonic.ConfigStd.Marshal(i)
	}
	if err != nil {
		return err
	}
	_, err = c.Response().Write(b)
	return err
}

func (sonicSerializer) Deserialize(c echo.Context, i any) error {
	return sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i)
}
