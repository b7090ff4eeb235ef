package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponseCode is the machine readable error code of an error body.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeStructureError   ErrorResponseCode = "structure_service_error"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non 2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchEndpoint is the {endpoint} path segment of the search route.
type SearchEndpoint string

// ServerInterface is the set of HTTP operations.
type ServerInterface interface {
	// Search handles POST /search/{endpoint}.
	Search(w http.ResponseWriter, r *http.Request, endpoint SearchEndpoint)
	// HealthCheck handles GET /health.
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Metrics handles GET /metrics.
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	Middlewares      []func(http.Handler) http.Handler
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a path parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

type serverWrapper struct {
	handler          ServerInterface
	middlewares      []func(http.Handler) http.Handler
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (sw *serverWrapper) wrap(h http.Handler) http.Handler {
	for _, m := range sw.middlewares {
		h = m(h)
	}
	return h
}

// search binds the {endpoint} path parameter.
func (sw *serverWrapper) search(w http.ResponseWriter, r *http.Request) {
	var endpoint SearchEndpoint
	err := runtime.BindStyledParameterWithOptions("simple", "endpoint", chi.URLParam(r, "endpoint"), &endpoint,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		sw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "endpoint", Err: err})
		return
	}
	sw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw.handler.Search(w, r, endpoint)
	})).ServeHTTP(w, r)
}

func (sw *serverWrapper) healthCheck(w http.ResponseWriter, r *http.Request) {
	sw.wrap(http.HandlerFunc(sw.handler.HealthCheck)).ServeHTTP(w, r)
}

func (sw *serverWrapper) metrics(w http.ResponseWriter, r *http.Request) {
	sw.wrap(http.HandlerFunc(sw.handler.Metrics)).ServeHTTP(w, r)
}

// HandlerWithOptions mounts the operations of si on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	sw := &serverWrapper{
		handler:          si,
		middlewares:      options.Middlewares,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Post("/search/{endpoint}", sw.search)
	r.Get("/health", sw.healthCheck)
	r.Get("/metrics", sw.metrics)
	return r
}
