// Package result contains results that are used to write out API responses.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error result.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// internalMsg gives the formatted internal message from a variadic
// format-then-args list, or def if none was provided.
func internalMsg(def string, msg []interface{}) string {
	if len(msg) < 1 {
		return def
	}
	return fmt.Sprintf(msg[0].(string), msg[1:]...)
}

// OK returns a Result containing an HTTP-200 along with a more detailed
// message (if desired; if none is provided it defaults to a generic one) that
// is not displayed to the user.
func OK(respObj interface{}, internal ...interface{}) Result {
	return Response(http.StatusOK, respObj, internalMsg("OK", internal))
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internal ...interface{}) Result {
	return Response(http.StatusNoContent, nil, internalMsg("no content", internal))
}

// Created returns a Result containing an HTTP-201.
func Created(respObj interface{}, internal ...interface{}) Result {
	return Response(http.StatusCreated, respObj, internalMsg("created", internal))
}

// Conflict returns a Result containing an HTTP-409.
func Conflict(userMsg string, internal ...interface{}) Result {
	return Err(http.StatusConflict, userMsg, internalMsg("conflict", internal))
}

// BadRequest returns a Result containing an HTTP-400 with userMsg shown to
// the client.
func BadRequest(userMsg string, internal ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, internalMsg("bad request", internal))
}

// MethodNotAllowed returns a Result containing an HTTP-405.
func MethodNotAllowed(req *http.Request, internal ...interface{}) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, internalMsg("method not allowed", internal))
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internal ...interface{}) Result {
	return Err(http.StatusNotFound, "The requested resource was not found", internalMsg("not found", internal))
}

// Forbidden returns a Result containing an HTTP-403.
func Forbidden(internal ...interface{}) Result {
	return Err(http.StatusForbidden, "You don't have permission to do that", internalMsg("forbidden", internal))
}

// Unauthorized returns a Result containing an HTTP-401 response along with
// the proper WWW-Authenticate header. If userMsg is empty, a generic one is
// used.
func Unauthorized(userMsg string, internal ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, internalMsg("unauthorized", internal)).
		WithHeader("WWW-Authenticate", `Bearer realm="TunaCalc server", charset="utf-8"`)
}

// InternalServerError returns a Result containing an HTTP-500 response. If
// internal is provided the first argument must be a string that is the format
// string and any subsequent args are passed to Sprintf with it.
func InternalServerError(internal ...interface{}) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", internalMsg("internal server error", internal))
}

// Response creates a non-error JSON result. If status is
// http.StatusNoContent, respObj will not be read and may be nil. Otherwise,
// respObj MUST NOT be nil.
func Response(status int, respObj interface{}, internal string) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: internal,
		resp:        respObj,
	}
}

// Err creates a JSON error result whose body is an ErrorResponse.
func Err(status int, userMsg, internal string) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: internal,
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// TextErr is like Err but it avoids JSON encoding of any kind and writes the
// output as plain text.
func TextErr(status int, userMsg, internal string) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: internal,
		resp:        userMsg,
	}
}

// Result is a response ready to be written to a client. InternalMsg is for
// logging only.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string
}

// WithHeader returns a copy of r that will also set the given header.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(cp.hdrs, r.hdrs)
	cp.hdrs = append(cp.hdrs, [2]string{name, val})
	return cp
}

func (r Result) body() ([]byte, error) {
	if r.Status == http.StatusNoContent {
		return nil, nil
	}
	if r.IsJSON {
		return json.Marshal(r.resp)
	}
	return []byte(fmt.Sprintf("%v", r.resp)), nil
}

// WriteResponse writes the result to w. It panics if r was never populated or
// its body cannot be marshaled; callers are expected to recover from panics
// and respond with an HTTP-500.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	respBytes, err := r.body()
	if err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if respBytes != nil {
		w.Write(respBytes)
	}
}
