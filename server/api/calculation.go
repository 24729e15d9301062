package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacalc/internal/tcerrors"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/middle"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/google/uuid"
)

// HTTPCreateCalculation returns a HandlerFunc that evaluates an expression.
// Clients that are logged in have the calculation saved to their history and
// receive an HTTP-201; anonymous clients receive the result with an HTTP-200
// and nothing is stored.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the user of the client making the request and whether they are logged in.
func (api API) HTTPCreateCalculation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateCalculation)
}

func (api API) epCreateCalculation(req *http.Request) result.Result {
	user, loggedIn := middle.User(req.Context())

	var calcReq CalculationRequest
	err := parseJSON(req, &calcReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if calcReq.Expression == "" {
		return result.BadRequest("expression: property is empty or missing from request", "empty expression")
	}

	owner := uuid.Nil
	clientStr := "unauthed client"
	if loggedIn {
		owner = user.ID
		clientStr = "user '" + user.Username + "'"
	}

	calc, err := api.Backend.Calculate(req.Context(), calcReq.Expression, calcReq.Dialect, owner)
	if err != nil {
		if errors.Is(err, serr.ErrEvaluation) {
			return result.BadRequest(tcerrors.Message(err), "%s evaluation of %q: %s", clientStr, calcReq.Expression, err.Error())
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest("dialect: "+err.Error(), "dialect: %s", err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := calculationModelOf(calc)
	if !loggedIn {
		return result.OK(resp, "%s evaluated %q", clientStr, calcReq.Expression)
	}
	return result.Created(resp, "%s saved calculation %s", clientStr, resp.ID)
}

// HTTPGetAllCalculations returns a HandlerFunc that lists the calculations
// saved by the logged-in user, oldest first.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPGetAllCalculations() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllCalculations)
}

func (api API) epGetAllCalculations(req *http.Request) result.Result {
	user, _ := middle.User(req.Context())

	calcs, err := api.Backend.GetUserCalculations(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]CalculationModel, len(calcs))
	for i := range calcs {
		resp[i] = calculationModelOf(calcs[i])
	}

	return result.OK(resp, "user '%s' got %d calculations", user.Username, len(resp))
}

// getOwnedCalculation retrieves the calculation named in the URI, checking
// that the user may access it. If the returned result is populated, it must be
// sent to the client in place of any other response.
func (api API) getOwnedCalculation(req *http.Request, action string) (dao.Calculation, result.Result) {
	id := requireIDParam(req)
	user, _ := middle.User(req.Context())

	calc, err := api.Backend.GetCalculation(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return calc, result.NotFound()
		} else if errors.Is(err, serr.ErrBadArgument) {
			return calc, result.BadRequest(err.Error(), err.Error())
		}
		return calc, result.InternalServerError("could not get calculation: " + err.Error())
	}

	if calc.UserID != user.ID && user.Role != dao.Admin {
		return calc, result.Forbidden("user '%s' (role %s) %s calculation %s of user %s: forbidden", user.Username, user.Role, action, id, api.describeUser(req, calc.UserID))
	}

	return calc, result.Result{}
}

// HTTPGetCalculation returns a HandlerFunc that gets one saved calculation.
// Users may only get their own calculations unless they are an admin.
func (api API) HTTPGetCalculation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetCalculation)
}

func (api API) epGetCalculation(req *http.Request) result.Result {
	user, _ := middle.User(req.Context())

	calc, errResult := api.getOwnedCalculation(req, "get")
	if errResult.Status != 0 {
		return errResult
	}

	return result.OK(calculationModelOf(calc), "user '%s' got calculation %s", user.Username, calc.ID)
}

// HTTPDeleteCalculation returns a HandlerFunc that deletes one saved
// calculation. Users may only delete their own calculations unless they are an
// admin.
func (api API) HTTPDeleteCalculation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteCalculation)
}

func (api API) epDeleteCalculation(req *http.Request) result.Result {
	user, _ := middle.User(req.Context())

	calc, errResult := api.getOwnedCalculation(req, "delete")
	if errResult.Status != 0 {
		return errResult
	}

	_, err := api.Backend.DeleteCalculation(req.Context(), calc.ID.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete calculation: " + err.Error())
	}

	return result.NoContent("user '%s' deleted calculation %s", user.Username, calc.ID)
}
