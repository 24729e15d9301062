package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/middle"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/google/uuid"
)

// describeUser gives a name for the user with the given ID suitable for
// internal log messages.
func (api API) describeUser(req *http.Request, id uuid.UUID) string {
	other, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		return id.String()
	}
	return "'" + other.Username + "'"
}

// selfOrAdmin gets the user ID named in the URI and the logged-in user. Only
// admins may act on users other than themselves; for anyone else the returned
// result is a populated HTTP-403 that must be sent instead.
func (api API) selfOrAdmin(req *http.Request, action string) (uuid.UUID, dao.User, result.Result) {
	id := requireIDParam(req)
	user, _ := middle.User(req.Context())

	if id != user.ID && user.Role != dao.Admin {
		return id, user, result.Forbidden("user '%s' (role %s) %s user %s: forbidden", user.Username, user.Role, action, api.describeUser(req, id))
	}
	return id, user, result.Result{}
}

// otherName names the target of an action for logs: "self" when the acting
// user is the target.
func otherName(actor dao.User, id uuid.UUID, username string) string {
	if id == actor.ID {
		return "self"
	}
	if username == "" {
		return "user " + id.String()
	}
	return "user '" + username + "'"
}

// HTTPGetAllUsers returns a HandlerFunc that lists every user. Admin only.
func (api API) HTTPGetAllUsers() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllUsers)
}

func (api API) epGetAllUsers(req *http.Request) result.Result {
	user, _ := middle.User(req.Context())
	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) list users: forbidden", user.Username, user.Role)
	}

	users, err := api.Backend.GetAllUsers(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]UserModel, len(users))
	for i := range users {
		resp[i] = userModelOf(users[i])
	}
	return result.OK(resp, "user '%s' got all users", user.Username)
}

// HTTPCreateUser returns a HandlerFunc that creates an account. Admin only;
// the role defaults to normal.
func (api API) HTTPCreateUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateUser)
}

func (api API) epCreateUser(req *http.Request) result.Result {
	user, _ := middle.User(req.Context())
	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) create user: forbidden", user.Username, user.Role)
	}

	var body UserModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	role := dao.Normal
	if body.Role != "" {
		var err error
		if role, err = dao.ParseRole(body.Role); err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	newUser, err := api.Backend.CreateUser(req.Context(), body.Username, body.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrAlreadyExists):
			return result.Conflict("User with that username already exists", "user '%s' already exists", body.Username)
		case errors.Is(err, serr.ErrBadArgument):
			return result.BadRequest(err.Error(), err.Error())
		default:
			return result.InternalServerError(err.Error())
		}
	}

	resp := userModelOf(newUser)
	return result.Created(resp, "user '%s' created user '%s' (%s)", user.Username, resp.Username, resp.ID)
}

// HTTPGetUser returns a HandlerFunc that gets one user. Users may get
// themselves; admins may get anyone.
func (api API) HTTPGetUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetUser)
}

func (api API) epGetUser(req *http.Request) result.Result {
	id, user, denied := api.selfOrAdmin(req, "get")
	if denied.Status != 0 {
		return denied
	}

	target, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get user: " + err.Error())
	}

	return result.OK(userModelOf(target), "user '%s' got %s", user.Username, otherName(user, id, target.Username))
}

// HTTPDeleteUser returns a HandlerFunc that deletes a user and every
// calculation they saved. Users may delete themselves; admins may delete
// anyone. Deleting a user that does not exist is a no-op.
func (api API) HTTPDeleteUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteUser)
}

func (api API) epDeleteUser(req *http.Request) result.Result {
	id, user, denied := api.selfOrAdmin(req, "delete")
	if denied.Status != 0 {
		return denied
	}

	deleted, err := api.Backend.DeleteUser(req.Context(), id.String())
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete user: " + err.Error())
	}

	return result.NoContent("user '%s' deleted %s", user.Username, otherName(user, id, deleted.Username))
}
