package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/tunacalc/server/api"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/middle"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	name, typ, hasType := strings.Cut(nameType, ":")
	if !hasType || typ == "" {
		return "{" + name + "}"
	}

	// a name in paramTypePats is translated, otherwise it is a raw pattern
	pat := typ
	if translatedPat, ok := paramTypePats[typ]; ok {
		pat = translatedPat
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/login", newLoginRouter(a))
	r.Mount("/tokens", newTokensRouter(a))
	r.Mount("/users", newUsersRouter(a))
	r.Mount("/calculations", newCalculationsRouter(a))
	r.Mount("/info", newInfoRouter(a))
	r.HandleFunc("/info/", RedirectNoTrailingSlash)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(a.UnauthDelay)
		result.MethodNotAllowed(req).WriteResponse(w)
	})

	return r
}

func requireAuth(a api.API) middle.Middleware {
	return middle.RequireAuth(a.Backend.DB.Users(), a.Secret, a.UnauthDelay)
}

func optionalAuth(a api.API) middle.Middleware {
	return middle.OptionalAuth(a.Backend.DB.Users(), a.Secret, a.UnauthDelay, dao.User{Role: dao.Guest})
}

func newLoginRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Post("/", a.HTTPCreateLogin())
	r.With(requireAuth(a)).Delete("/"+p("id:uuid"), a.HTTPDeleteLogin())
	r.HandleFunc("/"+p("id:uuid")+"/", RedirectNoTrailingSlash)

	return r
}

func newTokensRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.With(requireAuth(a)).Post("/", a.HTTPCreateToken())

	return r
}

func newUsersRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Use(requireAuth(a))

	r.Get("/", a.HTTPGetAllUsers())
	r.Post("/", a.HTTPCreateUser())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetUser())
		r.Delete("/", a.HTTPDeleteUser())
	})

	return r
}

func newCalculationsRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.With(optionalAuth(a)).Post("/", a.HTTPCreateCalculation())
	r.With(requireAuth(a)).Get("/", a.HTTPGetAllCalculations())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Use(requireAuth(a))
		r.Get("/", a.HTTPGetCalculation())
		r.Delete("/", a.HTTPDeleteCalculation())
	})

	return r
}

func newInfoRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.With(optionalAuth(a)).Get("/", a.HTTPGetInfo())

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL as the
// request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	http.Redirect(w, req, redirPath, http.StatusPermanentRedirect)
}
