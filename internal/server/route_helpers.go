package server

import (
	"net/http"
	"sort"
	"strings"
)

// RouteHandler is a function type for HTTP handlers.
type RouteHandler func(http.ResponseWriter, *http.Request)

// MethodRouter maps HTTP methods to handlers.
type MethodRouter map[string]RouteHandler

// RouteByMethod dispatches on r.Method. Unlisted methods get 405 with an
// Allow header naming the ones that are listed.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok {
		allowed := make([]string, 0, len(routes))
		for m := range routes {
			allowed = append(allowed, m)
		}
		sort.Strings(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handler(w, r)
}

// RouteResourceCollection routes a collection: GET lists, POST creates or
// triggers (crawler runs are POST only).
func RouteResourceCollection(w http.ResponseWriter, r *http.Request, list, create RouteHandler) {
	routes := make(MethodRouter)
	if list != nil {
		routes[http.MethodGet] = list
	}
	if create != nil {
		routes[http.MethodPost] = create
	}
	RouteByMethod(w, r, routes)
}

// RouteResourceItem routes a single named resource such as a crawler's
// settings: GET reads, PUT updates, DELETE removes. Nil handlers are left out.
func RouteResourceItem(w http.ResponseWriter, r *http.Request, get, update, del RouteHandler) {
	routes := make(MethodRouter)
	if get != nil {
		routes[http.MethodGet] = get
	}
	if update != nil {
		routes[http.MethodPut] = update
	}
	if del != nil {
		routes[http.MethodDelete] = del
	}
	RouteByMethod(w, r, routes)
}
