package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func recordingHandler(called *string, name string) RouteHandler {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = name
	}
}

func TestRouteByMethod_Dispatches(t *testing.T) {
	var called string
	routes := MethodRouter{
		http.MethodGet: recordingHandler(&called, "get"),
		http.MethodPut: recordingHandler(&called, "put"),
	}

	for method, want := range map[string]string{"GET": "get", "PUT": "put"} {
		called = ""
		RouteByMethod(httptest.NewRecorder(), httptest.NewRequest(method, "/api/portal/crawlers/jim_cramer/settings", nil), routes)
		if called != want {
			t.Errorf("%s: expected %s handler, got %q", method, want, called)
		}
	}
}

func TestRouteByMethod_NotAllowedListsMethods(t *testing.T) {
	routes := MethodRouter{
		http.MethodPut: func(w http.ResponseWriter, r *http.Request) { t.Error("PUT handler should not be called") },
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) { t.Error("GET handler should not be called") },
	}

	w := httptest.NewRecorder()
	RouteByMethod(w, httptest.NewRequest("DELETE", "/api/portal/crawlers/jim_cramer/settings", nil), routes)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
	if got := w.Header().Get("Allow"); got != "GET, PUT" {
		t.Errorf("expected Allow: GET, PUT, got %q", got)
	}
}

func TestRouteResourceCollection(t *testing.T) {
	var called string
	list := recordingHandler(&called, "list")
	run := recordingHandler(&called, "run")

	RouteResourceCollection(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/portal/crawlers/big_cap_losers/run", nil), list, run)
	if called != "run" {
		t.Errorf("expected POST to trigger, got %q", called)
	}

	called = ""
	w := httptest.NewRecorder()
	RouteResourceCollection(w, httptest.NewRequest("GET", "/api/portal/crawlers/big_cap_losers/run", nil), nil, run)
	if called != "" || w.Code != http.StatusMethodNotAllowed || w.Header().Get("Allow") != "POST" {
		t.Errorf("expected GET rejected with Allow: POST, got code=%d allow=%q called=%q", w.Code, w.Header().Get("Allow"), called)
	}
}

func TestRouteResourceItem(t *testing.T) {
	var called string
	get := recordingHandler(&called, "get")
	update := recordingHandler(&called, "update")
	del := recordingHandler(&called, "delete")

	for method, want := range map[string]string{"GET": "get", "PUT": "update", "DELETE": "delete"} {
		called = ""
		RouteResourceItem(httptest.NewRecorder(), httptest.NewRequest(method, "/api/portal/crawlers/jim_cramer/settings", nil), get, update, del)
		if called != want {
			t.Errorf("%s: expected %s handler, got %q", method, want, called)
		}
	}

	w := httptest.NewRecorder()
	RouteResourceItem(w, httptest.NewRequest("DELETE", "/api/portal/crawlers/jim_cramer/settings", nil), get, update, nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected DELETE without handler to be rejected, got %d", w.Code)
	}
}
