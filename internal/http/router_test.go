package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/preston-bernstein/matchday-service/internal/app/games"
	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	"github.com/preston-bernstein/matchday-service/internal/http/handlers"
	"github.com/preston-bernstein/matchday-service/internal/query"
	"github.com/preston-bernstein/matchday-service/internal/snapshots"
	"github.com/preston-bernstein/matchday-service/internal/testutil"
)

const createBody = `{"date":"2025-06-20","time":"18:30","venue":"Riverside Park","opponent":"Harbor FC"}`

func newRouter(t *testing.T) (http.Handler, *games.Service) {
	t.Helper()
	svc, _ := testutil.NewService()
	return NewRouter(handlers.NewHandler(svc, nil, nil), nil, nil), svc
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router, _ := newRouter(t)

	cases := map[string]int{
		"/health":                  http.StatusOK,
		"/ready":                   http.StatusOK,
		"/orgs/org-1/games":        http.StatusOK,
		"/orgs/org-1/games/counts": http.StatusOK,
		"/games/foo":               http.StatusNotFound,
		"/games/foo/tally":         http.StatusNotFound,
	}

	for path, expected := range cases {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router, _ := newRouter(t)

	rr := testutil.Serve(router, http.MethodGet, "/does-not-exist", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestRouterRejectsWrongMethod(t *testing.T) {
	router, _ := newRouter(t)

	rr := testutil.Serve(router, http.MethodPost, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
	rr = testutil.Serve(router, http.MethodPut, "/games/g1/confirm", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestRouterOptionalRoutes(t *testing.T) {
	router, _ := newRouter(t)
	rr := testutil.Serve(router, http.MethodPost, "/admin/snapshots/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	svc, _ := testutil.NewService()
	w := testutil.NewTempWriter(t)
	testutil.WriteSnapshot(t, w, "org-1")
	full := NewRouter(
		handlers.NewHandler(svc, nil, nil),
		handlers.NewAdminHandler(nil, "secret", nil),
		handlers.NewSnapshotHandler(snapshots.NewFSStore(w.BasePath()), svc, nil),
	)

	rr = testutil.Serve(full, http.MethodPost, "/admin/snapshots/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	rr = testutil.Serve(full, http.MethodGet, "/orgs/org-1/snapshot", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

// TestRouterGameFlow walks a game through voting and confirmation over HTTP.
func TestRouterGameFlow(t *testing.T) {
	router, _ := newRouter(t)

	rr := testutil.ServeAs(router, http.MethodPost, "/orgs/org-1/games", "captain", createBody)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var g domaingames.Game
	testutil.DecodeJSON(t, rr, &g)
	base := "/games/" + g.ID

	for _, member := range []string{"m1", "m2", "m3"} {
		rr = testutil.ServeAs(router, http.MethodPut, base+"/responses/me", member, `{"available":true}`)
		testutil.AssertStatus(t, rr, http.StatusOK)
	}
	rr = testutil.ServeAs(router, http.MethodPut, base+"/responses/me", "m3", `{"available":false}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	rr = testutil.ServeAs(router, http.MethodDelete, base+"/responses/me", "m2", "")
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.ServeAs(router, http.MethodGet, base+"/tally", "", "")
	var tally domaingames.Tally
	testutil.DecodeJSON(t, rr, &tally)
	if tally.Available != 1 || tally.Unavailable != 1 {
		t.Fatalf("unexpected tally %+v", tally)
	}

	rr = testutil.ServeAs(router, http.MethodPost, base+"/confirm", "m1", "")
	testutil.AssertStatus(t, rr, http.StatusForbidden)
	rr = testutil.ServeAs(router, http.MethodPost, base+"/confirm", "captain", `{"note":"bring water"}`)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.ServeAs(router, http.MethodPut, base+"/responses/me", "m4", `{"available":true}`)
	testutil.AssertStatus(t, rr, http.StatusConflict)

	rr = testutil.ServeAs(router, http.MethodGet, base, "", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var view domaingames.View
	testutil.DecodeJSON(t, rr, &view)
	if view.EffectiveStatus != domaingames.StatusConfirmed || view.Game.Notes != "bring water" || len(view.Responses) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}

	rr = testutil.ServeAs(router, http.MethodGet, "/orgs/org-1/games?status=CONFIRMED&q=harbor", "", "")
	var page query.Page
	testutil.DecodeJSON(t, rr, &page)
	if page.TotalItems != 1 || page.Items[0].Game.ID != g.ID {
		t.Fatalf("unexpected page %+v", page)
	}

	rr = testutil.ServeAs(router, http.MethodDelete, base, "captain", "")
	testutil.AssertStatus(t, rr, http.StatusNoContent)
	rr = testutil.ServeAs(router, http.MethodGet, base+"/tally", "", "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if !strings.Contains(rr.Body.String(), "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND kind, got %s", rr.Body.String())
	}
}
