package badgeapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/openscout/badgefinder/internal/app/features/badgeapi"
	badgestore "github.com/openscout/badgefinder/internal/app/store/badges"
	"github.com/openscout/badgefinder/internal/testutil"
)

func newTestHandler(t *testing.T) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	catalogDB := testutil.SetupTestDB(t)
	store := badgestore.New(catalogDB, zap.NewNop())
	h := badgeapi.NewHandler(store, zap.NewNop())
	return badgeapi.Routes(h), testutil.NewFixtures(t, catalogDB)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return got
}

func TestAllBadges(t *testing.T) {
	h, catalog := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	catalog.CreateBadge(ctx, "Camping", "Outdoors")
	catalog.CreateBadge(ctx, "First Aid", "Safety")

	rec := get(t, h, "/badges")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if got := decodeList(t, rec); len(got) != 2 {
		t.Errorf("got %d badges, want 2", len(got))
	}
}

func TestBadgeByName(t *testing.T) {
	h, catalog := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	catalog.CreateBadge(ctx, "Wilderness Survival", "Outdoors")

	rec := get(t, h, "/badges/search?badge=wilderness")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["badge_name"] != "Wilderness Survival" {
		t.Errorf("badge_name = %v", got["badge_name"])
	}
}

func TestBadgeByName_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h, "/badges/search?badge=nonexistent")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %q)", rec.Code, rec.Body.String())
	}
}

func TestBadgeByName_MissingParam(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h, "/badges/search")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBadgesByCategory(t *testing.T) {
	h, catalog := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	catalog.CreateBadge(ctx, "Camping", "Outdoors")
	catalog.CreateBadge(ctx, "Hiking", "Outdoors", "Fitness")
	catalog.CreateBadge(ctx, "First Aid", "Safety")

	rec := get(t, h, "/badges/category?categories=outdoors")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if got := decodeList(t, rec); len(got) != 2 {
		t.Errorf("got %d badges, want 2", len(got))
	}
}

func TestBadgesByCategory_Empty(t *testing.T) {
	h, catalog := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	catalog.CreateBadge(ctx, "Camping", "Outdoors")

	rec := get(t, h, "/badges/category?categories=underwater")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %q)", rec.Code, rec.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["message"] != "No badges found in this category" {
		t.Errorf("message = %v", got["message"])
	}
}

func TestBadgesByRequirement(t *testing.T) {
	h, catalog := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	camping := catalog.CreateBadge(ctx, "Camping", "Outdoors")
	cooking := catalog.CreateBadge(ctx, "Cooking", "Home")
	catalog.CreateBadge(ctx, "First Aid", "Safety")
	catalog.CreateRequirement(ctx, camping.BadgeID, "Build a fire")
	catalog.CreateRequirement(ctx, cooking.BadgeID, "Cook over a fire")

	rec := get(t, h, "/badges/requirements?query=fire")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if got := decodeList(t, rec); len(got) != 2 {
		t.Errorf("got %d badges, want 2", len(got))
	}
}

func TestBadgesByRequirement_NoMatch(t *testing.T) {
	h, catalog := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	badge := catalog.CreateBadge(ctx, "Camping", "Outdoors")
	catalog.CreateRequirement(ctx, badge.BadgeID, "Build a fire")

	rec := get(t, h, "/badges/requirements?query=zzzzz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if got := decodeList(t, rec); len(got) != 0 {
		t.Errorf("got %d badges, want 0", len(got))
	}
}

func TestRequirementsForBadge(t *testing.T) {
	h, catalog := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	badge := catalog.CreateBadge(ctx, "Camping", "Outdoors")
	catalog.CreateRequirement(ctx, badge.BadgeID, "Pitch a tent")
	catalog.CreateRequirement(ctx, badge.BadgeID, "Build a fire")

	rec := get(t, h, "/requirements?badge_id="+badge.BadgeID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if got := decodeList(t, rec); len(got) != 2 {
		t.Errorf("got %d requirements, want 2", len(got))
	}
}
