package gallery

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"galleria-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file:gallery_engine?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// One connection so in-memory SQLite behaves under concurrent transactions.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(&models.ProductImage{}); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

func freshEngine() (*Engine, *gorm.DB) {
	testDB.Exec("DELETE FROM product_images")
	return NewEngine(NewGormStore(testDB)), testDB
}

func mustCreate(t *testing.T, e *Engine, in CreateInput) models.ProductImage {
	t.Helper()
	img, err := e.Create(in)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return img
}

func primaryCount(db *gorm.DB, productID uint) int64 {
	var count int64
	db.Model(&models.ProductImage{}).
		Where("product_id = ? AND is_primary = ?", productID, true).
		Count(&count)
	return count
}

func TestCreateAssignsTimestampsAndDefaults(t *testing.T) {
	e, _ := freshEngine()

	img := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg"})

	if img.ID == 0 {
		t.Error("expected an assigned id")
	}
	if img.Width != DefaultWidth || img.Height != DefaultHeight {
		t.Errorf("expected default %dx%d, got %dx%d", DefaultWidth, DefaultHeight, img.Width, img.Height)
	}
	if img.Rotation != 0 {
		t.Errorf("expected rotation 0, got %d", img.Rotation)
	}
	if img.DateCreated.IsZero() || img.DateModified.IsZero() {
		t.Error("expected engine-assigned timestamps")
	}
	if img.DateModified.Before(img.DateCreated) {
		t.Error("expected dateModified >= dateCreated")
	}
}

func TestCreateDisplayOrderSentinel(t *testing.T) {
	e, _ := freshEngine()

	// No siblings: order starts at 1.
	first := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg"})
	if first.DisplayOrder != 1 {
		t.Errorf("expected order 1 for first image, got %d", first.DisplayOrder)
	}

	// Sibling max 4: zero means append at 5.
	mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/b.jpg", DisplayOrder: 4})
	appended := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/c.jpg"})
	if appended.DisplayOrder != 5 {
		t.Errorf("expected order 5, got %d", appended.DisplayOrder)
	}

	// Explicit non-zero value is kept verbatim.
	explicit := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/d.jpg", DisplayOrder: 2})
	if explicit.DisplayOrder != 2 {
		t.Errorf("expected order 2, got %d", explicit.DisplayOrder)
	}
}

func TestCreatePrimarySweepsBeforeInsert(t *testing.T) {
	e, db := freshEngine()

	old := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg", IsPrimary: true})
	time.Sleep(5 * time.Millisecond)
	fresh := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/b.jpg", IsPrimary: true})

	if !fresh.IsPrimary {
		t.Error("expected new image primary")
	}
	var demoted models.ProductImage
	db.First(&demoted, "id = ?", old.ID)
	if demoted.IsPrimary {
		t.Error("expected old primary demoted")
	}
	if !demoted.DateModified.After(old.DateModified) {
		t.Error("expected demoted sibling's dateModified refreshed")
	}
	if got := primaryCount(db, 1); got != 1 {
		t.Errorf("expected 1 primary, got %d", got)
	}
}

func TestCreatePrimaryDoesNotTouchOtherProducts(t *testing.T) {
	e, db := freshEngine()

	other := mustCreate(t, e, CreateInput{ProductID: 2, URL: "https://x/z.jpg", IsPrimary: true})
	mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg", IsPrimary: true})

	var untouched models.ProductImage
	db.First(&untouched, "id = ?", other.ID)
	if !untouched.IsPrimary {
		t.Error("expected other product's primary untouched")
	}
}

func TestGetNotFound(t *testing.T) {
	e, _ := freshEngine()

	_, err := e.Get(9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePartialRetainsUnsetFields(t *testing.T) {
	e, _ := freshEngine()

	caption := "side view"
	img := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg", Caption: &caption, DisplayOrder: 3, Rotation: 90})

	updated, err := e.Update(img.ID, UpdateInput{URL: "https://x/a-v2.jpg"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.URL != "https://x/a-v2.jpg" {
		t.Errorf("expected new url, got %s", updated.URL)
	}
	if updated.Caption == nil || *updated.Caption != "side view" {
		t.Errorf("expected caption retained, got %v", updated.Caption)
	}
	if updated.DisplayOrder != 3 || updated.Rotation != 90 {
		t.Errorf("expected order/rotation retained, got %d/%d", updated.DisplayOrder, updated.Rotation)
	}
	if !updated.DateCreated.Equal(img.DateCreated) {
		t.Error("expected dateCreated immutable")
	}
}

func TestUpdatePromoteSweepsOthersOnly(t *testing.T) {
	e, db := freshEngine()

	a := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg", IsPrimary: true})
	b := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/b.jpg"})

	isPrimary := true
	if _, err := e.Update(b.ID, UpdateInput{URL: b.URL, IsPrimary: &isPrimary}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var first, second models.ProductImage
	db.First(&first, "id = ?", a.ID)
	db.First(&second, "id = ?", b.ID)
	if first.IsPrimary || !second.IsPrimary {
		t.Errorf("expected primary handoff, got a=%v b=%v", first.IsPrimary, second.IsPrimary)
	}
}

func TestUpdateAlreadyPrimaryIsStable(t *testing.T) {
	e, db := freshEngine()

	a := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg", IsPrimary: true})

	isPrimary := true
	if _, err := e.Update(a.ID, UpdateInput{URL: a.URL, IsPrimary: &isPrimary}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := primaryCount(db, 1); got != 1 {
		t.Errorf("expected 1 primary, got %d", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	e, _ := freshEngine()

	_, err := e.Update(9999, UpdateInput{URL: "https://x/a.jpg"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	e, _ := freshEngine()

	img := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg"})
	if err := e.Delete(img.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := e.Get(img.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	exists, err := NewGormStore(testDB).Exists(img.ID)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Error("expected exists to report false after delete")
	}
}

func TestDeleteLeavesSiblingsUntouched(t *testing.T) {
	e, db := freshEngine()

	primary := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg", IsPrimary: true, DisplayOrder: 1})
	sibling := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/b.jpg", DisplayOrder: 5})

	if err := e.Delete(primary.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var remaining models.ProductImage
	db.First(&remaining, "id = ?", sibling.ID)
	if remaining.IsPrimary {
		t.Error("expected no automatic primary reassignment")
	}
	if remaining.DisplayOrder != 5 {
		t.Errorf("expected display order untouched, got %d", remaining.DisplayOrder)
	}
}

func TestDeleteNotFound(t *testing.T) {
	e, _ := freshEngine()

	if err := e.Delete(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorderAllowsTies(t *testing.T) {
	e, _ := freshEngine()

	a := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg", DisplayOrder: 1})
	mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/b.jpg", DisplayOrder: 7})

	reordered, err := e.Reorder(a.ID, 7)
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if reordered.DisplayOrder != 7 {
		t.Errorf("expected order 7, got %d", reordered.DisplayOrder)
	}

	got, err := e.Get(a.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.DisplayOrder != 7 {
		t.Errorf("expected persisted order 7, got %d", got.DisplayOrder)
	}
}

func TestReorderTiesResolveByID(t *testing.T) {
	e, _ := freshEngine()

	a := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg", DisplayOrder: 7})
	b := mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/b.jpg", DisplayOrder: 7})

	pid := uint(1)
	images, err := e.List(&pid)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].ID != a.ID || images[1].ID != b.ID {
		t.Errorf("expected tie broken by ascending id, got %d then %d", images[0].ID, images[1].ID)
	}
}

func TestListUnfilteredReturnsAllProducts(t *testing.T) {
	e, _ := freshEngine()

	mustCreate(t, e, CreateInput{ProductID: 1, URL: "https://x/a.jpg"})
	mustCreate(t, e, CreateInput{ProductID: 2, URL: "https://x/b.jpg"})

	images, err := e.List(nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(images) != 2 {
		t.Errorf("expected 2 images, got %d", len(images))
	}
}

func TestSetPrimaryNotFound(t *testing.T) {
	e, _ := freshEngine()

	if _, err := e.SetPrimary(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Property: across an arbitrary sequence of create/update/setPrimary calls,
// a product never holds more than one primary image.
func TestPrimaryExclusivityAcrossOperationSequence(t *testing.T) {
	e, db := freshEngine()

	var ids []uint
	for i := 0; i < 5; i++ {
		img := mustCreate(t, e, CreateInput{
			ProductID: 1,
			URL:       fmt.Sprintf("https://x/%d.jpg", i),
			IsPrimary: i%2 == 0,
		})
		ids = append(ids, img.ID)
		if got := primaryCount(db, 1); got > 1 {
			t.Fatalf("after create %d: %d primaries", i, got)
		}
	}

	for _, id := range ids {
		if _, err := e.SetPrimary(id); err != nil {
			t.Fatalf("setPrimary failed: %v", err)
		}
		if got := primaryCount(db, 1); got != 1 {
			t.Fatalf("after setPrimary(%d): %d primaries", id, got)
		}
	}

	isPrimary := true
	for _, id := range ids {
		if _, err := e.Update(id, UpdateInput{URL: "https://x/u.jpg", IsPrimary: &isPrimary}); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if got := primaryCount(db, 1); got != 1 {
			t.Fatalf("after update(%d): %d primaries", id, got)
		}
	}
}

// Concurrent setPrimary calls against the same product must serialize on the
// per-product lock; without it both sweeps could interleave and leave two
// primaries.
func TestSetPrimaryConcurrentCallsKeepInvariant(t *testing.T) {
	e, db := freshEngine()

	var ids []uint
	for i := 0; i < 4; i++ {
		img := mustCreate(t, e, CreateInput{ProductID: 1, URL: fmt.Sprintf("https://x/%d.jpg", i)})
		ids = append(ids, img.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			if _, err := e.SetPrimary(id); err != nil {
				t.Errorf("setPrimary(%d) failed: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	if got := primaryCount(db, 1); got != 1 {
		t.Errorf("expected exactly 1 primary after concurrent calls, got %d", got)
	}
}
