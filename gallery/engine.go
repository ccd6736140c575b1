package gallery

import (
	"time"

	"galleria-backend/models"
)

// Defaults applied by the engine when a create request leaves dimensions unset.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

// Engine owns the gallery invariants: at most one primary image per product,
// and displayOrder as the relative presentation sequence. Handlers hand it
// pre-validated input; the engine never re-checks field shapes or ranges.
//
// Every mutating operation takes the owning product's lock and then runs as a
// single transaction, so the read-siblings-then-sweep-then-write sequence is
// atomic with respect to other mutations of the same gallery.
type Engine struct {
	store Store
	locks *productLocks
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		locks: newProductLocks(),
	}
}

// CreateInput carries a pre-validated create request. DisplayOrder 0 means
// "no preference": the engine appends after the highest sibling order. A
// literal order of zero therefore cannot be requested on create; reorder
// accepts it.
type CreateInput struct {
	ProductID    uint
	URL          string
	Caption      *string
	IsPrimary    bool
	DisplayOrder int
	Width        int
	Height       int
	Rotation     int
}

// UpdateInput carries a pre-validated partial update. URL is mandatory on
// every update; nil optional fields retain their prior value.
type UpdateInput struct {
	URL          string
	Caption      *string
	IsPrimary    *bool
	DisplayOrder *int
	Width        *int
	Height       *int
	Rotation     *int
}

// List returns all images, or one product's images in ascending display
// order when a product filter is given.
func (e *Engine) List(productID *uint) ([]models.ProductImage, error) {
	if productID != nil {
		return e.store.GetByProductID(*productID)
	}
	return e.store.GetAll()
}

func (e *Engine) Get(id uint) (models.ProductImage, error) {
	return e.store.GetByID(id)
}

// Create assigns the id and both timestamps, resolves the display order, and
// enforces primary exclusivity before the new record is inserted.
func (e *Engine) Create(in CreateInput) (models.ProductImage, error) {
	e.locks.Lock(in.ProductID)
	defer e.locks.Unlock(in.ProductID)

	var out models.ProductImage
	err := e.store.Transaction(func(tx Store) error {
		now := time.Now().UTC()

		if in.IsPrimary {
			if err := sweepPrimary(tx, in.ProductID, 0, now); err != nil {
				return err
			}
		}

		order := in.DisplayOrder
		if order == 0 {
			var err error
			order, err = nextDisplayOrder(tx, in.ProductID)
			if err != nil {
				return err
			}
		}

		img := models.ProductImage{
			ProductID:    in.ProductID,
			URL:          in.URL,
			Caption:      in.Caption,
			IsPrimary:    in.IsPrimary,
			DisplayOrder: order,
			Width:        in.Width,
			Height:       in.Height,
			Rotation:     in.Rotation,
			DateCreated:  now,
			DateModified: now,
		}
		if img.Width == 0 {
			img.Width = DefaultWidth
		}
		if img.Height == 0 {
			img.Height = DefaultHeight
		}
		if err := tx.Add(&img); err != nil {
			return err
		}
		out = img
		return nil
	})
	if err != nil {
		return models.ProductImage{}, err
	}
	return out, nil
}

// Update applies a partial update. Setting isPrimary on a record that was not
// already primary sweeps every other sibling first. DateCreated is immutable;
// DateModified always refreshes.
func (e *Engine) Update(id uint, in UpdateInput) (models.ProductImage, error) {
	existing, err := e.store.GetByID(id)
	if err != nil {
		return models.ProductImage{}, err
	}

	e.locks.Lock(existing.ProductID)
	defer e.locks.Unlock(existing.ProductID)

	var out models.ProductImage
	err = e.store.Transaction(func(tx Store) error {
		img, err := tx.GetByID(id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()

		if in.IsPrimary != nil && *in.IsPrimary && !img.IsPrimary {
			if err := sweepPrimary(tx, img.ProductID, img.ID, now); err != nil {
				return err
			}
		}

		fields := map[string]interface{}{
			"url":           in.URL,
			"date_modified": now,
		}
		if in.Caption != nil {
			fields["caption"] = *in.Caption
		}
		if in.IsPrimary != nil {
			fields["is_primary"] = *in.IsPrimary
		}
		if in.DisplayOrder != nil {
			fields["display_order"] = *in.DisplayOrder
		}
		if in.Width != nil {
			fields["width"] = *in.Width
		}
		if in.Height != nil {
			fields["height"] = *in.Height
		}
		if in.Rotation != nil {
			fields["rotation"] = *in.Rotation
		}
		if err := tx.Update(id, fields); err != nil {
			return err
		}

		out, err = tx.GetByID(id)
		return err
	})
	if err != nil {
		return models.ProductImage{}, err
	}
	return out, nil
}

// Delete permanently removes the record. Sibling display orders are left
// untouched and no sibling is promoted to primary: a gallery may legitimately
// end up with zero primary images.
func (e *Engine) Delete(id uint) error {
	existing, err := e.store.GetByID(id)
	if err != nil {
		return err
	}

	e.locks.Lock(existing.ProductID)
	defer e.locks.Unlock(existing.ProductID)

	return e.store.Transaction(func(tx Store) error {
		return tx.Delete(id)
	})
}

// Reorder overwrites the record's display order. Uniqueness among siblings is
// not enforced; ties resolve by id in the listing order.
func (e *Engine) Reorder(id uint, newOrder int) (models.ProductImage, error) {
	existing, err := e.store.GetByID(id)
	if err != nil {
		return models.ProductImage{}, err
	}

	e.locks.Lock(existing.ProductID)
	defer e.locks.Unlock(existing.ProductID)

	var out models.ProductImage
	err = e.store.Transaction(func(tx Store) error {
		fields := map[string]interface{}{
			"display_order": newOrder,
			"date_modified": time.Now().UTC(),
		}
		if err := tx.Update(id, fields); err != nil {
			return err
		}
		var err error
		out, err = tx.GetByID(id)
		return err
	})
	if err != nil {
		return models.ProductImage{}, err
	}
	return out, nil
}

// SetPrimary makes the record its product's only primary image. Create and
// update reuse the same sweep, keeping a single source of truth for the
// exclusivity invariant.
func (e *Engine) SetPrimary(id uint) (models.ProductImage, error) {
	existing, err := e.store.GetByID(id)
	if err != nil {
		return models.ProductImage{}, err
	}

	e.locks.Lock(existing.ProductID)
	defer e.locks.Unlock(existing.ProductID)

	var out models.ProductImage
	err = e.store.Transaction(func(tx Store) error {
		img, err := tx.GetByID(id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()

		if err := sweepPrimary(tx, img.ProductID, img.ID, now); err != nil {
			return err
		}
		fields := map[string]interface{}{
			"is_primary":    true,
			"date_modified": now,
		}
		if err := tx.Update(id, fields); err != nil {
			return err
		}

		out, err = tx.GetByID(id)
		return err
	})
	if err != nil {
		return models.ProductImage{}, err
	}
	return out, nil
}

// sweepPrimary unsets isPrimary on every sibling other than exceptID,
// refreshing their dateModified. exceptID 0 sweeps the whole gallery.
func sweepPrimary(tx Store, productID, exceptID uint, now time.Time) error {
	siblings, err := tx.GetByProductID(productID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if sibling.ID == exceptID || !sibling.IsPrimary {
			continue
		}
		fields := map[string]interface{}{
			"is_primary":    false,
			"date_modified": now,
		}
		if err := tx.Update(sibling.ID, fields); err != nil {
			return err
		}
	}
	return nil
}

// nextDisplayOrder appends after the highest sibling order, starting at 1
// for an empty gallery.
func nextDisplayOrder(tx Store, productID uint) (int, error) {
	siblings, err := tx.GetByProductID(productID)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, sibling := range siblings {
		if sibling.DisplayOrder > max {
			max = sibling.DisplayOrder
		}
	}
	return max + 1, nil
}
