package store

import (
	"encoding/json"
	"fmt"
	"log"

	"kugihands/internal/kvstore"
	"kugihands/internal/models"
)

const favoritesKeyPrefix = "kugihands-favorites-"

// Favorites is the current identity's liked-product set, persisted under a
// per-identity key. The in-memory set follows the session: it loads when an
// identity logs in and empties on logout, while the persisted data stays.
type Favorites struct {
	kv       kvstore.Store
	auth     *Auth
	errorLog *log.Logger
	items    []models.FavoriteEntry
}

func NewFavorites(kv kvstore.Store, auth *Auth, errorLog *log.Logger) *Favorites {
	f := &Favorites{kv: kv, auth: auth, errorLog: errorLog}
	auth.OnSessionChange(f.sessionChanged)
	f.sessionChanged(auth.Current())
	return f
}

func (f *Favorites) sessionChanged(identity *models.Identity) {
	if identity == nil {
		f.items = nil
		return
	}
	f.items = f.load(identity.ID)
}

func (f *Favorites) load(identityID string) []models.FavoriteEntry {
	key := favoritesKeyPrefix + identityID
	raw, ok, err := f.kv.Get(key)
	if err != nil || !ok {
		return nil
	}
	var items []models.FavoriteEntry
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if f.errorLog != nil {
			f.errorLog.Printf("discarding corrupt favorites for %s: %v", identityID, err)
		}
		f.kv.Delete(key)
		return nil
	}
	return items
}

// Add inserts a product snapshot unless it is already present; adding a
// favorite twice is a no-op. Fails with ErrNotAuthenticated when no
// session is active so the caller can prompt a login.
func (f *Favorites) Add(product models.FavoriteEntry) error {
	if !f.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if f.IsFavorite(product.ID) {
		return nil
	}
	f.items = append(f.items, product)
	if err := f.persist(); err != nil {
		f.items = f.items[:len(f.items)-1]
		return err
	}
	return nil
}

// Remove deletes the entry with productID; absent ids are a no-op.
func (f *Favorites) Remove(productID string) error {
	for i, item := range f.items {
		if item.ID != productID {
			continue
		}
		removed := item
		f.items = append(f.items[:i], f.items[i+1:]...)
		if err := f.persist(); err != nil {
			f.items = append(f.items[:i], append([]models.FavoriteEntry{removed}, f.items[i:]...)...)
			return err
		}
		return nil
	}
	return nil
}

// Toggle adds the product when absent and removes it when present,
// reporting whether it is a favorite afterwards.
func (f *Favorites) Toggle(product models.FavoriteEntry) (bool, error) {
	if f.IsFavorite(product.ID) {
		return false, f.Remove(product.ID)
	}
	if err := f.Add(product); err != nil {
		return false, err
	}
	return true, nil
}

func (f *Favorites) IsFavorite(productID string) bool {
	for _, item := range f.items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

func (f *Favorites) Count() int { return len(f.items) }

// Items returns a copy of the current set.
func (f *Favorites) Items() []models.FavoriteEntry {
	out := make([]models.FavoriteEntry, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Favorites) persist() error {
	identity := f.auth.Current()
	if identity == nil {
		return ErrNotAuthenticated
	}
	raw, err := json.Marshal(f.items)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := f.kv.Set(favoritesKeyPrefix+identity.ID, string(raw)); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}
