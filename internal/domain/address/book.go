package address

import (
	"sort"

	"github.com/google/uuid"
)

// Book is the complete set of addresses owned by one principal.
// It is loaded under a row lock and enforces the default-address invariant:
// at most one default, and exactly one whenever the book is non-empty.
//
// Mutations record which addresses changed. Dirty returns cleared defaults
// before newly set ones so writes never expose two defaults at once.
type Book struct {
	ownerID   uuid.UUID
	addresses []*Address
	cleared   []*Address
	touched   []*Address
	removed   []*Address
}

// NewBook wraps the principal's current addresses
func NewBook(ownerID uuid.UUID, addresses []Address) *Book {
	b := &Book{ownerID: ownerID, addresses: make([]*Address, 0, len(addresses))}
	for i := range addresses {
		a := addresses[i]
		b.addresses = append(b.addresses, &a)
	}
	return b
}

// Len returns the number of addresses in the book
func (b *Book) Len() int {
	return len(b.addresses)
}

// Find returns the address with the given id, or ErrAddressNotFound
func (b *Book) Find(id uuid.UUID) (*Address, error) {
	for _, a := range b.addresses {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrAddressNotFound
}

// Default returns the current default address, or nil when the book is empty
func (b *Book) Default() *Address {
	for _, a := range b.addresses {
		if a.IsDefault {
			return a
		}
	}
	return nil
}

// Add creates a new address. The first address of a principal is always
// the default; otherwise makeDefault moves the default onto the new address.
func (b *Book) Add(details Details, makeDefault bool) (*Address, error) {
	addr, err := NewAddress(b.ownerID, details)
	if err != nil {
		return nil, err
	}
	if len(b.addresses) == 0 || makeDefault {
		b.clearDefaults(addr.ID)
		addr.IsDefault = true
	}
	b.addresses = append(b.addresses, addr)
	b.touched = append(b.touched, addr)
	return addr, nil
}

// Update applies a partial update. Setting IsDefault to true follows the
// same clear-then-set rule as SetDefault; unsetting the current default is refused.
func (b *Book) Update(id uuid.UUID, patch Patch) (*Address, error) {
	addr, err := b.Find(id)
	if err != nil {
		return nil, err
	}
	if patch.IsDefault != nil && !*patch.IsDefault && addr.IsDefault {
		return nil, ErrDefaultRequired
	}
	if err := addr.applyFields(patch); err != nil {
		return nil, err
	}
	if patch.IsDefault != nil && *patch.IsDefault && !addr.IsDefault {
		b.clearDefaults(addr.ID)
		addr.IsDefault = true
	}
	b.markTouched(addr)
	return addr, nil
}

// SetDefault makes id the single default address. It is a no-op when id is already default.
func (b *Book) SetDefault(id uuid.UUID) (*Address, bool, error) {
	addr, err := b.Find(id)
	if err != nil {
		return nil, false, err
	}
	if addr.IsDefault {
		return addr, false, nil
	}
	b.clearDefaults(addr.ID)
	addr.IsDefault = true
	addr.Touch()
	b.markTouched(addr)
	return addr, true, nil
}

// Remove deletes an address. The default address can only be removed when it
// is the last one left.
func (b *Book) Remove(id uuid.UUID) (*Address, error) {
	addr, err := b.Find(id)
	if err != nil {
		return nil, err
	}
	if addr.IsDefault && len(b.addresses) > 1 {
		return nil, ErrCannotDeleteDefault
	}
	kept := b.addresses[:0]
	for _, a := range b.addresses {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	b.addresses = kept
	b.removed = append(b.removed, addr)
	return addr, nil
}

// Check verifies the default-address invariant
func (b *Book) Check() error {
	defaults := 0
	for _, a := range b.addresses {
		if a.IsDefault {
			defaults++
		}
	}
	if defaults > 1 || (len(b.addresses) > 0 && defaults == 0) {
		return ErrInvariantViolated
	}
	return nil
}

// Dirty returns the addresses to persist: cleared defaults first, then the rest
func (b *Book) Dirty() []*Address {
	out := make([]*Address, 0, len(b.cleared)+len(b.touched))
	out = append(out, b.cleared...)
	for _, a := range b.touched {
		if !contains(b.cleared, a) {
			out = append(out, a)
		}
	}
	return out
}

// Removed returns the addresses deleted from the book
func (b *Book) Removed() []*Address {
	return b.removed
}

// Sorted returns the addresses default first, then newest first
func (b *Book) Sorted() []Address {
	out := make([]Address, 0, len(b.addresses))
	for _, a := range b.addresses {
		out = append(out, *a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (b *Book) clearDefaults(except uuid.UUID) {
	for _, a := range b.addresses {
		if a.ID != except && a.IsDefault {
			a.IsDefault = false
			a.Touch()
			if !contains(b.cleared, a) {
				b.cleared = append(b.cleared, a)
			}
		}
	}
}

func (b *Book) markTouched(a *Address) {
	if !contains(b.touched, a) {
		b.touched = append(b.touched, a)
	}
}

func contains(list []*Address, target *Address) bool {
	for _, a := range list {
		if a == target {
			return true
		}
	}
	return false
}
