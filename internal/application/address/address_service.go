package address

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/address"
	"go.uber.org/zap"
)

// AddressService maintains a principal's address book.
// Every mutation loads the whole book under a row lock, applies the change
// through address.Book and persists the result in the same transaction.
type AddressService struct {
	addressRepo address.Repository
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo address.Repository, txScope TransactionScope, logger *zap.Logger) *AddressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressService{
		addressRepo: addressRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// List returns the principal's addresses, default first then newest
func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	list, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToAddressResponses(address.NewBook(userID, list).Sorted()), nil
}

// Get returns one of the principal's addresses
func (s *AddressService) Get(ctx context.Context, userID, id uuid.UUID) (*AddressResponse, error) {
	a, err := s.addressRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAddressResponse(a)
	return &resp, nil
}

// Add creates an address. The principal's first address is always default.
func (s *AddressService) Add(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*AddressResponse, error) {
	var created *address.Address
	err := s.withBook(ctx, userID, func(book *address.Book) error {
		var err error
		created, err = book.Add(req.Details(), req.IsDefault)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("address added",
		zap.String("user_id", userID.String()),
		zap.String("address_id", created.ID.String()),
		zap.Bool("is_default", created.IsDefault),
	)
	resp := ToAddressResponse(created)
	return &resp, nil
}

// Update applies a partial update to one of the principal's addresses
func (s *AddressService) Update(ctx context.Context, userID, id uuid.UUID, req UpdateAddressRequest) (*AddressResponse, error) {
	var updated *address.Address
	err := s.withBook(ctx, userID, func(book *address.Book) error {
		var err error
		updated, err = book.Update(id, req.Patch())
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToAddressResponse(updated)
	return &resp, nil
}

// SetDefault moves the default flag onto the given address
func (s *AddressService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*AddressResponse, error) {
	var target *address.Address
	err := s.withBook(ctx, userID, func(book *address.Book) error {
		var err error
		target, _, err = book.SetDefault(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToAddressResponse(target)
	return &resp, nil
}

// Delete removes a non-default address, or the principal's last address
func (s *AddressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := s.withBook(ctx, userID, func(book *address.Book) error {
		_, err := book.Remove(id)
		return err
	})
	if err != nil {
		return err
	}
	s.logger.Info("address deleted",
		zap.String("user_id", userID.String()),
		zap.String("address_id", id.String()),
	)
	return nil
}

// withBook locks the principal's addresses, runs fn and persists the changes.
// Cleared defaults are written before the new default.
func (s *AddressService) withBook(ctx context.Context, userID uuid.UUID, fn func(book *address.Book) error) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.AddressRepo()
		list, err := repo.LockByUser(ctx, userID)
		if err != nil {
			return err
		}
		book := address.NewBook(userID, list)
		if err := fn(book); err != nil {
			return err
		}
		if err := book.Check(); err != nil {
			return err
		}

		for _, a := range book.Removed() {
			if err := repo.DeleteForUser(ctx, userID, a.ID); err != nil {
				return err
			}
		}
		for _, a := range book.Dirty() {
			if err := repo.Save(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
}
