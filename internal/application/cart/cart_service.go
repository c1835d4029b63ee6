package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"go.uber.org/zap"
)

// CartService handles cart operations for the authenticated principal
type CartService struct {
	cartRepo cart.Repository
	txScope  TransactionScope
	logger   *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.Repository, txScope TransactionScope, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		cartRepo: cartRepo,
		txScope:  txScope,
		logger:   logger,
	}
}

// List returns the principal's cart
func (s *CartService) List(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	lines, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(lines)
	return &resp, nil
}

// AddItem merges the variant into an existing line or inserts a new one.
// The principal's lines stay locked for the duration so concurrent adds of
// the same variant serialise instead of racing on the unique key.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	var lines []cart.Line
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.CartRepo()
		if _, err := repo.LockByUser(ctx, userID); err != nil {
			return err
		}

		line, err := repo.FindVariant(ctx, userID, req.ProductID, req.Size, req.Color)
		if err != nil {
			return err
		}
		if line != nil {
			if err := line.Merge(req.Quantity, req.UnitPrice); err != nil {
				return err
			}
		} else {
			if req.UnitPrice == nil {
				return cart.ErrPriceRequired
			}
			line, err = cart.NewLine(userID, req.ProductID, req.Quantity, *req.UnitPrice, req.Size, req.Color)
			if err != nil {
				return err
			}
		}
		if err := repo.Save(ctx, line); err != nil {
			return err
		}

		lines, err = repo.FindByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity),
	)
	resp := ToCartResponse(lines)
	return &resp, nil
}

// UpdateQuantity sets the quantity of one of the principal's lines
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*LineResponse, error) {
	line, err := s.cartRepo.FindByIDForUser(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if err := line.UpdateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	resp := ToLineResponse(line)
	return &resp, nil
}

// RemoveItem deletes one of the principal's lines. Unknown ids are ignored.
func (s *CartService) RemoveItem(ctx context.Context, userID, lineID uuid.UUID) error {
	return s.cartRepo.DeleteForUser(ctx, userID, lineID)
}

// Clear deletes every line of the principal
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	n, err := s.cartRepo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Debug("cart cleared", zap.String("user_id", userID.String()), zap.Int64("lines", n))
	return nil
}
