package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
	apperrors "github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/chitram/chitram-backend/pkg/util"
	"gorm.io/gorm"
)

// orderIDAttempts bounds retries when a generated order id collides.
const orderIDAttempts = 3

const (
	// MaxItemQuantity bounds one artwork's quantity in an order, after merging.
	MaxItemQuantity = 100
	// MaxOrderLines bounds the number of distinct artworks in an order.
	MaxOrderLines = 50
)

type OrderItemInput struct {
	ArtworkID string `json:"artwork_id"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderInput struct {
	// OrderID is optional; a generated id is used when empty.
	OrderID         string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	ShippingAddress string
	CustomerMessage string
	Items           []OrderItemInput
}

type OrderService interface {
	Place(ctx context.Context, input PlaceOrderInput) (*model.Order, error)
	Track(orderID, email string) (*model.PublicOrder, error)
	List(status string, page int) (*Paginated[model.Order], error)
	Export(status string) ([]model.Order, error)
	Get(id string) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	Delete(id string) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	artworkRepo repository.ArtworkRepository
	publisher   events.Publisher
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	artworkRepo repository.ArtworkRepository,
	publisher events.Publisher,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		artworkRepo: artworkRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (in *PlaceOrderInput) normalize() {
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.CustomerName = util.SanitizeText(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerEmail = util.NormalizeEmail(in.CustomerEmail)
	in.ShippingAddress = util.SanitizeText(in.ShippingAddress)
	in.CustomerMessage = util.SanitizeText(in.CustomerMessage)
}

func (in *PlaceOrderInput) validate() error {
	if err := requireFields(
		"customer_name", in.CustomerName,
		"customer_phone", in.CustomerPhone,
		"customer_email", in.CustomerEmail,
		"shipping_address", in.ShippingAddress,
	); err != nil {
		return err
	}
	if !util.IsValidEmail(in.CustomerEmail) {
		return validationError("customer_email is not a valid address")
	}
	if len(in.Items) == 0 {
		return validationError("order must contain at least one item")
	}
	return nil
}

// mergeItems folds repeated artworks into one line, keeping first-seen order.
// A missing quantity counts as one.
func mergeItems(items []OrderItemInput) ([]OrderItemInput, error) {
	merged := make([]OrderItemInput, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ArtworkID)
		if id == "" {
			return nil, validationError("artwork_id is required for every item")
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, validationError("quantity must be at least 1")
		}
		if qty > MaxItemQuantity {
			return nil, validationError("quantity must be at most %d", MaxItemQuantity)
		}
		if i, ok := index[id]; ok {
			if merged[i].Quantity+qty > MaxItemQuantity {
				return nil, validationError("quantity must be at most %d", MaxItemQuantity)
			}
			merged[i].Quantity += qty
			continue
		}
		if len(merged) == MaxOrderLines {
			return nil, validationError("order may contain at most %d artworks", MaxOrderLines)
		}
		index[id] = len(merged)
		merged = append(merged, OrderItemInput{ArtworkID: id, Quantity: qty})
	}
	return merged, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// snapshot prices every line from the current catalog. Client supplied
// prices are never consulted.
func (s *orderService) snapshot(items []OrderItemInput) (model.OrderItems, float64, int, error) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ArtworkID
	}
	artworks, err := s.artworkRepo.FindByIDs(ids)
	if err != nil {
		return nil, 0, 0, err
	}
	byID := make(map[string]model.Artwork, len(artworks))
	for _, a := range artworks {
		byID[a.ID] = a
	}

	var (
		lines = make(model.OrderItems, 0, len(items))
		total float64
		count int
	)
	for _, item := range items {
		artwork, ok := byID[item.ArtworkID]
		if !ok {
			return nil, 0, 0, ErrArtworkNotFound
		}
		if artwork.Status != model.ArtworkStatusListed || artwork.Artist == nil || !artwork.Artist.IsActive() {
			return nil, 0, 0, validationError("artwork %q is not available for order", artwork.Name)
		}

		lineTotal := roundMoney(artwork.Cost * float64(item.Quantity))
		lines = append(lines, model.OrderItem{
			ArtworkID:  artwork.ID,
			Name:       artwork.Name,
			ArtistID:   artwork.ArtistID,
			ArtistName: artwork.Artist.FullName,
			Image:      artwork.Image,
			UnitPrice:  artwork.Cost,
			Quantity:   item.Quantity,
			LineTotal:  lineTotal,
		})
		total += lineTotal
		count += item.Quantity
	}
	return lines, roundMoney(total), count, nil
}

func (s *orderService) Place(ctx context.Context, input PlaceOrderInput) (*model.Order, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}
	items, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}

	lines, total, count, err := s.snapshot(items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerEmail:   input.CustomerEmail,
		ShippingAddress: input.ShippingAddress,
		CustomerMessage: input.CustomerMessage,
		TotalAmount:     total,
		ItemCount:       count,
		Items:           lines,
		Status:          model.OrderStatusPlaced,
	}

	if input.OrderID != "" {
		order.OrderID = input.OrderID
		if err := s.orderRepo.Create(order); err != nil {
			if apperrors.IsUniqueViolation(err) {
				return nil, ErrDuplicateOrderID
			}
			return nil, err
		}
	} else if err := s.createWithGeneratedID(order); err != nil {
		return nil, err
	}

	logger.Info("Order placed", map[string]interface{}{
		"order_id":     order.OrderID,
		"total_amount": order.TotalAmount,
		"item_count":   order.ItemCount,
	})
	events.Emit(ctx, s.publisher, events.OrderPlaced, map[string]interface{}{
		"order_id":      order.OrderID,
		"customer_name": order.CustomerName,
		"total_amount":  order.TotalAmount,
		"item_count":    order.ItemCount,
	})
	return order, nil
}

func (s *orderService) createWithGeneratedID(order *model.Order) error {
	var lastErr error
	for attempt := 0; attempt < orderIDAttempts; attempt++ {
		orderID, err := util.GenerateOrderID(s.now())
		if err != nil {
			return err
		}
		order.ID = ""
		order.OrderID = orderID
		err = s.orderRepo.Create(order)
		if err == nil {
			return nil
		}
		if !apperrors.IsUniqueViolation(err) {
			return err
		}
		logger.Warn("Generated order id collided, retrying", map[string]interface{}{
			"order_id": orderID,
			"attempt":  attempt + 1,
		})
		lastErr = err
	}
	return lastErr
}

// Track finds an order by its public id; the email must match the one given
// at checkout.
func (s *orderService) Track(orderID, email string) (*model.PublicOrder, error) {
	orderID = strings.TrimSpace(orderID)
	email = util.NormalizeEmail(email)
	if err := requireFields("order_id", orderID, "email", email); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if util.NormalizeEmail(order.CustomerEmail) != email {
		return nil, ErrOrderNotFound
	}
	public := order.Public()
	return &public, nil
}

func parseOrderStatus(status string) (*model.OrderStatus, error) {
	if status == "" || status == "all" {
		return nil, nil
	}
	st := model.OrderStatus(status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}
	return &st, nil
}

func (s *orderService) List(status string, page int) (*Paginated[model.Order], error) {
	filter, err := parseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	p := repository.NewPage(page)
	orders, total, err := s.orderRepo.List(filter, p)
	if err != nil {
		return nil, err
	}
	return newPaginated(orders, total, p), nil
}

func (s *orderService) Export(status string) ([]model.Order, error) {
	filter, err := parseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListAll(filter)
}

func (s *orderService) Get(id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus allows any transition. Moving placed -> seen stamps the
// received time; entering delivered always stamps the delivered time.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	now := s.now()
	if status == model.OrderStatusSeen && previous == model.OrderStatusPlaced {
		order.ReceivedAt = &now
	}
	if status == model.OrderStatusDelivered {
		order.DeliveredAt = &now
	}
	order.Status = status

	if err := s.orderRepo.UpdateStatus(order); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": order.OrderID,
		"from":     previous,
		"to":       status,
	})
	events.Emit(ctx, s.publisher, events.OrderStatusChanged, map[string]interface{}{
		"order_id": order.OrderID,
		"from":     previous,
		"to":       status,
	})
	return order, nil
}

func (s *orderService) Delete(id string) error {
	if err := s.orderRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	logger.Info("Order deleted", map[string]interface{}{
		"id": id,
	})
	return nil
}
