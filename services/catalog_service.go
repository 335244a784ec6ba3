package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/cache"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalogService resolves restaurants and menu items. Lists go through a
// read-through cache; single-row lookups always hit the database.
type CatalogService struct {
	Restaurants *repository.RestaurantRepository
	Menus       *repository.MenuRepository
	Cache       cache.Cache
	TTL         time.Duration
}

func NewCatalogService(rests *repository.RestaurantRepository, menus *repository.MenuRepository, c cache.Cache, ttl time.Duration) *CatalogService {
	if c == nil {
		c = cache.Nop()
	}
	return &CatalogService{Restaurants: rests, Menus: menus, Cache: c, TTL: ttl}
}

func (s *CatalogService) ListRestaurants(ctx context.Context) ([]entity.Restaurant, error) {
	key := s.Cache.GenerateKey("restaurants", "all")
	var rests []entity.Restaurant
	if s.cached(ctx, key, &rests) {
		return rests, nil
	}

	rests, err := s.Restaurants.FindAll()
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, rests)
	return rests, nil
}

func (s *CatalogService) GetRestaurant(id uint) (*entity.Restaurant, error) {
	r, err := s.Restaurants.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &RestaurantNotFoundError{ID: id}
	}
	return r, err
}

// ListMenu returns the restaurant's menu; an unknown restaurant is an error.
func (s *CatalogService) ListMenu(ctx context.Context, restaurantID uint) ([]entity.MenuItem, error) {
	if _, err := s.GetRestaurant(restaurantID); err != nil {
		return nil, err
	}

	key := s.Cache.GenerateKey("menu", strconv.FormatUint(uint64(restaurantID), 10))
	var items []entity.MenuItem
	if s.cached(ctx, key, &items) {
		return items, nil
	}

	items, err := s.Menus.FindByRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, items)
	return items, nil
}

func (s *CatalogService) GetMenuItem(id uint) (*entity.MenuItem, error) {
	m, err := s.Menus.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &MenuItemNotFoundError{ID: id}
	}
	return m, err
}

// MissingItems returns the ids in itemIDs that cannot be ordered at the restaurant.
func (s *CatalogService) MissingItems(restaurantID uint, itemIDs []uint) ([]uint, error) {
	found, err := s.Menus.FindAvailableIn(restaurantID, itemIDs)
	if err != nil {
		return nil, err
	}
	ok := make(map[uint]bool, len(found))
	for _, id := range found {
		ok[id] = true
	}
	var missing []uint
	for _, id := range itemIDs {
		if !ok[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type CreateRestaurantInput struct {
	Name, Address, Cuisine string
}

func (s *CatalogService) CreateRestaurant(ctx context.Context, in CreateRestaurantInput) (*entity.Restaurant, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Msg: "is required"}
	}
	r := &entity.Restaurant{Name: in.Name, Address: in.Address, Cuisine: in.Cuisine}
	if err := s.Restaurants.Create(r); err != nil {
		return nil, err
	}
	s.invalidate(ctx, s.Cache.GenerateKey("restaurants", "all"))
	return r, nil
}

type CreateMenuItemInput struct {
	Name, Description string
	Price             decimal.Decimal
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, restaurantID uint, in CreateMenuItemInput) (*entity.MenuItem, error) {
	if _, err := s.GetRestaurant(restaurantID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Msg: "is required"}
	}
	if !in.Price.IsPositive() {
		return nil, &ValidationError{Field: "price", Msg: "must be greater than zero"}
	}

	item := &entity.MenuItem{
		RestaurantID: restaurantID,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price.Round(2),
		Available:    true,
	}
	if err := s.Menus.Create(item); err != nil {
		return nil, err
	}
	s.invalidate(ctx, s.Cache.GenerateKey("menu", strconv.FormatUint(uint64(restaurantID), 10)))
	return item, nil
}

// cache errors only cost a database round trip
func (s *CatalogService) cached(ctx context.Context, key string, out any) bool {
	raw, err := s.Cache.Get(ctx, key)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("catalog cache get failed")
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("catalog cache entry unreadable")
		return false
	}
	return true
}

func (s *CatalogService) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, raw, s.TTL); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("catalog cache set failed")
	}
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		logrus.WithError(err).Warn("catalog cache invalidate failed")
	}
}
