package services

import (
	"errors"
	"strings"
	"time"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/angr3yo/Food-Delivery-DBMS/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration, login and the customer profile.
type AuthService struct {
	userRepo  *repository.UserRepository
	orderRepo *repository.OrderRepository
	ledger    *PaymentLedger
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(users *repository.UserRepository, orders *repository.OrderRepository, ledger *PaymentLedger, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  users,
		orderRepo: orders,
		ledger:    ledger,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phoneNumber"`
}

// Register creates a customer account.
func (s *AuthService) Register(in RegisterInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)

	count, err := s.userRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:       email,
		Password:    hashed,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.Phone),
		Role:        entity.RoleCustomer,
	}
	if err := s.userRepo.Create(s.userRepo.DB, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a JWT.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, errors.New("cannot generate token")
	}
	return token, user, nil
}

func (s *AuthService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.FindByID(userID)
}

type CustomerProfile struct {
	User          *entity.User    `json:"user"`
	OrderCount    int64           `json:"orderCount"`
	LifetimeSpend decimal.Decimal `json:"lifetimeSpend"`
}

// CustomerProfile adds the order count and the spend over all payment methods.
func (s *AuthService) CustomerProfile(userID uint) (*CustomerProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	count, err := s.orderRepo.CountForCustomer(userID)
	if err != nil {
		return nil, err
	}
	spend, err := s.ledger.LifetimeSpend(userID)
	if err != nil {
		return nil, err
	}
	return &CustomerProfile{User: user, OrderCount: count, LifetimeSpend: spend}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(pw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("hash password failed")
	}
	return string(hashed), nil
}

// IsNotFound is true for gorm's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
