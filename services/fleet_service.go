package services

import (
	"strings"

	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"gorm.io/gorm"
)

// FleetService registers employees and vehicles.
type FleetService struct {
	DB        *gorm.DB
	Users     *repository.UserRepository
	Employees *repository.EmployeeRepository
	Vehicles  *repository.VehicleRepository
}

func NewFleetService(db *gorm.DB, users *repository.UserRepository, employees *repository.EmployeeRepository, vehicles *repository.VehicleRepository) *FleetService {
	return &FleetService{DB: db, Users: users, Employees: employees, Vehicles: vehicles}
}

type CreateEmployeeInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phoneNumber"`
	Role      string `json:"role"`
	// optional driver login, needed to complete deliveries
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// CreateEmployee stores the employee and, when Email is set, a matching user
// account in the same transaction.
func (s *FleetService) CreateEmployee(in CreateEmployeeInput) (*entity.Employee, error) {
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entity.EmployeeRoleDriver
	}
	if in.Email != "" && in.Password == "" {
		return nil, &ValidationError{Field: "password", Msg: "is required with email"}
	}
	if in.Email != "" && role != entity.EmployeeRoleDriver {
		return nil, &ValidationError{Field: "email", Msg: "only drivers get a login"}
	}

	if in.Email != "" {
		if n, err := s.Users.CountByEmail(normalizeEmail(in.Email)); err != nil {
			return nil, err
		} else if n > 0 {
			return nil, ErrEmailTaken
		}
	}

	emp := &entity.Employee{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.Phone),
		Role:        role,
		Active:      true,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if in.Email != "" {
			hashed, err := hashPassword(in.Password)
			if err != nil {
				return err
			}
			u := &entity.User{
				Email: normalizeEmail(in.Email), Password: hashed,
				FirstName: emp.FirstName, LastName: emp.LastName, PhoneNumber: emp.PhoneNumber,
				Role: entity.RoleDriver,
			}
			if err := s.Users.Create(tx, u); err != nil {
				return err
			}
			emp.UserID = &u.ID
		}
		return s.Employees.Create(tx, emp)
	})
	if err != nil {
		return nil, err
	}
	return emp, nil
}

type CreateVehicleInput struct {
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	Type               string `json:"type"`
}

func (s *FleetService) CreateVehicle(in CreateVehicleInput) (*entity.Vehicle, error) {
	reg := strings.ToUpper(strings.TrimSpace(in.RegistrationNumber))
	if reg == "" {
		return nil, &ValidationError{Field: "registrationNumber", Msg: "is required"}
	}
	v := &entity.Vehicle{RegistrationNumber: reg, Type: strings.TrimSpace(in.Type), Active: true}
	if err := s.Vehicles.Create(s.DB, v); err != nil {
		return nil, err
	}
	return v, nil
}
