package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockfifo-api/internal/application/dto"
	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
	"github.com/jhoicas/stockfifo-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login de empleados.
type AuthUseCase struct {
	staffRepo repository.StaffRepository
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(staffRepo repository.StaffRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{staffRepo: staffRepo, jwtCfg: jwtCfg}
}

// Register crea un empleado: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.StaffResponse, error) {
	existing, _ := uc.staffRepo.FindByEmail(ctx, in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	staff := &entity.Staff{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return toStaffResponse(staff), nil
}

// Login verifica email/password, genera JWT y retorna token + empleado.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	staff, err := uc.staffRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, domain.ErrStaffNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if staff.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, staff.ID, staff.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		Staff: *toStaffResponse(staff),
	}, nil
}

func toStaffResponse(s *entity.Staff) *dto.StaffResponse {
	return &dto.StaffResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.Role,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
