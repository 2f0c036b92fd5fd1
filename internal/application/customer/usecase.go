// Package customer consultas de administración sobre clientes.
package customer

import (
	"context"

	"github.com/jhoicas/ahorro-api/internal/application/dto"
	"github.com/jhoicas/ahorro-api/internal/domain"
	"github.com/jhoicas/ahorro-api/internal/domain/entity"
	"github.com/jhoicas/ahorro-api/internal/domain/repository"
)

// UseCase detalle de cliente para el panel de administración.
type UseCase struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	deviceRepo  repository.DeviceRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(userRepo repository.UserRepository, accountRepo repository.AccountRepository, deviceRepo repository.DeviceRepository) *UseCase {
	return &UseCase{userRepo: userRepo, accountRepo: accountRepo, deviceRepo: deviceRepo}
}

// Get devuelve usuario, saldo y dispositivos. Los administradores no se exponen por esta vía.
func (uc *UseCase) Get(ctx context.Context, userID string) (*dto.CustomerDetailResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != entity.RoleCustomer {
		return nil, domain.ErrUserNotFound
	}

	out := &dto.CustomerDetailResponse{User: dto.NewUserResponse(user), Devices: []dto.DeviceResponse{}}

	account, err := uc.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		out.Account = &dto.BalanceResponse{Balance: account.Balance, LastUpdated: account.UpdatedAt}
	}

	devices, err := uc.deviceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		out.Devices = append(out.Devices, dto.NewDeviceResponse(d))
	}
	return out, nil
}
