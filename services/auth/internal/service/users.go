package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/validate"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/transport"
)

func (s *AuthService) Me(ctx context.Context, id uint) (*models.User, error) {
	return s.GetUser(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUserByParam(ctx context.Context, raw string) (*models.User, error) {
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *AuthService) UpdateRoles(ctx context.Context, id uint, req transport.UpdateRolesRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_roles", "user_id", id)

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validate.Describe(err))
	}

	roles := dedupe(req.Roles)
	user, err := s.Repo.UpdateRoles(ctx, id, roles)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		l.Error("update_roles_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("update_roles_success", "roles", roles)
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return err
	}
	logging.FromContext(ctx).Info("delete_user_success", "user_id", id)
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, r := range in {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
