package service

import (
	"context"
	"strconv"

	"pizza-store/internal/apperr"
	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
)

// Admin covers the mutations gated behind the driver and manager roles.
// Every method re-resolves the caller's role before acting.
type Admin struct {
	users   repository.Users
	catalog repository.Catalog
	orders  repository.Orders
	lg      *logger.Logger
}

func NewAdmin(users repository.Users, catalog repository.Catalog, orders repository.Orders, lg *logger.Logger) *Admin {
	return &Admin{users: users, catalog: catalog, orders: orders, lg: lg}
}

func (a *Admin) requireManager(ctx context.Context, s Session) error {
	role, err := a.users.GetRole(ctx, s.Login)
	if err != nil {
		return err
	}
	if role != domain.RoleManager {
		return apperr.Unauthorizedf("operation requires the manager role, %q has %q", s.Login, role)
	}
	return nil
}

func (a *Admin) requireDriverOrManager(ctx context.Context, s Session) error {
	role, err := a.users.GetRole(ctx, s.Login)
	if err != nil {
		return err
	}
	if role != domain.RoleDriver && role != domain.RoleManager {
		return apperr.Unauthorizedf("operation requires the driver or manager role, %q has %q", s.Login, role)
	}
	return nil
}

// RenameItem changes an item's name and syncs the denormalized copy kept in
// order lines, atomically.
func (a *Admin) RenameItem(ctx context.Context, s Session, name, newName string) error {
	if err := a.requireManager(ctx, s); err != nil {
		return err
	}
	if newName == "" {
		return apperr.Validationf("item name must not be empty")
	}
	if err := a.requireItem(ctx, name); err != nil {
		return err
	}
	if err := a.catalog.Rename(ctx, name, newName); err != nil {
		return err
	}
	a.lg.Info("item_renamed", map[string]any{"from": name, "to": newName, "by": s.Login})
	return nil
}

func (a *Admin) UpdateIngredients(ctx context.Context, s Session, name, ingredients string) error {
	if err := a.requireManager(ctx, s); err != nil {
		return err
	}
	if err := a.requireItem(ctx, name); err != nil {
		return err
	}
	return a.catalog.SetIngredients(ctx, name, ingredients)
}

func (a *Admin) UpdateCategory(ctx context.Context, s Session, name, category string) error {
	if err := a.requireManager(ctx, s); err != nil {
		return err
	}
	if err := a.requireItem(ctx, name); err != nil {
		return err
	}
	return a.catalog.SetCategory(ctx, name, category)
}

func (a *Admin) UpdatePrice(ctx context.Context, s Session, name, priceText string) error {
	if err := a.requireManager(ctx, s); err != nil {
		return err
	}
	price, err := ParsePrice(priceText)
	if err != nil {
		return err
	}
	if err := a.requireItem(ctx, name); err != nil {
		return err
	}
	return a.catalog.SetPrice(ctx, name, price)
}

func (a *Admin) UpdateDescription(ctx context.Context, s Session, name, description string) error {
	if err := a.requireManager(ctx, s); err != nil {
		return err
	}
	if err := a.requireItem(ctx, name); err != nil {
		return err
	}
	return a.catalog.SetDescription(ctx, name, description)
}

// AddItem creates a new menu item; all five descriptive fields are required
// and the price must be a non-negative decimal.
func (a *Admin) AddItem(ctx context.Context, s Session, name, ingredients, category, priceText, description string) error {
	if err := a.requireManager(ctx, s); err != nil {
		return err
	}
	if name == "" || ingredients == "" || category == "" || description == "" {
		return apperr.Validationf("every item field is required")
	}
	price, err := ParsePrice(priceText)
	if err != nil {
		return err
	}
	if err := a.catalog.Insert(ctx, domain.MenuItem{
		Name:        name,
		Ingredients: ingredients,
		Category:    category,
		Price:       price,
		Description: description,
	}); err != nil {
		return err
	}
	a.lg.Info("item_added", map[string]any{"item": name, "by": s.Login})
	return nil
}

// InspectUser lets a manager read any user's profile.
func (a *Admin) InspectUser(ctx context.Context, s Session, login string) (domain.User, error) {
	if err := a.requireManager(ctx, s); err != nil {
		return domain.User{}, err
	}
	return a.users.Get(ctx, login)
}

func (a *Admin) UpdateUserLogin(ctx context.Context, s Session, login, newLogin string) error {
	if err := a.requireManager(ctx, s); err != nil {
		return err
	}
	if err := ValidateLogin(newLogin); err != nil {
		return err
	}
	if err := a.requireUser(ctx, login); err != nil {
		return err
	}
	if err := a.users.SetLogin(ctx, login, newLogin); err != nil {
		return err
	}
	a.lg.Info("user_login_changed", map[string]any{"from": login, "to": newLogin, "by": s.Login})
	return nil
}

func (a *Admin) UpdateUserRole(ctx context.Context, s Session, login, roleText string) error {
	if err := a.requireManager(ctx, s); err != nil {
		return err
	}
	role, err := domain.ParseRole(roleText)
	if err != nil {
		return err
	}
	if err := a.requireUser(ctx, login); err != nil {
		return err
	}
	if err := a.users.SetRole(ctx, login, role); err != nil {
		return err
	}
	a.lg.Info("user_role_changed", map[string]any{"login": login, "role": roleText, "by": s.Login})
	return nil
}

// UpdateOrderStatus is available to drivers and managers.
func (a *Admin) UpdateOrderStatus(ctx context.Context, s Session, orderID int64, status string) error {
	if err := a.requireDriverOrManager(ctx, s); err != nil {
		return err
	}
	if status == "" {
		return apperr.Validationf("order status must not be empty")
	}
	exists, err := a.orders.Exists(ctx, orderID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundf("order %d", orderID)
	}
	return a.orders.SetStatus(ctx, orderID, status)
}

func (a *Admin) requireItem(ctx context.Context, name string) error {
	exists, err := a.catalog.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundf("item %q", name)
	}
	return nil
}

func (a *Admin) requireUser(ctx context.Context, login string) error {
	exists, err := a.users.Exists(ctx, login)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundf("user %q", login)
	}
	return nil
}

// ParsePrice validates a raw price entry as a non-negative decimal.
func ParsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price < 0 {
		return 0, apperr.Validationf("price %q must be a non-negative decimal", s)
	}
	return price, nil
}
