package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"pizza-store/internal/apperr"
	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
	"pizza-store/internal/service"
)

// App wires the services to the interactive menus.
type App struct {
	accounts *service.Accounts
	admin    *service.Admin
	flow     *service.OrderFlow
	catalog  repository.Catalog
	stores   repository.Stores
	orders   repository.Orders
	p        *Prompter
	out      io.Writer
	lg       *logger.Logger
}

func NewApp(
	accounts *service.Accounts,
	admin *service.Admin,
	flow *service.OrderFlow,
	catalog repository.Catalog,
	stores repository.Stores,
	orders repository.Orders,
	p *Prompter,
	out io.Writer,
	lg *logger.Logger,
) *App {
	return &App{
		accounts: accounts,
		admin:    admin,
		flow:     flow,
		catalog:  catalog,
		stores:   stores,
		orders:   orders,
		p:        p,
		out:      out,
		lg:       lg,
	}
}

// Run drives the top-level menu until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "*******************************************************")
	fmt.Fprintln(a.out, "              Pizza Store")
	fmt.Fprintln(a.out, "*******************************************************")

	for {
		fmt.Fprintln(a.out, "MAIN MENU")
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "1. Create user")
		fmt.Fprintln(a.out, "2. Log in")
		fmt.Fprintln(a.out, "9. < EXIT")
		choice, err := a.p.ReadInt("Please make your choice: ")
		if err != nil {
			return exitErr(err)
		}

		switch choice {
		case 1:
			err = a.createUser(ctx)
		case 2:
			err = a.logIn(ctx)
		case 9:
			return nil
		default:
			fmt.Fprintln(a.out, "Unrecognized choice!")
		}
		if err := a.handle(err); err != nil {
			return exitErr(err)
		}
	}
}

// handle prints recoverable operation errors and passes stream errors up.
func (a *App) handle(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, apperr.ErrValidation):
		fmt.Fprintln(a.out, "Invalid input:", err)
	case errors.Is(err, apperr.ErrNotFound):
		fmt.Fprintln(a.out, "Not found:", err)
	case errors.Is(err, apperr.ErrUnauthorized):
		fmt.Fprintln(a.out, "Unauthorised:", err)
	case errors.Is(err, apperr.ErrExecution):
		fmt.Fprintln(a.out, "Operation failed:", err)
	default:
		return err
	}
	return nil
}

func exitErr(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (a *App) createUser(ctx context.Context) error {
	login, err := a.readField("\tEnter login: ", service.ValidateLogin)
	if err != nil {
		return err
	}
	password, err := a.readField("\tEnter password: ", service.ValidatePassword)
	if err != nil {
		return err
	}
	phone, err := a.readField("\tEnter phone number: ", service.ValidatePhone)
	if err != nil {
		return err
	}
	role, err := a.readRole("\tEnter role (customer/driver/manager): ")
	if err != nil {
		return err
	}
	if err := a.accounts.Register(ctx, login, password, phone, role); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %s created.\n", login)
	return nil
}

func (a *App) readField(prompt string, check func(string) error) (string, error) {
	for {
		v, err := a.p.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		if cerr := check(v); cerr != nil {
			fmt.Fprintln(a.out, "Invalid input:", cerr)
			continue
		}
		return v, nil
	}
}

func (a *App) readRole(prompt string) (domain.Role, error) {
	for {
		v, err := a.p.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		role, cerr := domain.ParseRole(v)
		if cerr != nil {
			fmt.Fprintln(a.out, "Invalid input:", cerr)
			continue
		}
		return role, nil
	}
}

func (a *App) logIn(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out, "---------")
		login, err := a.p.ReadLine("\tEnter login: ")
		if err != nil {
			return err
		}
		password, err := a.p.ReadLine("\tEnter password: ")
		if err != nil {
			return err
		}
		s, ok, err := a.accounts.Authenticate(ctx, login, password)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Invalid combination for login and password!")
			continue
		}
		fmt.Fprintf(a.out, "\nWelcome again %s\n", s.Login)
		return a.userLoop(ctx, s)
	}
}

func (a *App) userLoop(ctx context.Context, s service.Session) error {
	for {
		// The role can change mid-session through another session's
		// administrative action; resolve it before every render.
		role, err := a.accounts.Role(ctx, s)
		if err != nil {
			if herr := a.handle(err); herr != nil {
				return herr
			}
			return nil
		}
		a.printUserMenu(role)

		choice, err := a.p.ReadInt("Please make your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = a.viewProfile(ctx, s)
		case 2:
			err = a.updateProfile(ctx, s, role)
		case 3:
			err = a.viewMenu(ctx)
		case 4:
			err = a.placeOrder(ctx, s)
		case 5:
			err = a.viewAllOrders(ctx, s, role)
		case 6:
			err = a.viewRecentOrders(ctx, s, role)
		case 7:
			err = a.viewOrderInfo(ctx, s, role)
		case 8:
			err = a.viewStores(ctx)
		case 9:
			err = a.updateOrderStatus(ctx, s)
		case 10:
			err = a.updateMenu(ctx, s)
		case 11:
			err = a.updateUser(ctx, s)
		case 20:
			a.lg.Info("user_logged_out", map[string]any{"login": s.Login})
			return nil
		default:
			fmt.Fprintln(a.out, "Unrecognized choice!")
		}
		if err := a.handle(err); err != nil {
			return err
		}
	}
}

func (a *App) printUserMenu(role domain.Role) {
	fmt.Fprintln(a.out, "MAIN MENU")
	fmt.Fprintln(a.out, "---------")
	fmt.Fprintln(a.out, "1. View Profile")
	fmt.Fprintln(a.out, "2. Update Profile")
	fmt.Fprintln(a.out, "3. View Menu")
	fmt.Fprintln(a.out, "4. Place Order")
	fmt.Fprintln(a.out, "5. View Full Order ID History")
	fmt.Fprintln(a.out, "6. View Past 5 Order IDs")
	fmt.Fprintln(a.out, "7. View Order Information")
	fmt.Fprintln(a.out, "8. View Stores")
	if role == domain.RoleDriver || role == domain.RoleManager {
		fmt.Fprintln(a.out, "9. Update Order Status")
	}
	if role == domain.RoleManager {
		fmt.Fprintln(a.out, "10. Update Menu")
		fmt.Fprintln(a.out, "11. Update User")
	}
	fmt.Fprintln(a.out, ".........................")
	fmt.Fprintln(a.out, "20. Log out")
}

func (a *App) viewProfile(ctx context.Context, s service.Session) error {
	u, err := a.accounts.Profile(ctx, s.Login)
	if err != nil {
		return err
	}
	a.printProfile(u)

	if u.Role != domain.RoleManager {
		return nil
	}
	// Managers may inspect any profile.
	for {
		target, err := a.p.ReadLine("Select the user whose information you want to see: ")
		if err != nil {
			return err
		}
		other, err := a.admin.InspectUser(ctx, s, target)
		if errors.Is(err, apperr.ErrNotFound) {
			fmt.Fprintln(a.out, "Non existent user")
			continue
		}
		if err != nil {
			return err
		}
		a.printProfile(other)
		return nil
	}
}

func (a *App) printProfile(u domain.User) {
	fmt.Fprintln(a.out, "---------")
	fmt.Fprintln(a.out, "INFORMATION")
	fmt.Fprintf(a.out, "User: %s\n", u.Login)
	fmt.Fprintf(a.out, "Password: %s\n", u.Password)
	fmt.Fprintf(a.out, "Favorite Item: %s\n", u.FavoriteItems)
	fmt.Fprintf(a.out, "Phone Number: %s\n", u.PhoneNum)
	if u.Role != domain.RoleCustomer {
		fmt.Fprintf(a.out, "Role: %s\n", u.Role)
	}
}

func (a *App) updateProfile(ctx context.Context, s service.Session, role domain.Role) error {
	if role == domain.RoleManager {
		return a.updateUser(ctx, s)
	}
	for {
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "What would you like to update?")
		fmt.Fprintln(a.out, "1. Add new favorite item")
		fmt.Fprintln(a.out, "2. Change phone number")
		fmt.Fprintln(a.out, "3. Change password")
		fmt.Fprintln(a.out, "4. Go back")
		choice, err := a.p.ReadInt("Please make your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			item, err := a.p.ReadLine("Insert new item name: ")
			if err != nil {
				return err
			}
			if err := a.accounts.UpdateFavoriteItems(ctx, s, item); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Your favorite item has been updated to %s\n", item)
		case 2:
			phone, err := a.readField("Insert new phone number: ", service.ValidatePhone)
			if err != nil {
				return err
			}
			if err := a.accounts.UpdatePhoneNum(ctx, s, phone); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Your phone number has been updated to %s\n", phone)
		case 3:
			password, err := a.readField("Insert new password: ", service.ValidatePassword)
			if err != nil {
				return err
			}
			if err := a.accounts.UpdatePassword(ctx, s, password); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Your password has been updated")
		case 4:
			return nil
		default:
			fmt.Fprintln(a.out, "Unrecognized choice!")
		}
	}
}

func (a *App) viewMenu(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "1. Search on the Menu")
		fmt.Fprintln(a.out, "2. Filter search based on a price")
		fmt.Fprintln(a.out, "3. Sort menu based on the price")
		fmt.Fprintln(a.out, "4. Go back")
		choice, err := a.p.ReadInt("Please make your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			if err := a.searchByCategory(ctx); err != nil {
				return err
			}
		case 2:
			if err := a.filterByPrice(ctx); err != nil {
				return err
			}
		case 3:
			if err := a.sortByPrice(ctx); err != nil {
				return err
			}
		case 4:
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid option, please choose again!")
		}
	}
}

func (a *App) searchByCategory(ctx context.Context) error {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "---------")
	fmt.Fprintln(a.out, "Choose among:")
	for _, c := range categories {
		fmt.Fprintln(a.out, c)
	}
	category, err := a.p.ReadLine("Please enter your choice: ")
	if err != nil {
		return err
	}
	items, err := a.catalog.ByCategory(ctx, category)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "---------")
	fmt.Fprintln(a.out, "Items available:")
	a.printItems(items)
	return nil
}

func (a *App) filterByPrice(ctx context.Context) error {
	raw, err := a.p.ReadLine("Input your limit price: ")
	if err != nil {
		return err
	}
	limit, err := service.ParsePrice(raw)
	if err != nil {
		return err
	}
	items, err := a.catalog.ByPriceCeiling(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "---------")
	fmt.Fprintln(a.out, "Items available within the selected price limit:")
	a.printItems(items)
	return nil
}

func (a *App) sortByPrice(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "1. Sort from highest to lowest")
		fmt.Fprintln(a.out, "2. Sort from lowest to highest")
		fmt.Fprintln(a.out, "3. Go back")
		choice, err := a.p.ReadInt("Please make your choice: ")
		if err != nil {
			return err
		}
		var direction, heading string
		switch choice {
		case 1:
			direction, heading = repository.SortDesc, "Items from highest to lowest price:"
		case 2:
			direction, heading = repository.SortAsc, "Items from lowest to highest price:"
		case 3:
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid input!")
			continue
		}
		items, err := a.catalog.Sorted(ctx, direction)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, heading)
		a.printItems(items)
	}
}

func (a *App) printItems(items []domain.MenuItem) {
	for _, it := range items {
		fmt.Fprintf(a.out, "%s - $%.2f\n", it.Name, it.Price)
	}
}

func (a *App) placeOrder(ctx context.Context, s service.Session) error {
	_, err := a.flow.Run(ctx, s, a.p, a.out)
	return err
}

func (a *App) historyTarget(ctx context.Context, s service.Session, role domain.Role) (string, error) {
	if role == domain.RoleCustomer {
		return s.Login, nil
	}
	return a.p.ReadLine("\tlogin name: ")
}

func (a *App) viewAllOrders(ctx context.Context, s service.Session, role domain.Role) error {
	target, err := a.historyTarget(ctx, s, role)
	if err != nil {
		return err
	}
	ids, err := a.orders.IDsByLogin(ctx, target)
	if err != nil {
		return err
	}
	a.printOrderIDs(ids)
	return nil
}

func (a *App) viewRecentOrders(ctx context.Context, s service.Session, role domain.Role) error {
	target, err := a.historyTarget(ctx, s, role)
	if err != nil {
		return err
	}
	ids, err := a.orders.RecentIDsByLogin(ctx, target, 5)
	if err != nil {
		return err
	}
	a.printOrderIDs(ids)
	return nil
}

func (a *App) printOrderIDs(ids []int64) {
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "No Orders")
		return
	}
	fmt.Fprintln(a.out, "orderid")
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	fmt.Fprintf(a.out, "Total orders: %d\n", len(ids))
}

func (a *App) viewOrderInfo(ctx context.Context, s service.Session, role domain.Role) error {
	id, err := a.p.ReadInt("\tID of order: ")
	if err != nil {
		return err
	}

	var order domain.Order
	if role == domain.RoleCustomer {
		// Customers may only see their own orders.
		order, err = a.orders.HeaderForLogin(ctx, int64(id), s.Login)
	} else {
		order, err = a.orders.Header(ctx, int64(id))
	}
	if errors.Is(err, apperr.ErrNotFound) {
		fmt.Fprintln(a.out, "No matching order")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Ordered at: %s\n", order.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Total price: %.2f\n", order.TotalPrice)
	fmt.Fprintf(a.out, "Status: %s\n", order.Status)

	lines, err := a.orders.Lines(ctx, order.ID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintf(a.out, "%s x%d\n", line.ItemName, line.Quantity)
	}
	fmt.Fprintf(a.out, "total items(s): %d\n", len(lines))
	return nil
}

func (a *App) viewStores(ctx context.Context) error {
	stores, err := a.stores.List(ctx)
	if err != nil {
		return err
	}
	for _, st := range stores {
		fmt.Fprintf(a.out, "%d | %s, %s, %s | review %s | open: %s\n",
			st.ID, st.Address, st.City, st.State, st.ReviewScore, st.IsOpen)
	}
	fmt.Fprintf(a.out, "Number of stores: %d\n", len(stores))
	return nil
}

func (a *App) updateOrderStatus(ctx context.Context, s service.Session) error {
	id, err := a.p.ReadInt("\tID of order: ")
	if err != nil {
		return err
	}
	status, err := a.p.ReadLine("New status: ")
	if err != nil {
		return err
	}
	if err := a.admin.UpdateOrderStatus(ctx, s, int64(id), status); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Order %d is now %s\n", id, status)
	return nil
}

func (a *App) updateMenu(ctx context.Context, s service.Session) error {
	for {
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "1. Rename item")
		fmt.Fprintln(a.out, "2. Update ingredients")
		fmt.Fprintln(a.out, "3. Update category")
		fmt.Fprintln(a.out, "4. Update price")
		fmt.Fprintln(a.out, "5. Update description")
		fmt.Fprintln(a.out, "6. Add item")
		fmt.Fprintln(a.out, "7. Go back")
		choice, err := a.p.ReadInt("Please make your choice: ")
		if err != nil {
			return err
		}
		if choice == 7 {
			return nil
		}
		if choice < 1 || choice > 6 {
			fmt.Fprintln(a.out, "Invalid option!")
			continue
		}

		if choice == 6 {
			if err := a.addItem(ctx, s); err != nil {
				return err
			}
			continue
		}

		name, err := a.p.ReadLine("What item do you want to update? ")
		if err != nil {
			return err
		}
		value, err := a.p.ReadLine("New value: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = a.admin.RenameItem(ctx, s, name, value)
		case 2:
			err = a.admin.UpdateIngredients(ctx, s, name, value)
		case 3:
			err = a.admin.UpdateCategory(ctx, s, name, value)
		case 4:
			err = a.admin.UpdatePrice(ctx, s, name, value)
		case 5:
			err = a.admin.UpdateDescription(ctx, s, name, value)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Item updated.")
	}
}

func (a *App) addItem(ctx context.Context, s service.Session) error {
	name, err := a.p.ReadLine("Choose an item name: ")
	if err != nil {
		return err
	}
	ingredients, err := a.p.ReadLine("Choose the ingredients: ")
	if err != nil {
		return err
	}
	category, err := a.p.ReadLine("Choose the type of item: ")
	if err != nil {
		return err
	}
	price, err := a.p.ReadLine("Choose the price: ")
	if err != nil {
		return err
	}
	description, err := a.p.ReadLine("Choose the description: ")
	if err != nil {
		return err
	}
	if err := a.admin.AddItem(ctx, s, name, ingredients, category, price, description); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Item %s added.\n", name)
	return nil
}

func (a *App) updateUser(ctx context.Context, s service.Session) error {
	target, err := a.p.ReadLine("Insert the user whose information you want to change: ")
	if err != nil {
		return err
	}
	for {
		fmt.Fprintln(a.out, "---------")
		fmt.Fprintln(a.out, "1. Edit login")
		fmt.Fprintln(a.out, "2. Edit role")
		fmt.Fprintln(a.out, "3. Go back")
		choice, err := a.p.ReadInt("Please make your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			newLogin, err := a.p.ReadLine("Insert new login: ")
			if err != nil {
				return err
			}
			if err := a.admin.UpdateUserLogin(ctx, s, target, newLogin); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Login updated.")
			return nil
		case 2:
			newRole, err := a.p.ReadLine("Insert new role: ")
			if err != nil {
				return err
			}
			if err := a.admin.UpdateUserRole(ctx, s, target, newRole); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Role updated.")
			return nil
		case 3:
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice")
		}
	}
}
