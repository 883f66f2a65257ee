package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tinythreads/storefront/internal/api"
	"github.com/tinythreads/storefront/internal/guard"
	"github.com/tinythreads/storefront/internal/session"
)

// app wires the API client, the session store and the guard behind the
// CLI commands. Each command maps onto a route of the original
// storefront and passes through the guard before anything runs, so the
// CLI behaves like the navigable app: a logged-out "orders" lands on the
// login page, a non-admin "admin-orders" lands back home.
type app struct {
	client   *api.Client
	store    session.Store
	provider *session.MemoryStore
	guard    *guard.Guard
	logger   zerolog.Logger
	out      io.Writer
}

const usage = `usage: storefront <command> [args]

commands:
  register <username> <email> <password>   create an account and log in
  login <username> <password>              log in
  logout                                   discard the stored session
  whoami                                   show the user the stored token identifies
  orders                                   list your orders
  order <id>                               show one order
  buy <productID> <cardNumber>             check out a product
  admin-orders                             list all orders (admin only)
`

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("missing command")
	}

	a.hydrate(ctx)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "orders":
		return a.orders(ctx)
	case "order":
		return a.order(ctx, rest)
	case "buy":
		return a.buy(ctx, rest)
	case "admin-orders":
		return a.adminOrders(ctx)
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// hydrate reads the persisted session into the in-memory provider the
// guard consults. A missing session just leaves the provider empty.
func (a *app) hydrate(ctx context.Context) {
	s, err := a.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			a.logger.Warn().Err(err).Msg("failed to load stored session")
		}
		return
	}
	if err := a.provider.Save(ctx, s); err != nil {
		a.logger.Warn().Err(err).Msg("failed to hydrate session")
	}
}

// navigate passes a route through the guard. A denied navigation prints
// where the user was sent and stops the command.
func (a *app) navigate(path string) bool {
	d := a.guard.Evaluate(path)
	if d.Allow {
		return true
	}
	if d.RedirectTo == "/login" {
		fmt.Fprintf(a.out, "redirected to %s: please log in first\n", d.RedirectTo)
	} else {
		fmt.Fprintf(a.out, "redirected to %s: access denied\n", d.RedirectTo)
	}
	return false
}

func (a *app) token() string {
	cur, ok := a.provider.Current()
	if !ok {
		return ""
	}
	return cur.Token
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <username> <password>")
	}

	sess, err := a.client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	fmt.Fprintf(a.out, "logged in as %s\n", sess.Username)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: register <username> <email> <password>")
	}

	sess, err := a.client.Register(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	fmt.Fprintf(a.out, "registered and logged in as %s\n", sess.Username)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	token := a.token()
	if token == "" {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}

	user, err := a.client.CurrentUser(ctx, token)
	if err != nil {
		return err
	}
	role := "customer"
	if user.IsStaff {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s <%s> (%s)\n", user.Username, user.Email, role)
	return nil
}

func (a *app) orders(ctx context.Context) error {
	if !a.navigate("/orders") {
		return nil
	}

	orders, err := a.client.Orders(ctx, a.token())
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "no orders yet")
		return nil
	}
	for _, o := range orders {
		a.printOrder(o)
	}
	return nil
}

func (a *app) order(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: order <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	if !a.navigate("/order/" + args[0]) {
		return nil
	}

	o, err := a.client.Order(ctx, a.token(), id)
	if err != nil {
		return err
	}
	a.printOrder(o)
	return nil
}

func (a *app) buy(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: buy <productID> <cardNumber>")
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	if !a.navigate("/checkout/" + args[0]) {
		return nil
	}

	o, err := a.client.CreateOrder(ctx, a.token(), productID, args[1])
	if err != nil {
		var orderErr *api.OrderError
		if errors.As(err, &orderErr) && orderErr.OrderRecorded {
			fmt.Fprintf(a.out, "%s: order #%d was recorded with failed status\n",
				orderErr.Message, orderErr.CreatedOrderID)
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "order #%d placed\n", o.ID)
	a.printOrder(o)
	return nil
}

func (a *app) adminOrders(ctx context.Context) error {
	if !a.navigate("/admin-panel") {
		return nil
	}

	orders, err := a.client.AdminOrders(ctx, a.token())
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "no orders")
		return nil
	}
	for _, o := range orders {
		fmt.Fprintf(a.out, "#%d  %-20s %8s  %-7s  %s <%s>\n",
			o.ID, o.ProductName, o.ProductPrice, o.Status, o.OwnerUsername, o.OwnerEmail)
	}
	return nil
}

func (a *app) printOrder(o api.Order) {
	fmt.Fprintf(a.out, "#%d  %-20s %8s  %-7s  card ****%s  %s\n",
		o.ID, o.ProductName, o.ProductPrice, o.Status, o.CardLastFour,
		o.CreatedAt.Local().Format("2006-01-02 15:04"))
}
