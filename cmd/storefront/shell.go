package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	authService "bazar/internal/auth/service"
	cartModels "bazar/internal/cart/models"
	cartService "bazar/internal/cart/service"
	catalogModels "bazar/internal/catalog/models"
	catalogService "bazar/internal/catalog/service"
	"bazar/internal/gateway"
	"bazar/internal/modal"
	"bazar/internal/storefront"
	id "bazar/pkg/domain"
	"bazar/pkg/requestcontext"
)

var errQuit = errors.New("quit")

const helpText = `Commands:
  login                 sign in through your browser
  logout                sign out
  whoami                show the signed-in shopper
  catalog               list products
  show <n>              show product n
  add [n] [qty]         add product n (or the one shown) to the cart
  cart                  show the cart
  remove <n>            remove cart line n
  discount <code>       apply a discount code
  clear                 empty the cart
  checkout              continue from the order summary to checkout
  pay                   get the payment link for your cart
  close                 close the open panel
  quit                  exit`

// shell is the line-oriented storefront UI.
type shell struct {
	shop    *storefront.Storefront
	auth    *authService.Manager
	cart    *cartService.Orchestrator
	catalog *catalogService.Service
	modals  *modal.Sequencer
	out     io.Writer
}

func newShell(a *app, out io.Writer) *shell {
	return &shell{shop: a.shop, auth: a.auth, cart: a.cart, catalog: a.catalog, modals: a.modals, out: out}
}

// Run reads commands until quit, EOF, or ctx is done.
func (s *shell) Run(ctx context.Context, in io.Reader) error {
	s.printf("Welcome to Bazar. Type 'help' for commands.\n")
	scanner := bufio.NewScanner(in)
	for {
		s.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		cmdCtx := requestcontext.WithRequestID(ctx, uuid.NewString())
		if err := s.Execute(cmdCtx, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			s.printf("error: %s\n", gateway.UserMessage(err))
		}
	}
}

// Execute runs one command line.
func (s *shell) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		s.printf("%s\n", helpText)
	case "quit", "exit":
		return errQuit
	case "login":
		if s.auth.IsAuthenticated(ctx) {
			s.printf("Already signed in.\n")
			return nil
		}
		return s.auth.Login(ctx, "")
	case "logout":
		if err := s.shop.SignOut(ctx); err != nil {
			return err
		}
		s.printf("Signed out.\n")
	case "whoami":
		s.whoami()
	case "catalog":
		return s.listCatalog(ctx)
	case "show":
		return s.show(args)
	case "add":
		return s.add(ctx, args)
	case "cart":
		if err := s.cart.FetchSummary(ctx); err != nil {
			return err
		}
		s.printCart()
	case "remove":
		return s.remove(ctx, args)
	case "discount":
		if len(args) == 0 {
			return errors.New("usage: discount <code>")
		}
		if err := s.cart.ApplyDiscountCode(ctx, strings.Join(args, " ")); err != nil {
			return err
		}
		s.printf("Discount applied.\n")
		s.printCart()
	case "clear":
		if err := s.cart.ClearCart(ctx); err != nil {
			return err
		}
		s.printf("Cart emptied.\n")
	case "checkout":
		if err := s.shop.ProceedToCheckout(); err != nil {
			return err
		}
		s.printf("Checkout: %s. Type 'pay' to get your payment link.\n", s.shop.CheckoutLabel())
	case "pay":
		if _, err := s.shop.PlaceOrder(ctx); err != nil {
			return err
		}
	case "close":
		s.modals.Close(ctx)
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return nil
}

func (s *shell) whoami() {
	user, ok := s.auth.User()
	if !ok {
		s.printf("Not signed in.\n")
		return
	}
	s.printf("%s <%s>\n", user.DisplayName, user.Email)
}

func (s *shell) listCatalog(ctx context.Context) error {
	products, err := s.catalog.Load(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		s.printf("The catalog is empty.\n")
		return nil
	}
	for i, p := range products {
		s.printf("%3d. %-32s %10s  %s\n", i+1, p.Details.Name, p.FormatPrice(), p.StockNote())
	}
	return nil
}

func (s *shell) show(args []string) error {
	p, err := s.productArg(args)
	if err != nil {
		return err
	}
	s.modals.SelectProduct(p)
	s.printProduct(p)
	return nil
}

func (s *shell) add(ctx context.Context, args []string) error {
	var (
		p   catalogModels.Product
		err error
	)
	quantity := 1
	switch {
	case len(args) == 0:
		st := s.modals.State()
		if st.Kind != modal.ProductDetail || st.Product == nil {
			return errors.New("usage: add <n> [qty], or 'show <n>' first")
		}
		p = *st.Product
	default:
		if p, err = s.productArg(args[:1]); err != nil {
			return err
		}
		if len(args) > 1 {
			if quantity, err = strconv.Atoi(args[1]); err != nil || quantity < 1 {
				return errors.New("quantity must be a positive number")
			}
		}
	}

	count, err := s.shop.AddToCart(ctx, p.ID(), quantity)
	if errors.Is(err, storefront.ErrSignInRequired) {
		s.printf("Please sign in first; the sign-in link is above. Add the item again once you are back.\n")
		return nil
	}
	if err != nil {
		return err
	}
	s.printf("Added %s. %d item(s) in your cart.\n", p.Details.Name, count)
	s.printCart()
	s.printf("Type 'checkout' to continue or 'close' to keep shopping.\n")
	return nil
}

func (s *shell) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove <n>")
	}
	n, err := strconv.Atoi(args[0])
	items := s.cart.Snapshot().Summary.Items
	if err != nil || n < 1 || n > len(items) {
		return errors.New("no cart line with that number, type 'cart' to list them")
	}
	if err := s.cart.RemoveItem(ctx, items[n-1].ProductID); err != nil {
		return err
	}
	s.printCart()
	return nil
}

func (s *shell) productArg(args []string) (catalogModels.Product, error) {
	if len(args) == 0 {
		return catalogModels.Product{}, errors.New("which product? give its number from 'catalog'")
	}
	if n, err := strconv.Atoi(args[0]); err == nil {
		return s.catalog.At(n)
	}
	pid, err := id.ParseProductID(args[0])
	if err != nil {
		return catalogModels.Product{}, err
	}
	return s.catalog.Find(pid)
}

func (s *shell) printProduct(p catalogModels.Product) {
	s.printf("%s  %s\n", p.Details.Name, p.FormatPrice())
	if p.Details.Description != "" {
		s.printf("  %s\n", p.Details.Description)
	}
	if note := p.StockNote(); note != "" {
		s.printf("  %s\n", note)
	}
	s.printf("  %d picture(s). Type 'add' to put it in your cart.\n", len(p.Images))
}

func (s *shell) printCart() {
	st := s.cart.Snapshot()
	if st.Error != "" {
		s.printf("Cart problem: %s\n", st.Error)
	}
	if len(st.Summary.Items) == 0 {
		s.printf("Your cart is empty.\n")
		return
	}
	for i, item := range st.Summary.Items {
		line := fmt.Sprintf("%3d. %-28s x%-3d %10s", i+1, item.ProductName, item.Quantity, cartModels.FormatPrice(item.UnitPrice))
		if item.DiscountPerUnit > 0 {
			line += fmt.Sprintf("  (-%s each)", cartModels.FormatPrice(item.DiscountPerUnit))
		}
		s.printf("%s\n", line)
	}
	if label := st.CheckoutLabel(); label != "" {
		s.printf("%s\n", label)
	}
}

func (s *shell) prompt() {
	label := "anonymous"
	if user, ok := s.auth.User(); ok {
		label = user.DisplayName
	}
	if k := s.modals.State().Kind; k != modal.None {
		label += " [" + k.String() + "]"
	}
	s.printf("%s> ", label)
}

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
