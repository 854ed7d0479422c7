package main

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"kugihands/internal/catalog"
	"kugihands/internal/checkout"
	"kugihands/internal/models"
	"kugihands/internal/store"
)

const replHelp = `Commands:
  products              list the catalog
  add <id> [qty]        add a product to the cart (append "pickup" for pick-up)
  add crochet-custom <price> [qty]   add the custom item with a concrete price
  cart                  show cart contents and totals
  qty <id> <n>          change a line's quantity
  rm <id>               remove a line
  fav <id> / unfav <id> toggle favorites
  favs                  list favorites
  register / login / logout / profile
  checkout              start the checkout flow
  orders                list placed orders
  quit`

func (app *application) repl(scanner *bufio.Scanner) {
	fmt.Println("Welcome to Kugihands! Type 'help' for commands.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			fmt.Println(replHelp)
		case "products":
			app.showProducts()
		case "add":
			app.addToCart(args)
		case "cart":
			app.showCart()
		case "qty":
			app.updateQuantity(args)
		case "rm":
			app.removeFromCart(args)
		case "fav", "unfav":
			app.toggleFavorite(cmd, args)
		case "favs":
			app.showFavorites()
		case "register":
			app.register(scanner)
		case "login":
			app.login(scanner)
		case "logout":
			app.logout()
		case "profile":
			app.updateProfile(scanner)
		case "checkout":
			app.runCheckout(scanner)
		case "orders":
			app.showOrders()
		case "quit", "exit":
			return
		default:
			fmt.Printf("Unknown command %q. Type 'help' for commands.\n", cmd)
		}
	}
}

func (app *application) showProducts() {
	for _, p := range app.catalog {
		badge := ""
		if p.Badge != "" {
			badge = " [" + p.Badge + "]"
		}
		heart := ""
		if app.favorites.IsFavorite(p.ID) {
			heart = " ♥"
		}
		fmt.Printf("%-16s %s (%s) - %s%s%s\n", p.ID, p.Name, p.Set, p.Price, badge, heart)
	}
}

func (app *application) addToCart(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: add <id> [qty]")
		return
	}
	product, ok := catalog.Find(app.catalog, args[0])
	if !ok {
		fmt.Printf("No product %q.\n", args[0])
		return
	}

	rest := args[1:]
	line := product.CartLine(1, models.OptionDelivery)
	if product.CustomPrice {
		if len(rest) == 0 {
			fmt.Println("Please enter the custom price: add crochet-custom <price> [qty]")
			return
		}
		price, err := strconv.ParseFloat(rest[0], 64)
		if err != nil || price <= 0 {
			fmt.Println("Please enter a valid price")
			return
		}
		line.Price = models.NewPrice(price)
		rest = rest[1:]
	}
	for _, arg := range rest {
		if qty, err := strconv.Atoi(arg); err == nil {
			line.Quantity = qty
		} else if arg == "pickup" {
			line.DeliveryOption = models.OptionPickup
		}
	}

	app.cart.AddItem(line)
	fmt.Printf("Added %s (%s) x%d to cart. Cart has %d item(s).\n",
		line.Name, line.Set, line.Quantity, app.cart.TotalItems())
}

func (app *application) showCart() {
	lines := app.cart.Lines()
	if len(lines) == 0 {
		fmt.Println("Your cart is empty!")
		return
	}
	for _, line := range lines {
		fmt.Printf("%-16s %s (%s) x%d - %s [%s]\n",
			line.ID, line.Name, line.Set, line.Quantity, line.Price, line.DeliveryOption)
	}
	fmt.Printf("Items: %d  Subtotal: ₱%s\n", app.cart.TotalItems(), app.cart.TotalPrice().StringFixed(2))
}

func (app *application) updateQuantity(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: qty <id> <n>")
		return
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("Usage: qty <id> <n>")
		return
	}
	app.cart.UpdateQuantity(args[0], qty)
	app.showCart()
}

func (app *application) removeFromCart(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: rm <id>")
		return
	}
	app.cart.RemoveItem(args[0])
	fmt.Printf("Cart has %d item(s).\n", app.cart.TotalItems())
}

func (app *application) toggleFavorite(cmd string, args []string) {
	if len(args) != 1 {
		fmt.Printf("Usage: %s <id>\n", cmd)
		return
	}
	if cmd == "unfav" {
		if err := app.favorites.Remove(args[0]); err != nil {
			app.errorLog.Println(err)
		}
		fmt.Printf("Favorites: %d\n", app.favorites.Count())
		return
	}
	product, ok := catalog.Find(app.catalog, args[0])
	if !ok {
		fmt.Printf("No product %q.\n", args[0])
		return
	}
	err := app.favorites.Add(product.FavoriteEntry())
	if errors.Is(err, store.ErrNotAuthenticated) {
		fmt.Println("Please login to add items to favorites")
		return
	}
	if err != nil {
		app.errorLog.Println(err)
		return
	}
	fmt.Printf("Favorites: %d\n", app.favorites.Count())
}

func (app *application) showFavorites() {
	items := app.favorites.Items()
	if len(items) == 0 {
		fmt.Println("No favorites yet.")
		return
	}
	for _, item := range items {
		fmt.Printf("%-16s %s (%s) - %s\n", item.ID, item.Name, item.Set, item.Price)
	}
}

func (app *application) register(scanner *bufio.Scanner) {
	input := store.Registration{
		Email:     prompt(scanner, "Email"),
		Password:  prompt(scanner, "Password"),
		FirstName: prompt(scanner, "First name"),
		LastName:  prompt(scanner, "Last name"),
		Phone:     prompt(scanner, "Phone"),
		Address:   prompt(scanner, "Address"),
	}
	identity, err := app.auth.Register(input)
	if err != nil {
		printAuthError(err)
		return
	}
	fmt.Printf("Registration successful! Logged in as %s.\n", identity.Email)
}

func (app *application) login(scanner *bufio.Scanner) {
	email := prompt(scanner, "Email")
	password := prompt(scanner, "Password")
	identity, err := app.auth.Login(email, password)
	if err != nil {
		printAuthError(err)
		return
	}
	fmt.Printf("Login successful! Welcome back, %s.\n", identity.FirstName)
}

func (app *application) logout() {
	if err := app.auth.Logout(); err != nil {
		app.errorLog.Println(err)
		return
	}
	fmt.Println("Logged out.")
}

func (app *application) updateProfile(scanner *bufio.Scanner) {
	identity := app.auth.Current()
	if identity == nil {
		fmt.Println("Please login first.")
		return
	}
	fmt.Println("Leave a field blank to keep its current value.")
	patch := store.ProfilePatch{
		FirstName: promptDefault(scanner, "First name", identity.FirstName),
		LastName:  promptDefault(scanner, "Last name", identity.LastName),
		Phone:     promptDefault(scanner, "Phone", identity.Phone),
		Address:   promptDefault(scanner, "Address", identity.Address),
	}
	if _, err := app.auth.UpdateProfile(patch); err != nil {
		printAuthError(err)
		return
	}
	fmt.Println("Profile updated successfully!")
}

func (app *application) runCheckout(scanner *bufio.Scanner) {
	if app.cart.IsEmpty() {
		fmt.Println("Your cart is empty!")
		return
	}
	if !app.auth.IsAuthenticated() {
		fmt.Println("Please login to proceed with checkout")
		return
	}

	co := app.checkout
	co.Open()
	for {
		switch co.Step() {
		case checkout.StepPersonalInfo:
			fmt.Println("-- Step 1: Personal Information --")
			co.Form.FirstName = promptDefault(scanner, "First name", co.Form.FirstName)
			co.Form.LastName = promptDefault(scanner, "Last name", co.Form.LastName)
			co.Form.Email = promptDefault(scanner, "Email", co.Form.Email)
			co.Form.Phone = promptDefault(scanner, "Phone", co.Form.Phone)
			if !co.Next() {
				printFieldErrors(co.Errors())
			}
		case checkout.StepDeliveryAndPayment:
			fmt.Println("-- Step 2: Delivery & Payment --")
			co.Form.Address = promptDefault(scanner, "Delivery address", co.Form.Address)
			co.Form.DeliveryDate = promptDefault(scanner, "Delivery date (YYYY-MM-DD)", co.Form.DeliveryDate)
			co.Form.DeliveryTime = promptDefault(scanner, "Preferred time (morning/afternoon/evening)", co.Form.DeliveryTime)
			co.Form.PaymentMethod = promptDefault(scanner, "Payment method (cod/gcash)", co.Form.PaymentMethod)
			co.Form.SpecialInstructions = promptDefault(scanner, "Special instructions", co.Form.SpecialInstructions)
			if !co.Next() {
				printFieldErrors(co.Errors())
			}
		case checkout.StepReview:
			fmt.Println("-- Step 3: Review Your Order --")
			app.showCart()
			fmt.Printf("Deliver to: %s %s, %s, %s on %s (%s), pay by %s\n",
				co.Form.FirstName, co.Form.LastName, co.Form.Address, co.Form.City,
				co.Form.DeliveryDate, co.Form.DeliveryTime, co.Form.PaymentMethod)
			if prompt(scanner, "Place order? (y/n)") != "y" {
				co.Close()
				fmt.Println("Checkout cancelled.")
				return
			}
			order, err := co.Submit()
			if err != nil {
				printFieldErrors(co.Errors())
				return
			}
			fmt.Println("Order Placed Successfully!")
			fmt.Println(checkout.Summary(order))
			fmt.Println("We'll contact you soon to confirm your order!")
			return
		}
	}
}

func (app *application) showOrders() {
	orders := app.orders.List()
	if identity := app.auth.Current(); identity != nil {
		filtered := orders[:0:0]
		for _, o := range orders {
			if o.UserID == identity.ID {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return
	}
	for _, o := range orders {
		fmt.Printf("%s  %s  ₱%.2f  %s\n", o.ID, o.CreatedAt.Format("2006-01-02"), o.Total, o.Status)
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func promptDefault(scanner *bufio.Scanner, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !scanner.Scan() {
		return current
	}
	if text := strings.TrimSpace(scanner.Text()); text != "" {
		return text
	}
	return current
}

func printAuthError(err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		printFieldErrors(verr.Fields)
		return
	}
	fmt.Println(err)
}

func printFieldErrors(fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Println("  ✗ " + fields[k])
	}
}
