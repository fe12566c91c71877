package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/feinledger/fein/pkg/client"
	"github.com/feinledger/fein/pkg/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

var (
	title   = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	muted   = color.New(color.Faint)
)

// errQuit ends the main menu.
var errQuit = errors.New("quit")

type console struct {
	ctx          context.Context
	api          *client.Client
	in           *bufio.Reader
	out          io.Writer
	readPassword func() (string, error)
}

func main() {
	_, _ = config.LoadEnvFile(".env")
	api, err := client.New(nil, config.GetEnv("FEIN_API_URL", client.DefaultBaseURL))
	if err != nil {
		failure.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	c := &console{
		ctx: context.Background(),
		api: api,
		in:  bufio.NewReader(os.Stdin),
		out: color.Output,
	}
	c.readPassword = func() (string, error) {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return c.line()
		}
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(c.out)
		return string(pw), err
	}
	if err := c.run(); err != nil {
		failure.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *console) run() error {
	for {
		sess, err := c.mainMenu()
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if sess == nil {
			continue
		}
		if sess.Admin {
			err = c.adminMenu(sess)
		} else {
			err = c.userMenu(sess)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *console) line() (string, error) {
	s, err := c.in.ReadString('\n')
	if err != nil && (s == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (c *console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label+": ")
	return c.line()
}

func (c *console) password() (string, error) {
	fmt.Fprint(c.out, "Password: ")
	return c.readPassword()
}

func (c *console) choose(name string, options []string) (string, error) {
	fmt.Fprintln(c.out)
	title.Fprintln(c.out, name)
	for i, o := range options {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, o)
	}
	return c.prompt("Choose an option")
}

func (c *console) report(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		failure.Fprintf(c.out, "Error: %s\n", apiErr.Error())
		return
	}
	failure.Fprintf(c.out, "Error: %v\n", err)
}

func (c *console) mainMenu() (*client.Session, error) {
	choice, err := c.choose("Fein", []string{"Register", "Login", "Exit"})
	if err != nil {
		return nil, err
	}
	switch choice {
	case "1":
		name, err := c.prompt("Name")
		if err != nil {
			return nil, err
		}
		email, err := c.prompt("Email")
		if err != nil {
			return nil, err
		}
		pw, err := c.password()
		if err != nil {
			return nil, err
		}
		sess, err := c.api.Register(c.ctx, name, email, pw)
		if err != nil {
			c.report(err)
			return nil, nil
		}
		success.Fprintln(c.out, "Registered and logged in as", sess.Email)
		return sess, nil
	case "2":
		email, err := c.prompt("Email")
		if err != nil {
			return nil, err
		}
		pw, err := c.password()
		if err != nil {
			return nil, err
		}
		sess, err := c.api.Login(c.ctx, email, pw)
		if err != nil {
			c.report(err)
			return nil, nil
		}
		success.Fprintln(c.out, "Logged in as", sess.Email)
		return sess, nil
	case "3":
		return nil, errQuit
	default:
		failure.Fprintln(c.out, "Invalid option")
		return nil, nil
	}
}

func (c *console) userMenu(sess *client.Session) error {
	actions := []struct {
		label string
		run   func(*client.Session) error
	}{
		{"Create account", c.createAccount},
		{"View accounts", c.viewAccounts},
		{"Create transaction", c.createTransaction},
		{"View transactions", c.viewTransactions},
		{"Update transaction", c.updateTransaction},
		{"Delete transaction", c.deleteTransaction},
		{"View breakdowns", c.viewBreakdowns},
		{"Add breakdown", c.addBreakdown},
		{"Create tag", c.createTag},
		{"View tags", c.viewTags},
		{"Assign tag", c.assignTag},
		{"View tags of a transaction", c.viewTransactionTags},
		{"Reports", c.viewReports},
		{"Exceeding transactions", c.viewExceeding},
	}
	labels := make([]string, 0, len(actions)+1)
	for _, a := range actions {
		labels = append(labels, a.label)
	}
	labels = append(labels, "Logout")
	return c.loop("User menu", labels, func(i int) error { return actions[i].run(sess) })
}

func (c *console) adminMenu(sess *client.Session) error {
	actions := []func(*client.Session) error{
		c.viewAllAccounts,
		c.viewTransactions,
		c.viewReports,
	}
	labels := []string{"View all accounts", "View all transactions", "Reports", "Logout"}
	return c.loop("Admin menu", labels, func(i int) error { return actions[i](sess) })
}

// loop runs a menu whose last entry is Logout.
func (c *console) loop(name string, labels []string, run func(int) error) error {
	for {
		choice, err := c.choose(name, labels)
		if err != nil {
			return err
		}
		var n int
		if _, err := fmt.Sscanf(choice, "%d", &n); err != nil || n < 1 || n > len(labels) {
			failure.Fprintln(c.out, "Invalid option")
			continue
		}
		if n == len(labels) {
			muted.Fprintln(c.out, "Logged out")
			return nil
		}
		if err := run(n - 1); err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			c.report(err)
		}
	}
}

func (c *console) promptDecimal(label string, def decimal.Decimal) (decimal.Decimal, error) {
	s, err := c.prompt(label)
	if err != nil || s == "" {
		return def, err
	}
	return decimal.NewFromString(s)
}

func (c *console) promptID(label string) (uuid.UUID, error) {
	s, err := c.prompt(label)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(s)
}

func (c *console) promptDate(label string) (*time.Time, error) {
	s, err := c.prompt(label + " (YYYY-MM-DD or RFC 3339, blank for none)")
	if err != nil || s == "" {
		return nil, err
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if d, err := time.Parse(layout, s); err == nil {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

func (c *console) createAccount(sess *client.Session) error {
	name, err := c.prompt("Account name")
	if err != nil {
		return err
	}
	balance, err := c.promptDecimal("Balance", decimal.Zero)
	if err != nil {
		return err
	}
	a, err := c.api.CreateAccount(c.ctx, sess, name, balance)
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "Account %s created (%s)\n", a.Name, a.ID)
	return nil
}

func (c *console) viewAccounts(sess *client.Session) error {
	accounts, err := c.api.ListAccounts(c.ctx, sess)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		muted.Fprintln(c.out, "No accounts")
	}
	for _, a := range accounts {
		fmt.Fprintf(c.out, "%s  %-20s %12s\n", a.ID, a.Name, a.Balance.StringFixed(2))
	}
	return nil
}

func (c *console) viewAllAccounts(sess *client.Session) error {
	accounts, err := c.api.ListAllAccounts(c.ctx, sess)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		fmt.Fprintf(c.out, "%s  owner %s  %-20s %12s\n", a.ID, a.UserID, a.Name, a.Balance.StringFixed(2))
	}
	return nil
}

func (c *console) createTransaction(sess *client.Session) error {
	var in client.NewTransaction
	var err error
	if in.Name, err = c.prompt("Transaction name"); err != nil {
		return err
	}
	if in.Amount, err = c.promptDecimal("Amount", decimal.Zero); err != nil {
		return err
	}
	if in.Date, err = c.promptDate("Date"); err != nil {
		return err
	}
	if in.AccountID, err = c.promptID("Target account ID"); err != nil {
		return err
	}
	tag, err := c.prompt("Tag ID (blank for none)")
	if err != nil {
		return err
	}
	if tag != "" {
		id, err := uuid.Parse(tag)
		if err != nil {
			return err
		}
		in.TagID = &id
	}
	for {
		more, err := c.prompt("Add a breakdown? (y/N)")
		if err != nil {
			return err
		}
		if !strings.EqualFold(more, "y") {
			break
		}
		b, err := c.breakdown()
		if err != nil {
			return err
		}
		in.Breakdowns = append(in.Breakdowns, b)
	}
	t, err := c.api.CreateTransaction(c.ctx, sess, in)
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "Transaction %s created, net amount %s\n", t.ID, t.NetAmount.StringFixed(2))
	return nil
}

func (c *console) breakdown() (client.Breakdown, error) {
	var b client.Breakdown
	var err error
	if b.AccountID, err = c.promptID("Breakdown account ID"); err != nil {
		return b, err
	}
	if b.EarnedAmount, err = c.promptDecimal("Earned amount", decimal.Zero); err != nil {
		return b, err
	}
	b.SpentAmount, err = c.promptDecimal("Spent amount", decimal.Zero)
	return b, err
}

func (c *console) viewTransactions(sess *client.Session) error {
	list, err := c.api.ListTransactions(c.ctx, sess)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		muted.Fprintln(c.out, "No transactions")
	}
	for _, t := range list {
		fmt.Fprintf(c.out, "%s  %s  %-20s amount %10s  net %10s\n",
			t.ID, t.Date.Format(time.DateOnly), t.Name, t.Amount.StringFixed(2), t.NetAmount.StringFixed(2))
	}
	return nil
}

func (c *console) updateTransaction(sess *client.Session) error {
	id, err := c.promptID("Transaction ID")
	if err != nil {
		return err
	}
	var changes client.TransactionChanges
	name, err := c.prompt("New name (blank to keep)")
	if err != nil {
		return err
	}
	if name != "" {
		changes.Name = &name
	}
	amount, err := c.prompt("New amount (blank to keep)")
	if err != nil {
		return err
	}
	if amount != "" {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return err
		}
		changes.Amount = &d
	}
	if changes.Date, err = c.promptDate("New date"); err != nil {
		return err
	}
	t, err := c.api.UpdateTransaction(c.ctx, sess, id, changes)
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "Transaction %s updated\n", t.ID)
	return nil
}

func (c *console) deleteTransaction(sess *client.Session) error {
	id, err := c.promptID("Transaction ID")
	if err != nil {
		return err
	}
	if err := c.api.DeleteTransaction(c.ctx, sess, id); err != nil {
		return err
	}
	success.Fprintln(c.out, "Transaction deleted successfully")
	return nil
}

func (c *console) viewBreakdowns(sess *client.Session) error {
	id, err := c.promptID("Transaction ID")
	if err != nil {
		return err
	}
	list, err := c.api.ListBreakdowns(c.ctx, sess, id)
	if err != nil {
		return err
	}
	for _, b := range list {
		fmt.Fprintf(c.out, "account %s  earned %10s  spent %10s\n",
			b.AccountID, b.EarnedAmount.StringFixed(2), b.SpentAmount.StringFixed(2))
	}
	return nil
}

func (c *console) addBreakdown(sess *client.Session) error {
	id, err := c.promptID("Transaction ID")
	if err != nil {
		return err
	}
	b, err := c.breakdown()
	if err != nil {
		return err
	}
	t, err := c.api.AddBreakdown(c.ctx, sess, id, b)
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "Breakdown added, net amount %s\n", t.NetAmount.StringFixed(2))
	return nil
}

func (c *console) createTag(sess *client.Session) error {
	name, err := c.prompt("Tag name")
	if err != nil {
		return err
	}
	t, err := c.api.CreateTag(c.ctx, sess, name)
	if err != nil {
		return err
	}
	success.Fprintf(c.out, "Tag %s created (%s)\n", t.Name, t.ID)
	return nil
}

func (c *console) viewTags(sess *client.Session) error {
	tags, err := c.api.ListTags(c.ctx, sess)
	if err != nil {
		return err
	}
	for _, t := range tags {
		fmt.Fprintf(c.out, "%s  %s\n", t.ID, t.Name)
	}
	return nil
}

func (c *console) assignTag(sess *client.Session) error {
	txID, err := c.promptID("Transaction ID")
	if err != nil {
		return err
	}
	tagID, err := c.promptID("Tag ID")
	if err != nil {
		return err
	}
	if err := c.api.AssignTag(c.ctx, sess, txID, tagID); err != nil {
		return err
	}
	success.Fprintln(c.out, "Tag assigned to transaction successfully")
	return nil
}

func (c *console) viewTransactionTags(sess *client.Session) error {
	id, err := c.promptID("Transaction ID")
	if err != nil {
		return err
	}
	tags, err := c.api.TagsForTransaction(c.ctx, sess, id)
	if err != nil {
		return err
	}
	for _, t := range tags {
		fmt.Fprintf(c.out, "%s  %s\n", t.ID, t.Name)
	}
	return nil
}

func (c *console) viewReports(sess *client.Session) error {
	start, err := c.prompt("Start date YYYY-MM-DD (blank for none)")
	if err != nil {
		return err
	}
	var end string
	if start != "" {
		if end, err = c.prompt("End date YYYY-MM-DD"); err != nil {
			return err
		}
	}
	summary, err := c.api.Summary(c.ctx, sess, start, end)
	if err != nil {
		return err
	}
	title.Fprintln(c.out, "Total spending")
	fmt.Fprintf(c.out, "  %s\n", summary.TotalSpending.StringFixed(2))
	title.Fprintln(c.out, "Spending by category")
	for _, row := range summary.SpendingByCategory {
		fmt.Fprintf(c.out, "  %-20s %12s\n", row.Category, row.Total.StringFixed(2))
	}
	if r := summary.SpendingByRange; r != nil {
		title.Fprintf(c.out, "Spending %s to %s\n", r.StartDate, r.EndDate)
		fmt.Fprintf(c.out, "  %s\n", r.Total.StringFixed(2))
	}
	return nil
}

func (c *console) viewExceeding(sess *client.Session) error {
	name, err := c.prompt("Account name (blank for all)")
	if err != nil {
		return err
	}
	rows, err := c.api.Exceeding(c.ctx, sess, name)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		muted.Fprintln(c.out, "No exceeding transactions")
	}
	for _, r := range rows {
		fmt.Fprintf(c.out, "%s  %-12s %-20s spent %10s  balance before %10s\n",
			r.Date.Format(time.DateOnly), r.AccountName, r.TransactionName,
			r.SpentAmount.StringFixed(2), r.RunningBalance.StringFixed(2))
	}
	return nil
}
