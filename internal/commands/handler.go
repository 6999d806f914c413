// Package commands implements the phonebook command surface: a dispatch
// table of text commands, each returning a human-readable result string.
// The REPL and the one-shot CLI subcommands both run through Handler.
package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/phonebook/internal/search"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Result messages.
const (
	MsgGreeting       = "How can I help you?"
	MsgGoodbye        = "Good bye!"
	MsgUnknownCommand = "Unknown command. Type 'hello' for available commands."
	MsgNotFound       = "Contact not found"
	MsgEmptyBook      = "The address book is empty"
	MsgNoMatches      = "No contacts found"
)

// Command errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
)

// helpText lists every command; built in init from commandTable.
var helpText string

func init() {
	lines := []string{"Available commands:"}
	for _, c := range commandTable {
		lines = append(lines, "  "+c.usage)
	}
	helpText = strings.Join(lines, "\n")
}

// Result is the outcome of one command.
type Result struct {
	Output  string // printed verbatim by the caller
	Changed bool   // the book was modified
	Exit    bool   // the session should end
	Err     error  // set when the command failed; Output holds the message
}

// Options configures a Handler. Zero values select the memory search
// backend, a no-op logger and the system clock.
type Options struct {
	SearchBackend string
	Logger        *zap.Logger
	Now           func() time.Time
}

// Handler runs commands against one AddressBook. The caller owns the book
// and is responsible for saving it.
type Handler struct {
	book          *types.AddressBook
	searchBackend string
	logger        *zap.Logger
	now           func() time.Time
}

// New returns a Handler over book.
func New(book *types.AddressBook, opts Options) *Handler {
	h := &Handler{
		book:          book,
		searchBackend: opts.SearchBackend,
		logger:        opts.Logger,
		now:           opts.Now,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Book returns the book the handler operates on.
func (h *Handler) Book() *types.AddressBook {
	return h.book
}

// Execute parses one input line and runs the matching command.
func (h *Handler) Execute(line string) Result {
	if strings.TrimSpace(line) == "" {
		return Result{}
	}
	c, name, args := parse(line)
	if c == nil {
		h.logger.Debug("unknown command", zap.String("input", line))
		return Result{Output: MsgUnknownCommand, Err: ErrUnknownCommand}
	}
	return h.dispatch(c, name, args)
}

// Run executes the named command with pre-split arguments.
func (h *Handler) Run(name string, args []string) Result {
	c := lookup(name)
	if c == nil {
		return Result{Output: MsgUnknownCommand, Err: ErrUnknownCommand}
	}
	return h.dispatch(c, name, args)
}

func (h *Handler) dispatch(c *command, name string, args []string) Result {
	h.logger.Debug("dispatching command", zap.String("command", name), zap.Int("args", len(args)))

	res, err := c.run(h, args)
	if err != nil {
		h.logger.Debug("command failed", zap.String("command", name), zap.Error(err))
		return Result{Output: h.message(c, err), Err: err}
	}
	res.Exit = c.exit
	return res
}

// message converts a command error into the text shown to the user.
func (h *Handler) message(c *command, err error) string {
	var fe *types.FormatError
	switch {
	case errors.Is(err, errUsage):
		return "Usage: " + c.usage
	case errors.As(err, &fe):
		return formatErrorMessage(fe)
	case errors.Is(err, types.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, types.ErrInvalidName):
		return "Contact name must not be empty"
	case errors.Is(err, search.ErrUnknownField):
		return "Usage: " + c.usage
	default:
		h.logger.Error("command error", zap.Error(err))
		return "Error: " + err.Error()
	}
}

func formatErrorMessage(fe *types.FormatError) string {
	switch fe.Field {
	case types.FieldPhone:
		return fmt.Sprintf("Invalid phone format %q. Please use only '0123456789'.", fe.Value)
	case types.FieldEmail:
		return fmt.Sprintf("Invalid email format %q. Please use '*@*.*'.", fe.Value)
	case types.FieldBirthday:
		return fmt.Sprintf("Invalid birthday format %q. Please use 'DD-MM-YYYY'.", fe.Value)
	default:
		return fe.Error()
	}
}

func (h *Handler) hello(args []string) (Result, error) {
	return output(MsgGreeting + "\n" + helpText), nil
}

func (h *Handler) exit(args []string) (Result, error) {
	return output(MsgGoodbye), nil
}

// add creates a contact, or adds the given values to an existing one. All
// values are parsed before anything is changed.
func (h *Handler) add(args []string) (Result, error) {
	if len(args) < 1 || len(args) > 4 {
		return Result{}, errUsage
	}
	name := args[0]
	phone, email, birthday := argAt(args, 1), argAt(args, 2), argAt(args, 3)

	r, ok := h.book.FindRecord(name)
	if !ok {
		rec, err := types.NewRecord(name, []string{phone}, []string{email}, birthday)
		if err != nil {
			return Result{}, err
		}
		if err := h.book.AddRecord(rec); err != nil {
			return Result{}, err
		}
		return changed(fmt.Sprintf("Contact %s was saved", rec)), nil
	}

	update, err := parseUpdate(phone, email, birthday)
	if err != nil {
		return Result{}, err
	}
	if !update.apply(r) {
		return output(fmt.Sprintf("Contact %s already exists", r.Name)), nil
	}
	return changed(fmt.Sprintf("Contact %s was updated", r)), nil
}

// recordUpdate holds parsed values to merge into an existing record. Nil
// fields were not given.
type recordUpdate struct {
	phone    *types.Phone
	email    *types.Email
	birthday *types.Birthday
}

func parseUpdate(phone, email, birthday string) (recordUpdate, error) {
	var u recordUpdate
	if phone != "" {
		p, err := types.NewPhone(phone)
		if err != nil {
			return recordUpdate{}, err
		}
		u.phone = &p
	}
	if email != "" {
		e, err := types.NewEmail(email)
		if err != nil {
			return recordUpdate{}, err
		}
		u.email = &e
	}
	if birthday != "" {
		b, err := types.ParseBirthday(birthday)
		if err != nil {
			return recordUpdate{}, err
		}
		u.birthday = &b
	}
	return u, nil
}

// apply merges u into r and reports whether r changed.
func (u recordUpdate) apply(r *types.Record) bool {
	modified := false
	if u.phone != nil && !slices.Contains(r.Phones, *u.phone) {
		r.Phones = append(r.Phones, *u.phone)
		modified = true
	}
	if u.email != nil && !slices.Contains(r.Emails, *u.email) {
		r.Emails = append(r.Emails, *u.email)
		modified = true
	}
	if u.birthday != nil && (r.Birthday == nil || !r.Birthday.Time().Equal(u.birthday.Time())) {
		b := *u.birthday
		r.Birthday = &b
		modified = true
	}
	return modified
}

// change replaces one phone or email of a contact. The old value decides
// which: digits select phones, anything else emails.
func (h *Handler) change(args []string) (Result, error) {
	if len(args) != 3 {
		return Result{}, errUsage
	}
	r, ok := h.book.FindRecord(args[0])
	if !ok {
		return Result{}, types.ErrNotFound
	}
	oldValue, newValue := args[1], args[2]

	if types.ValidatePhone(oldValue) == nil {
		if err := r.EditPhone(oldValue, newValue); err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return output(fmt.Sprintf("Contact %s has no phone %s", r.Name, oldValue)), nil
			}
			return Result{}, err
		}
		res := changed(fmt.Sprintf("Phone number for contact %s was changed to %s", r.Name, newValue))
		res.Changed = oldValue != newValue
		return res, nil
	}

	if err := r.EditEmail(oldValue, newValue); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return output(fmt.Sprintf("Contact %s has no email %s", r.Name, oldValue)), nil
		}
		return Result{}, err
	}
	res := changed(fmt.Sprintf("Email for contact %s was changed to %s", r.Name, newValue))
	res.Changed = oldValue != newValue
	return res, nil
}

// deleteValue removes one phone or email from a contact.
func (h *Handler) deleteValue(args []string) (Result, error) {
	if len(args) != 2 {
		return Result{}, errUsage
	}
	r, ok := h.book.FindRecord(args[0])
	if !ok {
		return Result{}, types.ErrNotFound
	}
	value := args[1]
	if r.DeletePhone(value) {
		return changed(fmt.Sprintf("Phone %s was removed from contact %s", value, r.Name)), nil
	}
	if r.DeleteEmail(value) {
		return changed(fmt.Sprintf("Email %s was removed from contact %s", value, r.Name)), nil
	}
	return output(fmt.Sprintf("Contact %s has no phone or email %s", r.Name, value)), nil
}

func (h *Handler) remove(args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, errUsage
	}
	if err := h.book.RemoveRecord(args[0]); err != nil {
		return Result{}, err
	}
	return changed(fmt.Sprintf("Contact %s was removed", types.NormalizeName(args[0]))), nil
}

func (h *Handler) phone(args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, errUsage
	}
	r, ok := h.book.FindRecord(args[0])
	if !ok {
		return Result{}, types.ErrNotFound
	}
	phones := make([]string, len(r.Phones))
	for i, p := range r.Phones {
		phones[i] = string(p)
	}
	emails := make([]string, len(r.Emails))
	for i, e := range r.Emails {
		emails[i] = string(e)
	}
	return output(fmt.Sprintf("%s has phones: %s and emails: %s", r.Name, joinOrNone(phones), joinOrNone(emails))), nil
}

func (h *Handler) birthday(args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, errUsage
	}
	r, ok := h.book.FindRecord(args[0])
	if !ok {
		return Result{}, types.ErrNotFound
	}
	days, ok := r.DaysToBirthday(h.now())
	switch {
	case !ok:
		return output(fmt.Sprintf("%s has no birthday set", r.Name)), nil
	case days == 0:
		return output(fmt.Sprintf("Today is %s's birthday!", r.Name)), nil
	case days == 1:
		return output(fmt.Sprintf("%s's birthday is tomorrow", r.Name)), nil
	default:
		return output(fmt.Sprintf("%s's birthday is in %d days", r.Name, days)), nil
	}
}

// showAll lists every contact, or only those whose name or phone contains
// the given substring.
func (h *Handler) showAll(args []string) (Result, error) {
	switch len(args) {
	case 0:
		lines, ok := search.ListAll(h.book)
		if !ok {
			return output(MsgEmptyBook), nil
		}
		return output(strings.Join(lines, "\n")), nil
	case 2:
		field, err := search.ParseField(args[0])
		if err != nil {
			return Result{}, err
		}
		if h.book.Len() == 0 {
			return output(MsgEmptyBook), nil
		}
		return h.runSearch(func(e search.Engine) ([]types.Entry, error) {
			return e.SearchField(field, args[1])
		})
	default:
		return Result{}, errUsage
	}
}

func (h *Handler) find(args []string) (Result, error) {
	if len(args) != 1 {
		return Result{}, errUsage
	}
	if h.book.Len() == 0 {
		return output(MsgEmptyBook), nil
	}
	return h.runSearch(func(e search.Engine) ([]types.Entry, error) {
		return e.Search(args[0])
	})
}

// runSearch opens an engine over the current book, runs fn and formats the
// matches.
func (h *Handler) runSearch(fn func(search.Engine) ([]types.Entry, error)) (Result, error) {
	engine, err := search.Open(h.searchBackend, h.book)
	if err != nil {
		return Result{}, err
	}
	defer engine.Close()

	entries, err := fn(engine)
	if err != nil {
		return Result{}, err
	}
	h.logger.Debug("search finished", zap.String("backend", h.searchBackend), zap.Int("matches", len(entries)))
	if len(entries) == 0 {
		return output(MsgNoMatches), nil
	}
	return output(search.Format(entries)), nil
}

// output is a result that leaves the book unchanged.
func output(text string) Result {
	return Result{Output: text}
}

// changed is a result for a command that modified the book.
func changed(text string) Result {
	return Result{Output: text, Changed: true}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
