// Command propertyadmin manages the locally stored property list from a terminal.
//
//	propertyadmin [--storage FILE] list
//	propertyadmin search QUERY [--name-only]
//	propertyadmin show ID
//	propertyadmin add --name N --location L --price P --description D [--available=false]
//	propertyadmin edit ID [--name N] [--location L] [--price P] [--description D] [--available=B]
//	propertyadmin delete ID
//	propertyadmin report [--query Q] [--output FILE]
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"landora/internal/admin"
	"landora/internal/config"
	"landora/internal/logger"
	"landora/internal/models"
	"landora/internal/report"
	"landora/internal/validation"

	"github.com/spf13/pflag"
)

// errUsage marks command line mistakes; usage has already been printed.
var errUsage = errors.New("usage error")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "propertyadmin:", err)
		os.Exit(1)
	}
	log, closeLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Color:  cfg.Log.Color,
		Writer: os.Stderr,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "propertyadmin:", err)
		os.Exit(1)
	}
	defer closeLogger()

	if err := run(os.Args[1:], cfg.AdminStorage, os.Stdout, os.Stderr, log); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "propertyadmin:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, storagePath string, stdout, stderr io.Writer, log *slog.Logger) error {
	global := pflag.NewFlagSet("propertyadmin", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.StringVar(&storagePath, "storage", storagePath, "file holding the property list")
	if err := global.Parse(args); err != nil {
		return errUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "usage: propertyadmin [--storage FILE] list|search|show|add|edit|delete|report [args]")
		return errUsage
	}

	store, err := admin.NewStore(admin.NewFileStorage(storagePath), log)
	if err != nil {
		return err
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "list":
		printTable(stdout, store.Visible(admin.MatchAny))
		return nil
	case "search":
		return runSearch(store, cmdArgs, stdout, stderr)
	case "show":
		return runShow(store, cmdArgs, stdout, stderr)
	case "add":
		return runAdd(store, cmdArgs, stdout, stderr)
	case "edit":
		return runEdit(store, cmdArgs, stdout, stderr)
	case "delete":
		return runDelete(store, cmdArgs, stdout, stderr)
	case "report":
		return runReport(store, cmdArgs, stdout, stderr)
	}
	fmt.Fprintf(stderr, "unknown command %q\n", cmd)
	return errUsage
}

func runSearch(store *admin.Store, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	nameOnly := fs.Bool("name-only", false, "match the name field only")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: propertyadmin search QUERY [--name-only]")
		return errUsage
	}

	if _, err := store.Dispatch(admin.SetSearch{Query: fs.Arg(0)}); err != nil {
		return err
	}
	mode := admin.MatchAny
	if *nameOnly {
		mode = admin.MatchName
	}
	printTable(stdout, store.Visible(mode))
	return nil
}

func runShow(store *admin.Store, args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: propertyadmin show ID")
		return errUsage
	}
	p, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("property %s: %w", args[0], models.ErrPropertyNotFound)
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	for _, d := range admin.Details(p) {
		fmt.Fprintf(tw, "%s:\t%s\n", d.Label, d.Value)
	}
	return tw.Flush()
}

// formFlags registers the editable fields on fs.
func formFlags(fs *pflag.FlagSet, form *admin.PropertyForm) {
	fs.StringVar(&form.Name, "name", form.Name, "property name")
	fs.StringVar(&form.Location, "location", form.Location, "property location")
	fs.StringVar(&form.Price, "price", form.Price, "price, a positive number")
	fs.StringVar(&form.Description, "description", form.Description, "property description")
	fs.StringVar(&form.Availability, "available", form.Availability, "true or false")
}

func runAdd(store *admin.Store, args []string, stdout, stderr io.Writer) error {
	form := admin.PropertyForm{Availability: "true"}
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	formFlags(fs, &form)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	state, err := store.Dispatch(admin.Create{Form: form})
	if err != nil {
		return reportFormError(stderr, err)
	}
	created := state.Properties[len(state.Properties)-1]
	fmt.Fprintf(stdout, "Created property %s\n", created.ID)
	return nil
}

func runEdit(store *admin.Store, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: propertyadmin edit ID [--name N] [--location L] [--price P] [--description D] [--available=B]")
		return errUsage
	}
	id := args[0]
	current, ok := store.Get(id)
	if !ok {
		return fmt.Errorf("property %s: %w", id, models.ErrPropertyNotFound)
	}

	form := admin.FormFromProperty(current)
	fs := pflag.NewFlagSet("edit", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	formFlags(fs, &form)
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}
	if fs.NFlag() == 0 {
		fmt.Fprintln(stdout, "Nothing to change")
		return nil
	}

	if _, err := store.Dispatch(admin.Update{ID: id, Form: form}); err != nil {
		return reportFormError(stderr, err)
	}
	fmt.Fprintf(stdout, "Updated property %s\n", id)
	return nil
}

func runDelete(store *admin.Store, args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: propertyadmin delete ID")
		return errUsage
	}
	if _, err := store.Dispatch(admin.Delete{ID: args[0]}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted property %s\n", args[0])
	return nil
}

func runReport(store *admin.Store, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	query := fs.String("query", "", "only include properties matching this search")
	output := fs.StringP("output", "o", report.DefaultFilename, "PDF file to write")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if _, err := store.Dispatch(admin.SetSearch{Query: *query}); err != nil {
		return err
	}
	list := store.Visible(admin.MatchAny)
	if len(list) == 0 {
		return report.ErrEmptyReport
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := report.WritePDF(f, list); err != nil {
		f.Close()
		os.Remove(*output)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %d properties to %s\n", len(list), *output)
	return nil
}

// reportFormError prints each field failure on its own line.
func reportFormError(stderr io.Writer, err error) error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		fmt.Fprintf(stderr, "  %s: %s\n", fe.Field, fe.Message)
	}
	return fmt.Errorf("%d invalid field(s)", len(verrs))
}

func printTable(w io.Writer, list []models.Property) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No properties found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tPRICE\tAVAILABILITY")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Location, report.FormatPrice(p.Price), p.AvailabilityLabel())
	}
	tw.Flush()
}
