package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/restaurant-directory/internal/form"
	"github.com/aanand-mishra/restaurant-directory/internal/storage"
	"github.com/aanand-mishra/restaurant-directory/internal/table"
	"github.com/aanand-mishra/restaurant-directory/internal/types"
	"github.com/aanand-mishra/restaurant-directory/internal/validation"
)

func newListCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List restaurants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := table.New(a.store, &navigator{}, a.logger)
			if err := tbl.Load(cmd.Context()); err != nil {
				return errors.New(tbl.View().ErrorMessage)
			}
			printRows(cmd.OutOrStdout(), tbl.Rows(filter))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only show rows containing this text")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			r, found, err := a.store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("restaurant %d not found", id)
			}
			printDetail(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	values := make(map[string]*string, len(form.Fields))

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nav := &navigator{}
			f := form.NewCreate(a.store, a.validator, nav, a.logger)
			for _, field := range form.Fields {
				if err := f.Set(field, *values[field]); err != nil {
					return err
				}
			}
			return submit(cmd, a, f, nav)
		},
	}
	for _, field := range form.Fields {
		values[field] = cmd.Flags().String(field, "", "Restaurant "+field)
	}
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	values := make(map[string]*string, len(form.Fields))

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a restaurant; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			// Pick the row from the list so the form starts from it. A row
			// missing from the list is fetched by the form itself.
			nav := &navigator{}
			tbl := table.New(a.store, nav, a.logger)
			if err := tbl.Load(cmd.Context()); err == nil {
				if err := tbl.Edit(id); err != nil && !errors.Is(err, table.ErrUnknownRow) {
					return err
				}
			}

			f, err := form.NewEdit(cmd.Context(), a.store, a.validator, nav, a.logger, id, nav.handoff)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("restaurant %d not found", id)
			}
			if err != nil {
				return err
			}

			for _, field := range form.Fields {
				if !cmd.Flags().Changed(field) {
					continue
				}
				if err := f.Set(field, *values[field]); err != nil {
					return err
				}
			}
			return submit(cmd, a, f, nav)
		},
	}
	for _, field := range form.Fields {
		values[field] = cmd.Flags().String(field, "", "New "+field)
	}
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			tbl := table.New(a.store, &navigator{}, a.logger)
			if err := tbl.Load(cmd.Context()); err != nil {
				return errors.New(tbl.View().ErrorMessage)
			}

			out := cmd.OutOrStdout()
			confirm := table.ConfirmFunc(func(types.Restaurant) bool { return true })
			if !yes {
				confirm = prompt(cmd.InOrStdin(), out)
			}

			err = tbl.Delete(cmd.Context(), id, confirm)
			if errors.Is(err, table.ErrNotConfirmed) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			if err != nil {
				if msg := tbl.View().ErrorMessage; msg != "" {
					return errors.New(msg)
				}
				return err
			}

			fmt.Fprintln(out, tbl.View().SuccessMessage)
			printRows(out, tbl.Rows(""))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

// submit runs the form and prints its outcome. After a save the form
// navigates to the list, which is printed.
func submit(cmd *cobra.Command, a *app, f *form.Form, nav *navigator) error {
	out := cmd.OutOrStdout()

	saved, err := f.Submit(cmd.Context())
	view := f.View()
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			fmt.Fprintln(out, view.ErrorMessage)
			for _, field := range form.Fields {
				if msg := view.FieldError(field); msg != "" {
					fmt.Fprintf(out, "  --%s: %s\n", field, msg)
				}
			}
			return errors.New("restaurant not saved")
		}
		return errors.New(view.ErrorMessage)
	}

	fmt.Fprintf(out, "%s (id %d)\n", view.SuccessMessage, saved.ID)
	if !nav.toList {
		return nil
	}

	tbl := table.New(a.store, nav, a.logger)
	if err := tbl.Load(cmd.Context()); err != nil {
		return errors.New(tbl.View().ErrorMessage)
	}
	printRows(out, tbl.Rows(""))
	return nil
}

// prompt asks on out and reads the answer from in; only "y" or "yes"
// confirms.
func prompt(in io.Reader, out io.Writer) table.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(r types.Restaurant) bool {
		name := r.Name
		if name == "" {
			name = "#" + strconv.FormatInt(r.ID, 10)
		}
		fmt.Fprintf(out, "Delete restaurant %q? [y/N]: ", name)

		answer, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid restaurant id %q", arg)
	}
	return id, nil
}

func printRows(w io.Writer, rows []types.Restaurant) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No restaurants found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tMOBILE\tCITY\tSTATE\tCOUNTRY")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Email, r.Mobile, r.City, r.State, r.Country)
	}
	tw.Flush()
}

func printDetail(w io.Writer, r types.Restaurant) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", r.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", r.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", r.Email)
	fmt.Fprintf(tw, "Mobile:\t%s\n", r.Mobile)
	fmt.Fprintf(tw, "Description:\t%s\n", r.Description)
	fmt.Fprintf(tw, "Address:\t%s\n", r.Address)
	fmt.Fprintf(tw, "City:\t%s\n", r.City)
	fmt.Fprintf(tw, "State:\t%s\n", r.State)
	fmt.Fprintf(tw, "Country:\t%s\n", r.Country)
	if r.CreatedAt != "" {
		fmt.Fprintf(tw, "Created:\t%s\n", r.CreatedAt)
	}
	if r.UpdatedAt != "" {
		fmt.Fprintf(tw, "Updated:\t%s\n", r.UpdatedAt)
	}
	tw.Flush()
}
