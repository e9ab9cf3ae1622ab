package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"vtruck/internal/domain"
	"vtruck/internal/services/fleet"
)

func (c *cli) vehicleCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "vehicle", Short: "Manage your vehicles"}
	cmd.AddCommand(
		c.vehicleTypesCmd(), c.vehicleStatesCmd(), c.vehicleAddCmd(), c.vehicleListCmd(),
		c.vehicleShowCmd(), c.vehicleDeleteCmd(), c.vehicleRoutesCmd(), c.vehicleSelectCmd(),
	)
	return cmd
}

// vehicle types [--weight kg]: list types, marking those that cannot carry kg.
func (c *cli) vehicleTypesCmd() *cobra.Command {
	var weight string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List vehicle types and their weight ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kg := 0.0
			if weight != "" {
				d, err := decimal.NewFromString(strings.TrimSpace(weight))
				if err != nil {
					return fmt.Errorf("weight %q: %w", weight, err)
				}
				kg = d.InexactFloat64()
			}
			types, err := c.wire.Fleet.VehicleTypes(cmd.Context())
			if err != nil {
				return err
			}
			t := c.table("col.id", "col.type", "col.min_kg", "col.max_kg", "col.fits")
			for _, ch := range fleet.Choices(types, kg) {
				t.row(ch.ID, ch.Title, float64(ch.MinWeight), float64(ch.MaxWeight), c.p.T(yesNo(ch.Fits)))
			}
			t.flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&weight, "weight", "", "mark types able to carry this many kg")
	return cmd
}

func (c *cli) vehicleStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states [search]",
		Short: "List the states a vehicle can operate in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search := ""
			if len(args) == 1 {
				search = args[0]
			}
			states, err := c.wire.Fleet.States(cmd.Context(), search)
			if err != nil {
				return err
			}
			t := c.table("col.id", "col.state")
			for _, s := range states {
				t.row(s.ID, s.Title)
			}
			t.flush()
			return nil
		},
	}
}

// stateIDs maps numeric ids through unchanged and looks names up in the
// backend state list.
func (c *cli) stateIDs(ctx context.Context, refs []string) ([]domain.ID, error) {
	out := make([]domain.ID, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if _, err := strconv.Atoi(ref); err == nil {
			out = append(out, domain.ID(ref))
			continue
		}
		id, ok, err := c.wire.Catalog.StateID(ctx, ref)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unknown state %q", ref)
		}
		out = append(out, id)
	}
	return out, nil
}

// vehicle add --number --type --route ... --rc <file>
func (c *cli) vehicleAddCmd() *cobra.Command {
	var (
		v      domain.NewVehicle
		typeID string
		routes []string
		rc     string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a vehicle with its operating states and RC document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := c.stateIDs(cmd.Context(), routes)
			if err != nil {
				return err
			}
			v.TypeID = domain.ID(typeID)
			v.Routes = ids
			v.Document = domain.Document{Path: rc}
			if err := c.wire.Fleet.AddVehicle(cmd.Context(), v); err != nil {
				return err
			}
			c.say("vehicle.added", strings.TrimSpace(v.Number))
			return nil
		},
	}
	cmd.Flags().StringVar(&v.Number, "number", "", "registration number")
	cmd.Flags().StringVar(&typeID, "type", "", "vehicle type id")
	cmd.Flags().StringVar(&v.CurrLocation, "location", "", "current state")
	cmd.Flags().StringVar(&v.Description, "description", "", "description")
	cmd.Flags().StringVar(&v.Weight, "weight", "", "capacity in kg")
	cmd.Flags().StringSliceVar(&routes, "route", nil, "operating state id or name (repeatable)")
	cmd.Flags().StringVar(&rc, "rc", "", "path to the registration certificate")
	return cmd
}

func (c *cli) vehicleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vs, err := c.wire.Fleet.Vehicles(cmd.Context())
			if err != nil {
				return err
			}
			if len(vs) == 0 {
				c.say("vehicle.none")
				return nil
			}
			sel, _, _ := c.wire.Fleet.SelectedVehicle()
			t := c.table("col.id", "col.number", "col.type", "col.status", "col.location", "col.selected")
			for _, v := range vs {
				mark := ""
				if v.ID == sel {
					mark = "*"
				}
				t.row(v.ID, v.Number, v.TypeLabel(), orDash(string(v.Status)), orDash(v.CurrLocation), mark)
			}
			t.flush()
			return nil
		},
	}
}

func (c *cli) vehicleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <vehicle-id>",
		Short: "Show one vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.wire.Fleet.Vehicle(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			states := make([]string, 0, len(v.OperationalStates))
			for _, s := range v.OperationalStates {
				states = append(states, s.Title)
			}
			t := c.table("col.field", "col.value")
			t.row(c.p.T("field.number"), v.Number)
			t.row(c.p.T("field.type"), v.TypeLabel())
			t.row(c.p.T("field.status"), orDash(string(v.Status)))
			t.row(c.p.T("field.location"), orDash(v.CurrLocation))
			t.row(c.p.T("field.weight"), orDash(v.Weight.String()))
			t.row(c.p.T("field.routes"), orDash(strings.Join(states, ", ")))
			t.row(c.p.T("field.verified"), c.p.T(yesNo(v.IsVerified == "1")))
			t.flush()
			return nil
		},
	}
}

func (c *cli) vehicleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <vehicle-id>",
		Short: "Remove a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.wire.Fleet.DeleteVehicle(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			c.say("vehicle.deleted", args[0])
			return nil
		},
	}
}

// vehicle routes <id> <state>...: replace the operating states.
func (c *cli) vehicleRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes <vehicle-id> <state>...",
		Short: "Replace the states a vehicle operates in",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := c.stateIDs(cmd.Context(), args[1:])
			if err != nil {
				return err
			}
			if err := c.wire.Fleet.SetRoutes(cmd.Context(), domain.ID(args[0]), ids); err != nil {
				return err
			}
			c.say("vehicle.routes", args[0], len(ids))
			return nil
		},
	}
}

func (c *cli) vehicleSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <vehicle-id>",
		Short: "Use a vehicle for finding loads and bidding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.wire.Fleet.SelectVehicle(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			c.say("vehicle.selected", v.Number)
			return nil
		},
	}
}

func (c *cli) driverCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "driver", Short: "Manage your drivers (transporters)"}

	var d domain.NewDriver
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a driver account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.wire.Fleet.AddDriver(cmd.Context(), d); err != nil {
				return err
			}
			c.say("driver.added", strings.TrimSpace(d.Name))
			return nil
		},
	}
	add.Flags().StringVar(&d.Name, "name", "", "driver name")
	add.Flags().StringVar(&d.Phone, "phone", "", "driver phone")
	add.Flags().StringVar(&d.Password, "password", "", "initial password")
	add.Flags().StringVar(&d.Email, "email", "", "email address (optional)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List your drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			drivers, err := c.wire.Fleet.Drivers(cmd.Context())
			if err != nil {
				return err
			}
			if len(drivers) == 0 {
				c.say("driver.none")
				return nil
			}
			t := c.table("col.id", "col.name", "col.phone", "col.email")
			for _, d := range drivers {
				t.row(d.ID, d.Name, d.Phone, orDash(d.Email))
			}
			t.flush()
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <driver-id>",
		Short: "Remove a driver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.wire.Fleet.DeleteDriver(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			c.say("driver.deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
