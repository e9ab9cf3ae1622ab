package commands

import (
	"github.com/spf13/cobra"

	"vtruck/internal/domain"
	"vtruck/internal/geo"
)

func (c *cli) findCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "find", Short: "Find loads and lorries"}
	cmd.AddCommand(c.findNearbyCmd(), c.findLorryCmd(), c.findMineCmd())
	return cmd
}

// find nearby [--vehicle id] [--at lat,lng] [--page n] [--radius km] [--state name]
func (c *cli) findNearbyCmd() *cobra.Command {
	var (
		q  domain.NearbyQuery
		id string
		at string
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Loads near one of your vehicles (drivers and transporters)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q.VehicleID = domain.ID(id)
			if at != "" {
				pt, err := parsePoint(at)
				if err != nil {
					return err
				}
				q.Position = pt
			}
			page, err := c.wire.Market.Nearby(cmd.Context(), q)
			if err != nil {
				return err
			}
			c.say("nearby.vehicle", page.Vehicle.Number, orDash(page.Vehicle.CurrLocation))
			if len(page.Loads) == 0 {
				c.say("load.none")
			} else {
				t := c.table("col.id", "col.from", "col.to", "col.material", "col.weight", "col.amount", "col.distance")
				for _, l := range page.Loads {
					t.row(l.ID, orDash(geo.CityState(l.PickupLocation)), orDash(geo.CityState(l.DropoffLocation)),
						l.MaterialName, l.Weight.String(), l.Amount.String(), km(l.DistanceKM))
				}
				t.flush()
			}
			if page.HasMore {
				c.say("nearby.more", page.Page+1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "vehicle", "", "vehicle id (default: selected, else first available)")
	cmd.Flags().StringVar(&at, "at", "", "current position lat,lng; reported to the backend")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.RadiusKM, "radius", 0, "search radius in km (default from config)")
	cmd.Flags().StringVar(&q.State, "state", "", "only loads picking up or dropping in this state")
	return cmd
}

// find lorry --from <addr> --to <addr> --vehicle-type <id>
func (c *cli) findLorryCmd() *cobra.Command {
	var (
		from, to     string
		fromAt, toAt string
		vehicleType  string
	)
	cmd := &cobra.Command{
		Use:   "lorry",
		Short: "Lorries serving a route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := domain.LorrySearch{
				From:          domain.Place{Description: from},
				To:            domain.Place{Description: to},
				VehicleTypeID: domain.ID(vehicleType),
			}
			var err error
			if fromAt != "" {
				if q.From.Point, err = parsePoint(fromAt); err != nil {
					return err
				}
			}
			if toAt != "" {
				if q.To.Point, err = parsePoint(toAt); err != nil {
					return err
				}
			}
			lorries, err := c.wire.Market.FindLorry(cmd.Context(), q)
			if err != nil {
				return err
			}
			if len(lorries) == 0 {
				c.say("lorry.none")
				return nil
			}
			t := c.table("col.id", "col.vehicle", "col.driver", "col.capacity", "col.address")
			for _, l := range lorries {
				t.row(l.ID, l.VehicleNumber, orDash(l.DriverName), orDash(l.Capacity.String()), orDash(l.Address))
			}
			t.flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "pickup address")
	cmd.Flags().StringVar(&to, "to", "", "drop address")
	cmd.Flags().StringVar(&fromAt, "from-at", "", "pickup coordinates lat,lng")
	cmd.Flags().StringVar(&toAt, "to-at", "", "drop coordinates lat,lng")
	cmd.Flags().StringVar(&vehicleType, "vehicle-type", "", "vehicle type id")
	return cmd
}

// find mine [--tab pending|assigned]
func (c *cli) findMineCmd() *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Loads you bid on (pending) or won (assigned)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.wire.Market.DriverLoads(cmd.Context(), domain.LoadStatus(tab))
			if err != nil {
				return err
			}
			if len(list) == 0 {
				c.say("load.none")
				return nil
			}
			t := c.table("col.id", "col.from", "col.to", "col.material", "col.amount", "col.status", "col.posted")
			for _, l := range list {
				t.row(l.ID, orDash(geo.CityOf(l.PickupLocation)), orDash(geo.CityOf(l.DropoffLocation)),
					l.MaterialName, l.Amount.String(), orDash(string(l.LoadStatus)), orDash(l.CreatedAt))
			}
			t.flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(domain.LoadPending), "pending or assigned")
	return cmd
}

// bid <load-id> <amount> [--vehicle id]
func (c *cli) bidCmd() *cobra.Command {
	var vehicle string
	cmd := &cobra.Command{
		Use:   "bid <load-id> <amount>",
		Short: "Bid on a load with one of your vehicles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.wire.Market.PlaceBid(cmd.Context(), domain.ID(args[0]), domain.ID(vehicle), args[1]); err != nil {
				return err
			}
			c.say("bid.placed", args[1], args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "vehicle id (default: selected vehicle)")
	return cmd
}
