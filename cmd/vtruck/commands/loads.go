package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vtruck/internal/domain"
	"vtruck/internal/geo"
	"vtruck/internal/metrics"
	"vtruck/internal/services/loads"
)

func (c *cli) loadCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "load", Short: "Post loads and manage their bids (shippers)"}
	cmd.AddCommand(c.loadPostCmd(), c.loadListCmd(), c.loadShowCmd(), c.loadBidsCmd(), c.loadAcceptCmd(), c.loadWatchCmd())
	return cmd
}

func (c *cli) loadPostCmd() *cobra.Command {
	var (
		form         domain.LoadForm
		from, to     string
		fromAt, toAt string
		vehicleType  string
		priceType    string
		fromDraft    string
	)
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a new load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if fromDraft != "" {
				d, err := c.wire.Drafts.Get(fromDraft)
				if err != nil {
					return err
				}
				from, to = pick(from, d.From), pick(to, d.To)
				form.Weight = pick(form.Weight, d.Weight)
				vehicleType = pick(vehicleType, d.Type)
			}
			var err error
			if form.Pickup, err = c.place(ctx, from, fromAt); err != nil {
				return err
			}
			if form.Dropoff, err = c.place(ctx, to, toAt); err != nil {
				return err
			}
			if vehicleType != "" {
				t, ok, err := c.wire.Catalog.VehicleType(ctx, domain.ID(vehicleType))
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("unknown vehicle type %q", vehicleType)
				}
				form.VehicleType = t
			}
			form.PriceType = domain.PriceType(priceType)
			form.LimitHours = form.VisibleHours != ""

			load, err := c.wire.Loads.Post(ctx, form)
			if err != nil {
				return err
			}
			if fromDraft != "" {
				if err := c.wire.Drafts.Delete(fromDraft); err != nil {
					c.wire.Log.Warn("drop posted draft", zap.Error(err))
				}
			}
			c.say("load.posted", load.PickupLocation, load.DropoffLocation, load.Amount.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "pickup address")
	cmd.Flags().StringVar(&to, "to", "", "drop address")
	cmd.Flags().StringVar(&fromAt, "from-at", "", "pickup coordinates lat,lng (skips place lookup)")
	cmd.Flags().StringVar(&toAt, "to-at", "", "drop coordinates lat,lng (skips place lookup)")
	cmd.Flags().StringVar(&form.Material, "material", "", "material name")
	cmd.Flags().StringVar(&form.Weight, "weight", "", "weight in kg")
	cmd.Flags().StringVar(&form.Description, "description", "", "load description")
	cmd.Flags().StringVar(&vehicleType, "vehicle-type", "", "vehicle type id (see vehicle types)")
	cmd.Flags().StringVar(&form.Amount, "amount", "", "price")
	cmd.Flags().StringVar(&priceType, "price-type", string(domain.PriceFixed), "Fixed or Negotiable")
	cmd.Flags().StringVar(&form.VisibleHours, "visible-hours", "", "hours the load stays listed (default 24)")
	cmd.Flags().StringVar(&fromDraft, "draft", "", "fill missing fields from a saved draft and remove it once posted")
	return cmd
}

func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func (c *cli) loadListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your loads with their bids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.wire.Loads.MyLoads(cmd.Context(), domain.LoadStatus(status))
			if err != nil {
				return err
			}
			if len(list) == 0 {
				c.say("load.none")
				return nil
			}
			t := c.table("col.id", "col.from", "col.to", "col.material", "col.weight", "col.amount", "col.distance", "col.bids", "col.accepted")
			for _, o := range list {
				s := loads.Summarise(o)
				accepted := "-"
				if s.Accepted != nil {
					accepted = s.Accepted.DriverName + " " + s.Accepted.Amount.String()
				}
				t.row(o.Load.ID, orDash(geo.CityState(o.Load.PickupLocation)), orDash(geo.CityState(o.Load.DropoffLocation)),
					o.Load.MaterialName, o.Load.Weight.String(), o.Load.Amount.String(), km(s.DistanceKM), s.Bids, accepted)
			}
			t.flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.LoadPending), "pending, assigned or accepted")
	return cmd
}

func (c *cli) loadShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <load-id>",
		Short: "Show one load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.wire.Loads.Details(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			l := o.Load
			s := loads.Summarise(o)
			t := c.table("col.field", "col.value")
			t.row(c.p.T("field.pickup"), orDash(l.PickupLocation))
			t.row(c.p.T("field.dropoff"), orDash(l.DropoffLocation))
			t.row(c.p.T("field.states"), orDash(s.PickupState)+" → "+orDash(s.DropState))
			t.row(c.p.T("field.distance"), km(s.DistanceKM))
			t.row(c.p.T("field.material"), orDash(l.MaterialName))
			t.row(c.p.T("field.weight"), l.Weight.String())
			t.row(c.p.T("field.amount"), l.Amount.String()+" ("+orDash(string(l.AmountType))+")")
			t.row(c.p.T("field.status"), orDash(string(l.LoadStatus)))
			t.row(c.p.T("field.bids"), s.Bids)
			if s.Accepted != nil {
				t.row(c.p.T("field.accepted"), s.Accepted.DriverName+" "+s.Accepted.Amount.String()+" "+s.Accepted.VehicleNumber)
			}
			t.flush()
			return nil
		},
	}
}

func (c *cli) loadBidsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bids <load-id>",
		Short: "List the bids placed on a load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bids, err := c.wire.Loads.Bids(cmd.Context(), domain.ID(args[0]))
			if err != nil {
				return err
			}
			if len(bids) == 0 {
				c.say("bid.none")
				return nil
			}
			t := c.table("col.id", "col.bidder", "col.vehicle", "col.amount", "col.status")
			for _, b := range bids {
				t.row(b.ID, b.BidderName(), orDash(b.VehicleNumber()), b.Amount.String(), orDash(b.Status))
			}
			t.flush()
			return nil
		},
	}
}

func (c *cli) loadAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <bid-id>",
		Short: "Accept a bid and assign the load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.wire.Loads.AcceptBid(cmd.Context(), domain.ID(args[0])); err != nil {
				return err
			}
			c.say("bid.accepted", args[0])
			return nil
		},
	}
}

// load watch <id>: print bids as they arrive until interrupted.
func (c *cli) loadWatchCmd() *cobra.Command {
	var (
		interval    time.Duration
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "watch <load-id>",
		Short: "Print new bids on a load as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			addr := pick(metricsAddr, c.wire.Config.Metrics.Addr)
			if addr != "" {
				srv := metrics.NewServer(c.wire.Metrics)
				if err := srv.Start(addr); err != nil {
					return err
				}
				defer stopServer(srv)
				c.say("watch.metrics", "http://"+srv.Addr()+"/metrics")
			}
			c.say("watch.start", args[0])
			err := c.wire.Loads.Watch(ctx, domain.ID(args[0]), interval, func(b domain.Bid) {
				c.say("watch.bid", b.BidderName(), b.Amount.String(), orDash(b.VehicleNumber()))
			})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "poll interval")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on host:port")
	return cmd
}

func stopServer(srv *metrics.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}
