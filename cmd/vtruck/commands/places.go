package commands

import (
	"github.com/spf13/cobra"
)

func (c *cli) placesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "places", Short: "Google Places lookups"}

	search := &cobra.Command{
		Use:   "search <text>",
		Short: "Suggest places matching text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			places, err := c.wire.Maps.Autocomplete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(places) == 0 {
				c.say("places.none")
				return nil
			}
			t := c.table("col.place", "col.place_id")
			for _, p := range places {
				t.row(p.Description, p.PlaceID)
			}
			t.flush()
			return nil
		},
	}

	geocode := &cobra.Command{
		Use:   "geocode <lat,lng>",
		Short: "Show the address and state at a coordinate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(args[0])
			if err != nil {
				return err
			}
			addr, err := c.wire.Maps.ReverseGeocodeAddress(cmd.Context(), pt)
			if err != nil {
				return err
			}
			state, err := c.wire.Maps.ReverseGeocodeState(cmd.Context(), pt)
			if err != nil {
				return err
			}
			t := c.table("col.field", "col.value")
			t.row(c.p.T("field.address"), orDash(addr))
			t.row(c.p.T("field.state"), orDash(state))
			t.flush()
			return nil
		},
	}

	cmd.AddCommand(search, geocode)
	return cmd
}
