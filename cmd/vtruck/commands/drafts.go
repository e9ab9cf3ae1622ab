package commands

import (
	"github.com/spf13/cobra"

	"vtruck/internal/domain"
)

func (c *cli) draftCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "draft", Short: "Loads kept on this device"}

	var d domain.DraftLoad
	bind := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&d.From, "from", "", "pickup address")
		cmd.Flags().StringVar(&d.To, "to", "", "drop address")
		cmd.Flags().StringVar(&d.Date, "date", "", "pickup date")
		cmd.Flags().StringVar(&d.Type, "vehicle-type", "", "vehicle type id")
		cmd.Flags().StringVar(&d.Weight, "weight", "", "weight in kg")
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Save a draft load",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			saved, err := c.wire.Drafts.Add(d)
			if err != nil {
				return err
			}
			c.say("draft.added", saved.ID)
			return nil
		},
	}
	bind(add)

	edit := &cobra.Command{
		Use:   "edit <draft-id>",
		Short: "Change fields of a draft load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := c.wire.Drafts.Get(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("from") {
				cur.From = d.From
			}
			if flags.Changed("to") {
				cur.To = d.To
			}
			if flags.Changed("date") {
				cur.Date = d.Date
			}
			if flags.Changed("vehicle-type") {
				cur.Type = d.Type
			}
			if flags.Changed("weight") {
				cur.Weight = d.Weight
			}
			if err := c.wire.Drafts.Edit(cur); err != nil {
				return err
			}
			c.say("draft.edited", cur.ID)
			return nil
		},
	}
	bind(edit)

	list := &cobra.Command{
		Use:   "list",
		Short: "List draft loads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			list, err := c.wire.Drafts.List()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				c.say("draft.none")
				return nil
			}
			t := c.table("col.id", "col.from", "col.to", "col.date", "col.type", "col.weight")
			for _, d := range list {
				t.row(d.ID, orDash(d.From), orDash(d.To), orDash(d.Date), orDash(d.Type), orDash(d.Weight))
			}
			t.flush()
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <draft-id>",
		Short: "Remove a draft load",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := c.wire.Drafts.Delete(args[0]); err != nil {
				return err
			}
			c.say("draft.deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, edit, list, del)
	return cmd
}
