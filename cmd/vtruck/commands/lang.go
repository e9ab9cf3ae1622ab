package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vtruck/internal/domain"
)

func (c *cli) langCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "lang", Short: "Display language"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the available languages",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			t := c.table("col.code", "col.language", "col.current")
			for _, l := range c.bundle.Locales() {
				mark := ""
				if l == c.p.Locale() {
					mark = "*"
				}
				t.row(l, c.bundle.Name(l), mark)
			}
			t.flush()
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <code>",
		Short: "Remember the display language",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			code := args[0]
			if !c.bundle.Has(code) {
				return fmt.Errorf("unknown language %q", code)
			}
			if err := c.wire.Prefs.Set(domain.PrefLanguage, code); err != nil {
				return err
			}
			c.p = c.bundle.Printer(code)
			c.say("lang.set", c.bundle.Name(code))
			return nil
		},
	}

	cmd.AddCommand(list, set)
	return cmd
}
