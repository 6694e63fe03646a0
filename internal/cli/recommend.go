package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/catalog"
	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
	"github.com/DoyleJ11/lol-rune-draft/internal/runes"
)

func RecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Predict a rune page for one player of a complete draft",
		Long: `Predict a rune page for one player of a complete draft.

Picks are ten champion ids, blue side top to support then red side top to
support. Player is 0-9 in the same order.

Examples:
  runedraft recommend --picks Aatrox,LeeSin,Ahri,Jinx,Thresh,Gnar,Vi,Syndra,Kaisa,Nautilus --player 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			raw, _ := cmd.Flags().GetString("picks")
			player, _ := cmd.Flags().GetInt("player")

			champs, err := catalog.LoadChampionsFile(cfg.ChampionsPath())
			if err != nil {
				return err
			}
			picked, err := parsePicks(champs, raw)
			if err != nil {
				return err
			}
			if player < 0 || player >= draft.PickSlots {
				return fmt.Errorf("%w: %d", predict.ErrInvalidPlayer, player)
			}

			predictor := predict.NewPredictor(log)
			if err := loadEngine(cfg, predictor); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			var keys [draft.PickSlots]int
			for i, c := range picked {
				keys[i] = c.Key
			}
			res, err := predictor.Predict(ctx, keys, player)
			if err != nil {
				return err
			}
			cat, err := runes.CatalogFromMappings(predictor.Mappings())
			if err != nil {
				return err
			}
			page, err := runes.ComposePage(res, cat)
			if err != nil {
				return err
			}

			var names runes.Names
			meta, err := catalog.NewMetadataProvider(cfg.DDragonURL, cfg.DDragonVersion, nil, log).Load(ctx)
			if err != nil {
				log.Warn("showing ids only", zap.Error(err))
			} else {
				names = meta
			}

			ref := draft.PlayerSlot(player)
			printPanel(cmd.OutOrStdout(), picked[player], ref, runes.BuildPanel(res, page, cat, names))
			return nil
		},
	}
	cmd.Flags().String("picks", "", "ten comma separated champion ids (required)")
	cmd.Flags().Int("player", 0, "player index 0-9")
	_ = cmd.MarkFlagRequired("picks")
	return cmd
}

func parsePicks(champs *catalog.Champions, raw string) ([draft.PickSlots]draft.Champion, error) {
	var out [draft.PickSlots]draft.Champion
	ids := strings.Split(raw, ",")
	if len(ids) != draft.PickSlots {
		return out, fmt.Errorf("want %d picks, got %d", draft.PickSlots, len(ids))
	}
	ledger := draft.NewLedger()
	for i, id := range ids {
		c, ok := champs.Lookup(strings.TrimSpace(id))
		if !ok {
			return out, fmt.Errorf("unknown champion %q", id)
		}
		if err := ledger.Place(draft.PlayerSlot(i), c); err != nil {
			return out, fmt.Errorf("%s: %w", c.ID, err)
		}
		out[i] = c
	}
	return out, nil
}

var (
	topColor   = color.New(color.FgHiGreen, color.Bold)
	restColor  = color.New(color.FgHiBlack)
	titleColor = color.New(color.FgHiCyan)
)

func printPanel(w io.Writer, champ draft.Champion, ref draft.SlotRef, p runes.Panel) {
	fmt.Fprintf(w, "%s %s (%s %s)\n", titleColor.Sprint("Runes for"), champ.Name, ref.Team, ref.Role())

	if p.Primary != nil {
		fmt.Fprintf(w, "\n%s %s\n", titleColor.Sprint("Primary:"), label(p.Primary.Name, p.Primary.StyleID))
		printItems(w, "  ", p.Primary.Keystones)
		for _, slot := range p.Primary.Slots {
			printItems(w, "    ", slot)
		}
	}
	if p.Secondary != nil {
		fmt.Fprintf(w, "\n%s %s\n", titleColor.Sprint("Secondary:"), label(p.Secondary.Name, p.Secondary.StyleID))
		for _, slot := range p.Secondary.Slots {
			printItems(w, "    ", slot)
		}
	}

	fmt.Fprintf(w, "\n%s\n", titleColor.Sprint("Shards:"))
	printItems(w, "  offense ", p.Shards.Offense)
	printItems(w, "  flex    ", p.Shards.Flex)
	printItems(w, "  defense ", p.Shards.Defense)

	fmt.Fprintf(w, "\n%s\n", titleColor.Sprint("Summoner spells:"))
	printItems(w, "  ", p.Spells)
}

func printItems(w io.Writer, indent string, items []runes.Item) {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		s := fmt.Sprintf("%s %.1f%%", label(it.Name, it.ID), it.Probability*100)
		if it.Top {
			parts = append(parts, topColor.Sprint("*"+s))
		} else {
			parts = append(parts, restColor.Sprint(s))
		}
	}
	fmt.Fprintf(w, "%s%s\n", indent, strings.Join(parts, "  "))
}

func label(name string, id int) string {
	if name == "" {
		return fmt.Sprintf("#%d", id)
	}
	return name
}
