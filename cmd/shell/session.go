package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/giovaniif/items/domain/item"
	"github.com/giovaniif/items/infra/requestid"
	"github.com/giovaniif/items/use_cases/create"
	"github.com/giovaniif/items/use_cases/get"
	"github.com/giovaniif/items/use_cases/list"
	"github.com/giovaniif/items/use_cases/purge"
	"github.com/giovaniif/items/use_cases/remove"
	"github.com/giovaniif/items/use_cases/update"
)

var errQuit = errors.New("quit")

// maxLineBytes bounds a single shell line, JSON documents included.
const maxLineBytes = 1 << 20

// Session executes shell lines against one item store.
type Session struct {
	listUseCase   *list.List
	getUseCase    *get.Get
	createUseCase *create.Create
	updateUseCase *update.Update
	removeUseCase *remove.Remove
	purgeUseCase  *purge.Purge
	gatherer      prometheus.Gatherer
	out           io.Writer
}

func NewSession(itemRepository item.Repository, logger *zap.Logger, gatherer prometheus.Gatherer, out io.Writer) *Session {
	return &Session{
		listUseCase:   list.NewList(itemRepository, logger),
		getUseCase:    get.NewGet(itemRepository, logger),
		createUseCase: create.NewCreate(itemRepository, logger),
		updateUseCase: update.NewUpdate(itemRepository, logger),
		removeUseCase: remove.NewRemove(itemRepository, logger),
		purgeUseCase:  purge.NewPurge(itemRepository, logger),
		gatherer:      gatherer,
		out:           out,
	}
}

// Run executes one command per input line. Command errors are printed and the
// session goes on; only a canceled context or a read error ends it early.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := s.Exec(requestid.NewContext(ctx, requestid.Generate()), line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
	}
	return scanner.Err()
}

// Exec runs a single command line.
func (s *Session) Exec(ctx context.Context, line string) error {
	root := s.commandTree()
	root.SetArgs(splitLine(line))
	return root.ExecuteContext(ctx)
}

// splitLine splits a command line on whitespace. A trailing JSON object,
// starting at the first '{', is kept verbatim as the last argument so its
// spacing survives and its contents are never read as flags.
func splitLine(line string) []string {
	i := strings.IndexByte(line, '{')
	if i < 0 {
		return strings.Fields(line)
	}
	return append(strings.Fields(line[:i]), line[i:])
}

func (s *Session) commandTree() *cobra.Command {
	root := &cobra.Command{
		Use:           "items",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(s.out)
	root.SetErr(s.out)

	root.AddCommand(
		s.addCommand(),
		s.lsCommand(),
		s.getCommand(),
		s.completedCommand("done", true),
		s.completedCommand("undo", false),
		s.renameCommand(),
		s.orderCommand(),
		s.patchCommand(),
		s.rmCommand(),
		s.clearCommand(),
		s.statsCommand(),
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "End the session",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return errQuit
			},
		},
	)
	return root
}

func (s *Session) addCommand() *cobra.Command {
	var (
		order     float64
		completed bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add an item (with --json the arguments are an ItemData document)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data item.Data
			if asJSON {
				decoded, err := item.DecodeData([]byte(strings.Join(args, " ")))
				if err != nil {
					return err
				}
				data = decoded
			} else {
				data = item.Data{Title: strings.Join(args, " "), Completed: completed}
				if cmd.Flags().Changed("order") {
					data.Order = &order
				}
			}
			created, err := s.createUseCase.Create(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(s.out, "added", formatItem(created))
			return nil
		},
	}
	cmd.Flags().Float64Var(&order, "order", 0, "sort order (defaults to -id)")
	cmd.Flags().BoolVar(&completed, "completed", false, "mark the item as completed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "read the item from a JSON document")
	return cmd
}

func (s *Session) lsCommand() *cobra.Command {
	var sorted bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items in insertion order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := s.listUseCase.List(cmd.Context(), list.Input{SortByOrder: sorted})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(s.out, "no items")
				return nil
			}
			for _, it := range items {
				fmt.Fprintln(s.out, formatItem(it))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sorted, "sorted", false, "sort by the order field")
	return cmd
}

func (s *Session) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			out, err := s.getUseCase.Get(cmd.Context(), get.Input{ItemId: id})
			if err != nil {
				return err
			}
			if !out.Found {
				fmt.Fprintf(s.out, "item %d not found\n", id)
				return nil
			}
			fmt.Fprintln(s.out, formatItem(out.Item))
			return nil
		},
	}
}

func (s *Session) completedCommand(name string, completed bool) *cobra.Command {
	short := "Mark an item as completed"
	if !completed {
		short = "Mark an item as not completed"
	}
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.patch(cmd.Context(), args[0], item.OptionalData{Completed: &completed})
		},
	}
}

func (s *Session) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "rename <id> <title...>",
		DisableFlagParsing: true,
		Short:              "Change the title of an item",
		Args:               cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			return s.patch(cmd.Context(), args[0], item.OptionalData{Title: &title})
		},
	}
}

func (s *Session) orderCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "order <id> <n>",
		DisableFlagParsing: true,
		Short:              "Change the sort order of an item",
		Args:               cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid order %q", args[1])
			}
			return s.patch(cmd.Context(), args[0], item.OptionalData{Order: &order})
		},
	}
}

func (s *Session) patchCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "patch <id> <json...>",
		DisableFlagParsing: true,
		Short:              "Apply an OptionalItemData JSON document to an item",
		Args:               cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := item.DecodeOptionalData([]byte(strings.Join(args[1:], " ")))
			if err != nil {
				return err
			}
			return s.patch(cmd.Context(), args[0], data)
		},
	}
}

func (s *Session) patch(ctx context.Context, rawId string, data item.OptionalData) error {
	id, err := parseId(rawId)
	if err != nil {
		return err
	}
	if err := s.updateUseCase.Update(ctx, update.Input{ItemId: id, Data: data}); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "updated", id)
	return nil
}

func (s *Session) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			if err := s.removeUseCase.Remove(cmd.Context(), remove.Input{ItemId: id}); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "removed", id)
			return nil
		},
	}
}

func (s *Session) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item (ids keep counting up)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.purgeUseCase.Purge(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "cleared")
			return nil
		},
	}
}

func (s *Session) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store operation counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := operationCounts(s.gatherer)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Fprintln(s.out, "no operations yet")
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(s.out, line)
			}
			return nil
		},
	}
}

// operationCounts renders items_operations_total as "operation outcome count" lines.
func operationCounts(gatherer prometheus.Gatherer) ([]string, error) {
	families, err := gatherer.Gather()
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, family := range families {
		if family.GetName() != "items_operations_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := make(map[string]string)
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			lines = append(lines, fmt.Sprintf("%s %s %g", labels["operation"], labels["outcome"], m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	return lines, nil
}

func parseId(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return int32(id), nil
}

func formatItem(it item.Item) string {
	check := "[ ]"
	if it.Completed {
		check = "[x]"
	}
	return fmt.Sprintf("%s #%d %s (order %g)", check, it.Id, it.Title, it.Order)
}
