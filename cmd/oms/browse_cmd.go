package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/presentation/mappers"
	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/services"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
)

const browseHelp = `Commands:
  search <text>          set the search text (empty clears it)
  filter <key> <value>   filter by designation or department
  unfilter <key>         clear a filter
  sort <column>          cycle the sort order of a column
  unsort                 clear sorting
  page <n> | next | prev change page
  refresh                reload the current page
  delete <id>            delete an employee
  query                  print the current URL query
  quit                   leave`

type intent struct {
	verb string
	args []string
	rest string
}

func parseIntent(line string) (intent, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return intent{}, false
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	return intent{verb: strings.ToLower(verb), args: strings.Fields(rest), rest: rest}, true
}

// syncWriter serializes writes coming from the input loop and from fetch notifications.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type browser struct {
	listing *services.EmployeeListing
	def     listing.Definition
	role    string
	out     *syncWriter
}

func (b *browser) onFetchState(e *listing.FetchStateChanged) {
	if e.Listing != b.def.Name {
		return
	}
	if e.View.Loading {
		fmt.Fprintln(b.out, "Loading...")
		return
	}
	var buf strings.Builder
	_ = renderTable(&buf, mappers.EmployeeTableToViewModel(e.View, b.role))
	_, _ = io.WriteString(b.out, buf.String())
}

// apply executes one intent and reports whether the session should end.
func (b *browser) apply(ctx context.Context, in intent) (bool, error) {
	store := b.listing.Store()
	switch in.verb {
	case "quit", "q", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(b.out, browseHelp)
	case "search", "s":
		store.SetSearch(in.rest)
	case "filter", "f":
		if len(in.args) < 2 {
			return false, errors.New("usage: filter <key> <value>")
		}
		key, err := resolveChoice(in.args[0], b.def.FilterKeys())
		if err != nil {
			return false, fmt.Errorf("%w: %v", listing.ErrUnknownFilter, err)
		}
		value, err := resolveFilter(b.def, key, strings.Join(in.args[1:], " "))
		if err != nil {
			return false, err
		}
		return false, store.SetFilter(key, value)
	case "unfilter":
		if len(in.args) != 1 {
			return false, errors.New("usage: unfilter <key>")
		}
		key, err := resolveChoice(in.args[0], b.def.FilterKeys())
		if err != nil {
			return false, fmt.Errorf("%w: %v", listing.ErrUnknownFilter, err)
		}
		return false, store.ClearFilter(key)
	case "sort":
		if len(in.args) != 1 {
			return false, errors.New("usage: sort <column>")
		}
		field, err := resolveSortField(b.def, in.args[0])
		if err != nil {
			return false, err
		}
		return false, store.SetSort(field)
	case "unsort":
		store.ClearSort()
	case "page", "p":
		if len(in.args) != 1 {
			return false, errors.New("usage: page <n>")
		}
		n, err := strconv.Atoi(in.args[0])
		if err != nil || n < 1 {
			return false, fmt.Errorf("invalid page %q", in.args[0])
		}
		store.SetPage(n)
	case "next", "n":
		view := b.listing.View()
		page := store.State().Page
		if view.Fetched && page >= view.TotalPages {
			return false, errors.New("already on the last page")
		}
		store.SetPage(page + 1)
	case "prev":
		page := store.State().Page
		if page <= 1 {
			return false, errors.New("already on the first page")
		}
		store.SetPage(page - 1)
	case "refresh", "r":
		if !b.listing.Refetch() {
			return false, errors.New("nothing to refresh yet")
		}
	case "delete", "d":
		if len(in.args) != 1 {
			return false, errors.New("usage: delete <id>")
		}
		msg, err := b.listing.Delete(ctx, in.args[0])
		if err != nil {
			return false, errors.New(msg)
		}
		fmt.Fprintln(b.out, msg)
	case "query":
		fmt.Fprintln(b.out, "?"+listing.EncodeQuery(store.State()).Encode())
	default:
		return false, fmt.Errorf("unknown command %q (try help)", in.verb)
	}
	return false, nil
}

func newEmployeesBrowseCmd(newRT runtimeFactory) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse employees interactively",
		Long:  "Reads commands from stdin and redraws the table whenever a page arrives.\n\n" + browseHelp,
		RunE: run(newRT, func(ctx context.Context, rt *runtime, _ []string) error {
			ctx, err := rt.authorized(ctx)
			if err != nil {
				return err
			}
			def := rt.employeesListing()
			q, err := flags.state(def)
			if err != nil {
				return err
			}
			l, err := rt.newEmployeeListing(ctx, q)
			if err != nil {
				return err
			}
			b := &browser{listing: l, def: def, role: rt.role(), out: &syncWriter{w: rt.out}}
			unsubscribe := rt.app.EventPublisher().Subscribe(b.onFetchState)
			defer func() {
				l.Wait()
				unsubscribe()
				l.Dispose()
			}()

			l.Start()
			scanner := bufio.NewScanner(rt.in)
			for scanner.Scan() {
				in, ok := parseIntent(scanner.Text())
				if !ok {
					continue
				}
				quit, err := b.apply(ctx, in)
				if err != nil {
					fmt.Fprintf(b.out, "error: %v\n", err)
				}
				if quit {
					return nil
				}
			}
			return scanner.Err()
		}),
	}
	flags.register(cmd)
	return cmd
}
