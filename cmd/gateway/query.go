package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/ipc"
)

// queryFlags parses a no-argument query subcommand with an optional --json flag.
func queryFlags(name, summary string, args []string) (jsonOut bool, rc int, ok bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gateway %s [--json]\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return false, 0, false
		}
		return false, 2, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return false, 2, false
	}
	return *asJSON, 0, true
}

func printJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	asJSON, rc, ok := queryFlags("status", "Show window manager status via IPC.", args)
	if !ok {
		return rc
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		return printJSON(os.Stdout, status)
	}
	writeStatus(os.Stdout, status)
	return 0
}

func writeStatus(w io.Writer, s *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running: %v\n", s.DaemonRunning)
	fmt.Fprintf(w, "views:          %d (%d managed)\n", s.Views, s.Managed)
	fmt.Fprintf(w, "outputs:        %d\n", s.Outputs)
	fmt.Fprintf(w, "focused_view:   %d\n", s.FocusedView)
	fmt.Fprintf(w, "main_output:    %d\n", s.MainOutput)
	fmt.Fprintf(w, "passthrough:    %v\n", s.Passthrough)
	fmt.Fprintf(w, "brightness:     %.2f\n", s.Brightness)
	fmt.Fprintf(w, "grab:           %s\n", s.Grab)
	fmt.Fprintf(w, "cursor:         %.0f,%.0f\n", s.CursorX, s.CursorY)
	fmt.Fprintf(w, "uptime_seconds: %d\n", s.UptimeSeconds)
}

func runViews(args []string) int {
	asJSON, rc, ok := queryFlags("views", "List views on the focused panel.", args)
	if !ok {
		return rc
	}

	data, err := ipc.NewClient().ListViews()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		return printJSON(os.Stdout, data)
	}
	writeViews(os.Stdout, data.Views)
	return 0
}

func writeViews(w io.Writer, views []ipc.ViewInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLIST\tSTACK\tGEOMETRY\tFLAGS\tAPP\tTITLE")
	for _, v := range views {
		flags := ""
		if v.Focused {
			flags += "*"
		}
		if v.Fullscreen {
			flags += "F"
		}
		if v.Override {
			flags += "O"
		}
		if flags == "" {
			flags = "-"
		}
		stack := "-"
		if v.Stack >= 0 {
			stack = strconv.Itoa(v.Stack)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%dx%d+%d+%d\t%s\t%s\t%s\n",
			v.ID, v.Location, stack, v.Width, v.Height, v.X, v.Y, flags, v.AppID, v.Title)
	}
	tw.Flush()
}

func runOutputs(args []string) int {
	asJSON, rc, ok := queryFlags("outputs", "List connected outputs.", args)
	if !ok {
		return rc
	}

	data, err := ipc.NewClient().ListOutputs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		return printJSON(os.Stdout, data)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tGEOMETRY\tREFRESH\tSTACKS\tMAIN")
	for _, o := range data.Outputs {
		fmt.Fprintf(tw, "%d\t%s\t%dx%d+%d+%d\t%.3fHz\t%v\t%v\n",
			o.ID, o.Name, o.Width, o.Height, o.X, o.Y, float64(o.RefreshMHz)/1000, o.Stacks, o.Main)
	}
	tw.Flush()
	return 0
}

func runStacks(args []string) int {
	asJSON, rc, ok := queryFlags("stacks", "List tiling stacks and their occupancy.", args)
	if !ok {
		return rc
	}

	data, err := ipc.NewClient().GetStacks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		return printJSON(os.Stdout, data)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tITEMS\tMAPPED\tX\tWIDTH\tHEIGHT")
	for _, s := range data.Stacks {
		fmt.Fprintf(tw, "%d\t%d/%d\t%v\t%d\t%d\t%d\n", s.Index, s.ItemCount, s.MaxItems, s.Mapped, s.X, s.Width, s.Height)
	}
	tw.Flush()
	return 0
}

func runCmd(args []string) int {
	if len(args) != 1 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		w := os.Stderr
		rc := 2
		if len(args) == 1 {
			w, rc = os.Stdout, 0
		}
		fmt.Fprintln(w, "Usage: gateway cmd <name>")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Commands:")
		for _, c := range hotkeys.Commands() {
			fmt.Fprintf(w, "  %s\n", c)
		}
		return rc
	}

	if _, err := hotkeys.ParseCommand(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().RunCommand(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !data.Handled {
		fmt.Fprintf(os.Stderr, "%s: not applicable\n", data.Command)
		return 1
	}
	return 0
}

func runFocus(args []string) int {
	if len(args) != 1 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: gateway focus <view-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Focus a view by id (see 'gateway views').")
		if len(args) == 1 {
			return 0
		}
		return 2
	}

	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		fmt.Fprintf(os.Stderr, "invalid view id %q\n", args[0])
		return 2
	}
	if err := ipc.NewClient().FocusView(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReload(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: gateway reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Reload the configuration of the running window manager.")
		if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			return 0
		}
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	return 0
}
