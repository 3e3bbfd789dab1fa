// Package main provides an interactive client for the quaver daemon.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/chzyer/readline"
)

var (
	app     = kingpin.New("quaverctl", "quaver player control client")
	addr    = app.Flag("addr", "Daemon control address").Default("127.0.0.1:7711").String()
	oneShot = app.Arg("command", "Command to send non-interactively").Strings()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	reader := bufio.NewReader(conn)
	if _, err := reader.ReadString('\n'); err != nil {
		fmt.Fprintf(os.Stderr, "no greeting from daemon: %v\n", err)
		os.Exit(1)
	}

	if len(*oneShot) > 0 {
		ok, err := roundTrip(conn, reader, strings.Join(*oneShot, " "), os.Stdout)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
		return
	}

	runREPL(conn, reader)
}

func runREPL(conn net.Conn, reader *bufio.Reader) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "quaver> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("play"),
			readline.PcItem("pause"),
			readline.PcItem("resume"),
			readline.PcItem("stop"),
			readline.PcItem("skip"),
			readline.PcItem("previous"),
			readline.PcItem("seek"),
			readline.PcItem("volume"),
			readline.PcItem("status"),
			readline.PcItem("current"),
			readline.PcItem("queue"),
			readline.PcItem("load"),
			readline.PcItem("filter",
				readline.PcItem("artist"),
				readline.PcItem("album"),
				readline.PcItem("albumartist"),
				readline.PcItem("genre"),
				readline.PcItem("year"),
			),
			readline.PcItem("filters"),
			readline.PcItem("clearfilters"),
			readline.PcItem("search"),
			readline.PcItem("list"),
			readline.PcItem("shuffle", readline.PcItem("on"), readline.PcItem("off")),
			readline.PcItem("repeat", readline.PcItem("off"), readline.PcItem("track"), readline.PcItem("queue")),
			readline.PcItem("playlists"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err == io.EOF {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		if _, err := roundTrip(conn, reader, line, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "connection lost: %v\n", err)
			return
		}
	}
}

// roundTrip sends one command and prints the response. Returns false
// when the daemon answered with an error.
func roundTrip(conn net.Conn, reader *bufio.Reader, command string, out io.Writer) (bool, error) {
	if _, err := fmt.Fprintf(conn, "%s\n", command); err != nil {
		return false, err
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		line = strings.TrimRight(line, "\n")

		switch {
		case line == "OK":
			return true, nil
		case strings.HasPrefix(line, "ERR "):
			fmt.Fprintln(out, strings.TrimPrefix(line, "ERR "))
			return false, nil
		default:
			fmt.Fprintln(out, line)
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.quaverctl_history"
}
