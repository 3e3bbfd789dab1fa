package control

import (
	"fmt"
	"strings"
)

// handleCommand processes a single command line and returns the full
// response text, always terminated by "OK" or "ERR".
func (s *Server) handleCommand(line string) string {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "ping":
		return respOK()

	case "play":
		return s.cmdPlay()

	case "pause":
		return s.cmdPause()

	case "resume":
		return s.cmdResume()

	case "stop":
		return s.cmdStop()

	case "skip", "next":
		return s.cmdSkip()

	case "previous", "prev":
		return s.cmdPrevious()

	case "seek":
		return s.cmdSeek(args)

	case "volume":
		return s.cmdVolume(args)

	case "status":
		return s.cmdStatus()

	case "current":
		return s.cmdCurrent()

	case "queue":
		return s.cmdQueue(args)

	case "load":
		return s.cmdLoad(args)

	case "filter":
		return s.cmdFilter(args)

	case "filters":
		return s.cmdFilters()

	case "clearfilters":
		return s.cmdClearFilters()

	case "search":
		return s.cmdSearch(args)

	case "list":
		return s.cmdList(args)

	case "shuffle":
		return s.cmdShuffle(args)

	case "repeat":
		return s.cmdRepeat(args)

	case "playlists":
		return s.cmdPlaylists()

	default:
		return respErrf("unknown command: %s", command)
	}
}

func respOK(lines ...string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString("OK\n")
	return b.String()
}

func respErr(err error) string {
	return "ERR " + err.Error() + "\n"
}

func respErrf(format string, args ...any) string {
	return "ERR " + fmt.Sprintf(format, args...) + "\n"
}
