package control

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"quaver/internal/app/queue"
)

func (s *Server) cmdPlay() string {
	if err := s.player.Start(); err != nil {
		return respErr(err)
	}
	return respOK()
}

func (s *Server) cmdPause() string {
	if err := s.player.Pause(); err != nil {
		return respErr(err)
	}
	return respOK()
}

func (s *Server) cmdResume() string {
	if err := s.player.Resume(); err != nil {
		return respErr(err)
	}
	return respOK()
}

func (s *Server) cmdStop() string {
	s.player.Stop()
	return respOK()
}

func (s *Server) cmdSkip() string {
	if err := s.player.Skip(); err != nil {
		return respErr(err)
	}
	return respOK()
}

func (s *Server) cmdPrevious() string {
	if err := s.player.Previous(); err != nil {
		return respErr(err)
	}
	return respOK()
}

func (s *Server) cmdSeek(args []string) string {
	if len(args) != 1 {
		return respErrf("usage: seek <seconds>")
	}
	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil || secs < 0 {
		return respErrf("invalid position: %s", args[0])
	}
	if err := s.player.Seek(time.Duration(secs * float64(time.Second))); err != nil {
		return respErr(err)
	}
	return respOK()
}

func (s *Server) cmdVolume(args []string) string {
	if len(args) == 0 {
		return respOK(fmt.Sprintf("volume: %.2f", s.player.Status().Volume))
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return respErrf("invalid volume: %s", args[0])
	}
	if err := s.player.SetVolume(v); err != nil {
		return respErr(err)
	}
	return respOK()
}

func (s *Server) cmdStatus() string {
	st := s.player.Status()

	lines := []string{
		"state: " + st.State.String(),
	}
	if st.Track != nil {
		lines = append(lines,
			"track: "+st.Track.String(),
			fmt.Sprintf("position: %d/%d", st.Index+1, st.QueueLen),
			fmt.Sprintf("elapsed: %.1f/%.1f", st.Elapsed.Seconds(), st.Duration.Seconds()),
		)
	} else {
		lines = append(lines, fmt.Sprintf("position: %d/%d", st.Index, st.QueueLen))
	}
	lines = append(lines,
		fmt.Sprintf("volume: %.2f", st.Volume),
		"shuffle: "+onOff(st.Shuffle),
		"repeat: "+st.Repeat.String(),
		"filters: "+s.player.Filters().String(),
	)
	return respOK(lines...)
}

func (s *Server) cmdCurrent() string {
	st := s.player.Status()
	if st.Track == nil {
		return respErrf("no track playing")
	}
	return respOK(st.Track.String())
}

func (s *Server) cmdQueue(args []string) string {
	n := 10
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return respErrf("invalid window size: %s", args[0])
		}
		n = parsed
	}

	window, start := s.player.QueueWindow(n)
	if len(window) == 0 {
		return respOK("queue is empty")
	}

	current := s.player.Status().Index
	lines := make([]string, 0, len(window))
	for i, t := range window {
		marker := " "
		if start+i == current {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %3d: %s", marker, start+i+1, t.String()))
	}
	return respOK(lines...)
}

func (s *Server) cmdLoad(args []string) string {
	tracks, err := s.catalog.Tracks(s.player.Filters())
	if err != nil {
		return respErr(err)
	}

	if len(args) > 0 {
		name := args[0]
		chain, ok := s.playlists[name]
		if !ok {
			return respErrf("unknown playlist: %s", name)
		}
		tracks = chain.Select(tracks)
	}

	if len(tracks) == 0 {
		return respErrf("no tracks matched")
	}

	s.player.Load(tracks)
	return respOK(fmt.Sprintf("loaded %d tracks", len(tracks)))
}

func (s *Server) cmdFilter(args []string) string {
	if len(args) < 2 {
		return respErrf("usage: filter <field> <value>")
	}
	field := args[0]
	value := strings.Join(args[1:], " ")
	if err := s.player.SetFilter(field, value); err != nil {
		return respErr(err)
	}
	return respOK()
}

func (s *Server) cmdFilters() string {
	return respOK("filters: " + s.player.Filters().String())
}

func (s *Server) cmdClearFilters() string {
	s.player.ClearFilters()
	return respOK()
}

func (s *Server) cmdSearch(args []string) string {
	if len(args) == 0 {
		return respErrf("usage: search <term>")
	}
	found, err := s.catalog.Search(strings.Join(args, " "))
	if err != nil {
		return respErr(err)
	}
	if len(found) == 0 {
		return respOK("no matches")
	}

	lines := make([]string, 0, len(found))
	for _, t := range found {
		lines = append(lines, fmt.Sprintf("%d: %s", t.ID, t.String()))
	}
	return respOK(lines...)
}

func (s *Server) cmdList(args []string) string {
	if len(args) != 1 {
		return respErrf("usage: list <field>")
	}
	values, err := s.catalog.Distinct(args[0])
	if err != nil {
		return respErr(err)
	}
	return respOK(values...)
}

func (s *Server) cmdShuffle(args []string) string {
	if len(args) != 1 {
		return respErrf("usage: shuffle on|off")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		s.player.SetShuffle(true)
	case "off":
		s.player.SetShuffle(false)
	default:
		return respErrf("invalid shuffle value: %s", args[0])
	}
	return respOK()
}

func (s *Server) cmdRepeat(args []string) string {
	if len(args) != 1 {
		return respErrf("usage: repeat off|track|queue")
	}
	mode, err := queue.ParseRepeatMode(args[0])
	if err != nil {
		return respErr(err)
	}
	s.player.SetRepeatMode(mode)
	return respOK()
}

func (s *Server) cmdPlaylists() string {
	if len(s.playlists) == 0 {
		return respOK("no playlists configured")
	}
	names := make([]string, 0, len(s.playlists))
	for name := range s.playlists {
		names = append(names, name)
	}
	sort.Strings(names)
	return respOK(names...)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
