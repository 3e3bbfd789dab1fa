package control

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quaver/internal/app/playback"
	"quaver/internal/app/queue"
	"quaver/internal/app/rules"
	"quaver/internal/domain/track"
	"quaver/internal/infra/engine"
)

type fakeCatalog struct {
	tracks []track.Track
}

func (f *fakeCatalog) Tracks(filters track.Filters) ([]track.Track, error) {
	if filters.IsZero() {
		return f.tracks, nil
	}
	var matched []track.Track
	for _, t := range f.tracks {
		if filters.Artist != "" && !strings.EqualFold(filters.Artist, t.Artist) {
			continue
		}
		if filters.Genre != "" && !strings.EqualFold(filters.Genre, t.Genre) {
			continue
		}
		matched = append(matched, t)
	}
	return matched, nil
}

func (f *fakeCatalog) Search(term string) ([]track.Track, error) {
	var matched []track.Track
	for _, t := range f.tracks {
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(term)) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (f *fakeCatalog) Distinct(field string) ([]string, error) {
	if field != track.FieldArtist {
		return nil, track.ErrUnknownFilterField
	}
	seen := make(map[string]bool)
	var artists []string
	for _, t := range f.tracks {
		if !seen[t.Artist] {
			seen[t.Artist] = true
			artists = append(artists, t.Artist)
		}
	}
	return artists, nil
}

type testClient struct {
	conn   net.Conn
	reader *bufio.Reader
}

func startTestServer(t *testing.T, tracks []track.Track) (*testClient, *engine.Mock) {
	t.Helper()

	mock := engine.NewMock()
	q := queue.New()
	player := playback.NewController(playback.Config{PollInterval: 5 * time.Millisecond}, q, mock, nil)
	t.Cleanup(player.Close)

	chain, err := rules.Build([]rules.Spec{{Name: "never_played"}})
	require.NoError(t, err)

	srv := NewServer("127.0.0.1:0", player, &fakeCatalog{tracks: tracks}, map[string]*rules.Chain{"fresh": chain})
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	c := &testClient{conn: conn, reader: bufio.NewReader(conn)}
	greeting, err := c.reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(greeting, "OK quaver"))
	return c, mock
}

// send writes a command and reads lines up to the OK/ERR terminator.
func (c *testClient) send(t *testing.T, command string) []string {
	t.Helper()
	_, err := c.conn.Write([]byte(command + "\n"))
	require.NoError(t, err)

	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var lines []string
	for {
		line, err := c.reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		lines = append(lines, line)
		if line == "OK" || strings.HasPrefix(line, "ERR ") {
			return lines
		}
	}
}

func testTracks() []track.Track {
	return []track.Track{
		{ID: 1, Title: "Alpha", Artist: "Ant", Album: "Hill", Genre: "Jazz", URL: "file:///1.mp3", Duration: 3 * time.Minute},
		{ID: 2, Title: "Beta", Artist: "Ant", Album: "Hill", Genre: "Jazz", URL: "file:///2.mp3", Duration: 3 * time.Minute, PlayCount: 5},
		{ID: 3, Title: "Gamma", Artist: "Zebra", Album: "Savanna", Genre: "Rock", URL: "file:///3.mp3", Duration: 3 * time.Minute},
	}
}

func TestServerPing(t *testing.T) {
	c, _ := startTestServer(t, nil)
	assert.Equal(t, []string{"OK"}, c.send(t, "ping"))
}

func TestServerUnknownCommand(t *testing.T) {
	c, _ := startTestServer(t, nil)
	resp := c.send(t, "frobnicate")
	require.Len(t, resp, 1)
	assert.Contains(t, resp[0], "ERR unknown command")
}

func TestServerLoadAndPlay(t *testing.T) {
	c, _ := startTestServer(t, testTracks())

	resp := c.send(t, "load")
	assert.Equal(t, []string{"loaded 3 tracks", "OK"}, resp)

	assert.Equal(t, []string{"OK"}, c.send(t, "play"))

	resp = c.send(t, "status")
	assert.Contains(t, strings.Join(resp, "\n"), "state: ")
}

func TestServerPlayEmptyQueue(t *testing.T) {
	c, _ := startTestServer(t, nil)
	resp := c.send(t, "play")
	require.Len(t, resp, 1)
	assert.Contains(t, resp[0], "ERR queue is empty")
}

func TestServerFilterFlow(t *testing.T) {
	c, _ := startTestServer(t, testTracks())

	assert.Equal(t, []string{"OK"}, c.send(t, "filter genre Jazz"))

	resp := c.send(t, "filters")
	assert.Equal(t, []string{"filters: genre=Jazz", "OK"}, resp)

	resp = c.send(t, "load")
	assert.Equal(t, []string{"loaded 2 tracks", "OK"}, resp)

	assert.Equal(t, []string{"OK"}, c.send(t, "clearfilters"))
	resp = c.send(t, "filters")
	assert.Equal(t, []string{"filters: (none)", "OK"}, resp)

	resp = c.send(t, "filter bogus x")
	assert.Contains(t, resp[0], "ERR")
}

func TestServerSmartPlaylist(t *testing.T) {
	c, _ := startTestServer(t, testTracks())

	resp := c.send(t, "playlists")
	assert.Equal(t, []string{"fresh", "OK"}, resp)

	// never_played excludes track 2
	resp = c.send(t, "load fresh")
	assert.Equal(t, []string{"loaded 2 tracks", "OK"}, resp)

	resp = c.send(t, "load nope")
	assert.Contains(t, resp[0], "ERR unknown playlist")
}

func TestServerSearchAndList(t *testing.T) {
	c, _ := startTestServer(t, testTracks())

	resp := c.send(t, "search alp")
	require.Len(t, resp, 2)
	assert.Contains(t, resp[0], "Alpha")

	resp = c.send(t, "search zzz")
	assert.Equal(t, []string{"no matches", "OK"}, resp)

	resp = c.send(t, "list artist")
	assert.Equal(t, []string{"Ant", "Zebra", "OK"}, resp)

	resp = c.send(t, "list bogus")
	assert.Contains(t, resp[0], "ERR")
}

func TestServerVolume(t *testing.T) {
	c, _ := startTestServer(t, testTracks())

	assert.Equal(t, []string{"OK"}, c.send(t, "volume 0.5"))
	assert.Equal(t, []string{"volume: 0.50", "OK"}, c.send(t, "volume"))

	resp := c.send(t, "volume 1.5")
	require.Len(t, resp, 1)
	assert.Contains(t, resp[0], "ERR volume must be between")
}

func TestServerShuffleRepeat(t *testing.T) {
	c, _ := startTestServer(t, testTracks())

	assert.Equal(t, []string{"OK"}, c.send(t, "shuffle on"))
	assert.Equal(t, []string{"OK"}, c.send(t, "repeat queue"))

	resp := c.send(t, "status")
	joined := strings.Join(resp, "\n")
	assert.Contains(t, joined, "shuffle: on")
	assert.Contains(t, joined, "repeat: queue")

	assert.Contains(t, c.send(t, "shuffle maybe")[0], "ERR")
	assert.Contains(t, c.send(t, "repeat forever")[0], "ERR")
}

func TestServerQueueWindow(t *testing.T) {
	c, _ := startTestServer(t, testTracks())

	resp := c.send(t, "queue")
	assert.Equal(t, []string{"queue is empty", "OK"}, resp)

	c.send(t, "load")
	resp = c.send(t, "queue 2")
	require.Len(t, resp, 3)
	assert.True(t, strings.HasPrefix(resp[0], "*"), "current track is marked")
}

func TestServerTransportErrors(t *testing.T) {
	c, _ := startTestServer(t, testTracks())

	assert.Contains(t, c.send(t, "skip")[0], "ERR no track")
	assert.Contains(t, c.send(t, "pause")[0], "ERR not playing")
	assert.Contains(t, c.send(t, "seek abc")[0], "ERR invalid position")
}
