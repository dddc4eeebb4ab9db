package room

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/frequency/internal/domain"
	"github.com/sharetube/frequency/internal/repository/room"
	roomRedis "github.com/sharetube/frequency/internal/repository/room/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	connectionId string
	msg          Message
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sent
}

func (f *fakeSender) Send(connectionId string, msg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, sent{connectionId: connectionId, msg: msg.(Message)})
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

func (f *fakeSender) to(connectionId string) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	var msgs []Message
	for _, s := range f.sent {
		if s.connectionId == connectionId {
			msgs = append(msgs, s.msg)
		}
	}

	return msgs
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type testEnv struct {
	service  *service
	registry *Registry
	roomRepo iRoomRepo
	sender   *fakeSender
	clock    *fakeClock
}

func newTestEnv(t *testing.T, roomRepo iRoomRepo) *testEnv {
	t.Helper()
	if roomRepo == nil {
		s := miniredis.RunT(t)
		rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
		t.Cleanup(func() { rc.Close() })
		roomRepo = roomRedis.NewRepo(rc, 0)
	}

	env := testEnv{
		roomRepo: roomRepo,
		sender:   &fakeSender{},
		clock:    &fakeClock{now: time.UnixMilli(1_700_000_000_000)},
	}
	env.registry = NewRegistry(roomRepo, &RegistryConfig{FlushRetries: 3, FlushBackoff: time.Millisecond})
	env.service = NewService(env.registry, roomRepo, env.sender, &Config{Clock: env.clock.Now})
	t.Cleanup(func() { env.registry.Close(context.Background()) })

	return &env
}

func (env *testEnv) join(t *testing.T, connectionId, roomId, username string) JoinRoomResponse {
	t.Helper()
	resp, err := env.service.JoinRoom(context.Background(), &JoinRoomParams{
		ConnectionId: connectionId,
		RoomId:       roomId,
		Username:     username,
		Avatar:       "🎧",
	})
	require.NoError(t, err)

	return resp
}

// snapshot reads a room's state on its actor.
func (env *testEnv) snapshot(t *testing.T, roomId string) (domain.Player, []domain.Video, []domain.ChatMessage, []domain.Member) {
	t.Helper()
	h, err := env.registry.GetOrCreate(context.Background(), roomId)
	require.NoError(t, err)

	var (
		player  domain.Player
		videos  []domain.Video
		history []domain.ChatMessage
		members []domain.Member
	)
	require.NoError(t, h.do(context.Background(), func() error {
		player = h.room.Player
		videos = h.room.Playlist.AsList()
		history = h.room.Chat.Last(domain.ChatHistoryLimit)
		members = h.room.Members.AsList()
		return nil
	}))

	return player, videos, history, members
}

const videoId = "dQw4w9WgXcQ"

func TestJoinRoomSendsInitialState(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.join(t, "c1", "global", "Global")
	assert.True(t, resp.JoinedMember.IsHost)
	assert.True(t, resp.InitialState.IsHost)
	assert.Len(t, resp.InitialState.Users, 1)
	assert.Nil(t, resp.InitialState.PlaybackState.VideoId)
	assert.False(t, resp.InitialState.PlaybackState.IsPlaying)
	assert.Empty(t, resp.InitialState.ChatHistory)

	msgs := env.sender.to("c1")
	require.Len(t, msgs, 3)
	assert.Equal(t, TypeInitialState, msgs[0].Type)
	assert.Equal(t, TypeUserListUpdate, msgs[1].Type)
	assert.Equal(t, TypeChatMessage, msgs[2].Type)
	entry := msgs[2].Payload.(map[string]any)["entry"].(domain.ChatMessage)
	assert.Equal(t, "Global joined", entry.Message)
	assert.Equal(t, domain.ChatMessageTypeSystem, entry.Type)

	bob := env.join(t, "c2", "global", "bob")
	assert.False(t, bob.JoinedMember.IsHost)
	assert.Len(t, bob.InitialState.Users, 2)
	assert.Len(t, bob.InitialState.ChatHistory, 1)
}

func TestJoinRoomTwice(t *testing.T) {
	env := newTestEnv(t, nil)
	env.join(t, "c1", "global", "bob")

	_, err := env.service.JoinRoom(context.Background(), &JoinRoomParams{ConnectionId: "c1", RoomId: "other", Username: "bob"})
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestJoinRoomValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.service.JoinRoom(context.Background(), &JoinRoomParams{ConnectionId: "c1", RoomId: "global"})
	assert.ErrorIs(t, err, ErrValidation)

	// a rejected join does not hold the connection
	env.join(t, "c1", "global", "bob")
}

func TestSameUsernameTwoMembers(t *testing.T) {
	env := newTestEnv(t, nil)
	env.join(t, "c1", "global", "global")
	env.join(t, "c2", "global", "GLOBAL")

	_, _, _, members := env.snapshot(t, "global")
	require.Len(t, members, 2)
	assert.True(t, members[0].IsHost)
	assert.True(t, members[1].IsHost)
}

func TestInitialStateProjectsPosition(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "global")

	_, err := env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: videoId, Title: "t"})
	require.NoError(t, err)
	_, err = env.service.Seek(ctx, &SeekParams{ConnectionId: "c1", Time: 10})
	require.NoError(t, err)

	env.clock.Advance(5 * time.Second)
	resp := env.join(t, "c2", "global", "bob")

	state := resp.InitialState.PlaybackState
	assert.True(t, state.IsPlaying)
	assert.Equal(t, 15.0, state.CurrentTime)
	require.NotNil(t, state.StartedAt)
	assert.Equal(t, env.clock.Now().UnixMilli()-15_000, *state.StartedAt)
}

func TestPlaySongAlwaysRestarts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "global")

	_, err := env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: videoId, Title: "t", Thumbnail: "https://i.ytimg.com/vi/x/default.jpg"})
	require.NoError(t, err)
	_, err = env.service.TogglePlayback(ctx, &TogglePlaybackParams{ConnectionId: "c1", IsPlaying: false, CurrentTime: 42})
	require.NoError(t, err)

	env.clock.Advance(time.Second)
	resp, err := env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: videoId, Title: "t"})
	require.NoError(t, err)

	state := resp.PlaybackState
	require.NotNil(t, state.VideoId)
	assert.Equal(t, videoId, *state.VideoId)
	assert.Equal(t, "t", *state.Title)
	assert.True(t, state.IsPlaying)
	assert.Zero(t, state.CurrentTime)
	assert.Equal(t, env.clock.Now().UnixMilli(), *state.StartedAt)
	assert.Len(t, resp.Playlist, 2)
	assert.Equal(t, "global", resp.Playlist[1].PlayedBy)

	msgs := env.sender.to("c1")
	assert.Equal(t, TypePlaySong, msgs[len(msgs)-2].Type)
	assert.Equal(t, TypePlaylistUpdate, msgs[len(msgs)-1].Type)
}

func TestPlaySongAcceptsOpaqueIds(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "global")

	resp, err := env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: "a", Title: "t", Thumbnail: "th"})
	require.NoError(t, err)

	state := resp.PlaybackState
	require.NotNil(t, state.VideoId)
	assert.Equal(t, "a", *state.VideoId)
	assert.Equal(t, "t", *state.Title)
	assert.Equal(t, "th", *state.Thumbnail)
	assert.True(t, state.IsPlaying)
	assert.Zero(t, state.CurrentTime)

	_, err = env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: "b"})
	require.NoError(t, err)

	toggled, err := env.service.ToggleSongPin(ctx, &ToggleSongPinParams{ConnectionId: "c1", VideoId: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, toggled.Toggled)
	require.Len(t, toggled.Playlist, 2)
	assert.True(t, toggled.Playlist[0].IsPinned)
	assert.False(t, toggled.Playlist[1].IsPinned)

	_, err = env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTogglePlaybackAndSeek(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "global")

	_, err := env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: videoId})
	require.NoError(t, err)

	env.clock.Advance(3 * time.Second)
	paused, err := env.service.TogglePlayback(ctx, &TogglePlaybackParams{ConnectionId: "c1", IsPlaying: false, CurrentTime: 3})
	require.NoError(t, err)
	assert.False(t, paused.PlaybackState.IsPlaying)
	assert.Nil(t, paused.PlaybackState.StartedAt)
	assert.Equal(t, 3.0, paused.PlaybackState.CurrentTime)

	// seeking while paused does not start playback
	env.clock.Advance(time.Minute)
	_, err = env.service.Seek(ctx, &SeekParams{ConnectionId: "c1", Time: 30})
	require.NoError(t, err)
	player, _, _, _ := env.snapshot(t, "global")
	assert.False(t, player.IsPlaying())
	assert.Equal(t, 30.0, player.Project(env.clock.Now().Add(time.Hour)))

	resumed, err := env.service.TogglePlayback(ctx, &TogglePlaybackParams{ConnectionId: "c1", IsPlaying: true, CurrentTime: 30})
	require.NoError(t, err)
	assert.Equal(t, env.clock.Now().UnixMilli()-30_000, *resumed.PlaybackState.StartedAt)

	msgs := env.sender.to("c1")
	last := msgs[len(msgs)-1]
	assert.Equal(t, TypePlaybackStateChange, last.Type)
	seek := msgs[len(msgs)-2]
	assert.Equal(t, TypeSeek, seek.Type)
	assert.Equal(t, 30.0, seek.Payload.(map[string]any)["time"])
}

func TestNonHostIntentsAreDropped(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "host", "global", "global")
	env.join(t, "bob", "global", "bob")

	_, err := env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "host", VideoId: videoId, Title: "t"})
	require.NoError(t, err)

	player, videos, history, _ := env.snapshot(t, "global")
	before := env.sender.count()

	_, err = env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "bob", VideoId: "aaaaaaaaaaa"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = env.service.TogglePlayback(ctx, &TogglePlaybackParams{ConnectionId: "bob", CurrentTime: 1})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = env.service.Seek(ctx, &SeekParams{ConnectionId: "bob", Time: 100})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = env.service.ToggleSongPin(ctx, &ToggleSongPinParams{ConnectionId: "bob", VideoId: videoId})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = env.service.PinMessage(ctx, &PinMessageParams{ConnectionId: "bob", Text: "mine"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	assert.Equal(t, before, env.sender.count())
	playerAfter, videosAfter, historyAfter, _ := env.snapshot(t, "global")
	assert.Equal(t, player, playerAfter)
	assert.Equal(t, videos, videosAfter)
	assert.Equal(t, history, historyAfter)
	assert.Equal(t, videoId, playerAfter.Track.VideoId)
}

func TestToggleSongPin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "global")

	for _, id := range []string{videoId, "bbbbbbbbbbb", videoId} {
		_, err := env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: id})
		require.NoError(t, err)
	}

	resp, err := env.service.ToggleSongPin(ctx, &ToggleSongPinParams{ConnectionId: "c1", VideoId: videoId})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Toggled)
	assert.True(t, resp.Playlist[0].IsPinned)
	assert.False(t, resp.Playlist[1].IsPinned)
	assert.True(t, resp.Playlist[2].IsPinned)

	resp, err = env.service.ToggleSongPin(ctx, &ToggleSongPinParams{ConnectionId: "c1", VideoId: "missing"})
	require.NoError(t, err)
	assert.Zero(t, resp.Toggled)

	msgs := env.sender.to("c1")
	assert.Equal(t, TypePlaylistUpdate, msgs[len(msgs)-1].Type)
}

func TestChatIsBoundedAndPersisted(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "bob")

	for i := 0; i < 150; i++ {
		resp, err := env.service.SendChatMessage(ctx, &SendChatMessageParams{ConnectionId: "c1", Text: fmt.Sprintf("msg %d", i)})
		require.NoError(t, err)
		assert.Equal(t, "bob", resp.Entry.Username)
	}

	_, _, history, _ := env.snapshot(t, "global")
	require.Len(t, history, domain.ChatHistoryLimit)
	assert.Equal(t, "msg 149", history[len(history)-1].Message)

	require.NoError(t, env.registry.Close(ctx))
	record, err := env.roomRepo.GetRoom(ctx, "global")
	require.NoError(t, err)
	require.Len(t, record.ChatHistory, domain.PersistedChatHistoryLimit)
	assert.Equal(t, "msg 100", record.ChatHistory[0].Message)
}

func TestReactionIsNotStored(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "bob")
	env.join(t, "c2", "global", "eve")
	_, _, before, _ := env.snapshot(t, "global")

	require.NoError(t, env.service.SendReaction(ctx, &SendReactionParams{ConnectionId: "c1", Symbol: "🔥"}))

	_, _, after, _ := env.snapshot(t, "global")
	assert.Equal(t, before, after)
	msgs := env.sender.to("c2")
	last := msgs[len(msgs)-1]
	assert.Equal(t, TypeReaction, last.Type)
	assert.Equal(t, "🔥", last.Payload.(map[string]any)["symbol"])

	err := env.service.SendReaction(ctx, &SendReactionParams{ConnectionId: "c1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPinMessage(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "global")

	resp, err := env.service.PinMessage(ctx, &PinMessageParams{ConnectionId: "c1", Text: "welcome"})
	require.NoError(t, err)
	require.NotNil(t, resp.PinnedMessage)
	assert.Equal(t, "welcome", resp.PinnedMessage.Message)

	bob := env.join(t, "c2", "global", "bob")
	require.NotNil(t, bob.InitialState.PinnedMessage)
	assert.Equal(t, "welcome", bob.InitialState.PinnedMessage.Message)

	resp, err = env.service.PinMessage(ctx, &PinMessageParams{ConnectionId: "c1"})
	require.NoError(t, err)
	assert.Nil(t, resp.PinnedMessage)

	msgs := env.sender.to("c2")
	assert.Equal(t, TypePinnedMessageUpdate, msgs[len(msgs)-1].Type)
}

func TestIntentsAfterDisconnect(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c1", "global", "global")
	env.join(t, "c2", "global", "bob")

	resp, err := env.service.DisconnectMember(ctx, &DisconnectMemberParams{ConnectionId: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "global", resp.RoomId)
	assert.Equal(t, "global", resp.LeftMember.Username)

	_, err = env.service.Seek(ctx, &SeekParams{ConnectionId: "c1", Time: 1})
	assert.ErrorIs(t, err, ErrMemberNotFound)
	_, err = env.service.DisconnectMember(ctx, &DisconnectMemberParams{ConnectionId: "c1"})
	assert.ErrorIs(t, err, ErrMemberNotFound)

	msgs := env.sender.to("c2")
	users := msgs[len(msgs)-2].Payload.(map[string]any)["users"].([]domain.Member)
	assert.Len(t, users, 1)
	entry := msgs[len(msgs)-1].Payload.(map[string]any)["entry"].(domain.ChatMessage)
	assert.Equal(t, "global left", entry.Message)
}

func TestOnlyRoomNamedMemberCanPlay(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.join(t, "c-bob", "global", "bob")
	env.join(t, "c-global", "global", "global")

	_, err := env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c-bob", VideoId: videoId})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	player, _, _, _ := env.snapshot(t, "global")
	assert.Nil(t, player.Track)

	_, err = env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c-global", VideoId: videoId})
	require.NoError(t, err)
	player, _, _, _ = env.snapshot(t, "global")
	require.NotNil(t, player.Track)
	assert.Equal(t, videoId, player.Track.VideoId)
}

func TestRoomSurvivesRestart(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })
	repo := roomRedis.NewRepo(rc, 0)
	ctx := context.Background()

	first := newTestEnv(t, repo)
	first.join(t, "c1", "global", "global")
	for i := 0; i < 60; i++ {
		_, err := first.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "c1", VideoId: fmt.Sprintf("video%06d", i), Title: "t"})
		require.NoError(t, err)
		_, err = first.service.SendChatMessage(ctx, &SendChatMessageParams{ConnectionId: "c1", Text: fmt.Sprintf("msg %d", i)})
		require.NoError(t, err)
	}
	_, err := first.service.DisconnectMember(ctx, &DisconnectMemberParams{ConnectionId: "c1"})
	require.NoError(t, err)

	player, videos, history, _ := first.snapshot(t, "global")
	require.NoError(t, first.registry.Close(ctx))

	second := newTestEnv(t, repo)
	restoredPlayer, restoredVideos, restoredHistory, members := second.snapshot(t, "global")

	assert.Equal(t, player, restoredPlayer)
	assert.Equal(t, videos[len(videos)-domain.PersistedPlaylistLimit:], restoredVideos)
	assert.Equal(t, history[len(history)-domain.PersistedChatHistoryLimit:], restoredHistory)
	assert.Empty(t, members)
}

func TestGetOrCreateIsSingleInstance(t *testing.T) {
	env := newTestEnv(t, nil)

	var wg sync.WaitGroup
	handles := make([]*roomHandle, 50)
	for i := range handles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := env.registry.GetOrCreate(context.Background(), "global")
			assert.NoError(t, err)
			handles[i] = h
		}()
	}
	wg.Wait()

	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
	assert.Len(t, env.registry.Rooms(), 1)
}

func TestConcurrentJoinsAreSerialized(t *testing.T) {
	env := newTestEnv(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.JoinRoom(context.Background(), &JoinRoomParams{
				ConnectionId: fmt.Sprintf("c%d", i),
				RoomId:       "global",
				Username:     fmt.Sprintf("user%d", i),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, _, history, members := env.snapshot(t, "global")
	assert.Len(t, members, 20)
	assert.Len(t, history, 20)
}

type flakyRepo struct {
	iRoomRepo
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyRepo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()

	if fail {
		return errors.New("connection refused")
	}

	return f.iRoomRepo.SetRoom(ctx, params)
}

func TestFlushRetriesFailedWrites(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })
	repo := &flakyRepo{iRoomRepo: roomRedis.NewRepo(rc, 0), failures: 2}
	ctx := context.Background()

	env := newTestEnv(t, repo)
	env.join(t, "c1", "global", "bob")

	assert.Eventually(t, func() bool {
		_, err := repo.iRoomRepo.GetRoom(ctx, "global")
		return err == nil
	}, time.Second, 5*time.Millisecond)
}

func TestDiscovery(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.join(t, "a1", "alpha", "alpha")
	env.join(t, "b1", "beta", "beta")
	env.join(t, "b2", "beta", "bob")
	env.join(t, "e1", "empty", "eve")
	_, err := env.service.DisconnectMember(ctx, &DisconnectMemberParams{ConnectionId: "e1"})
	require.NoError(t, err)

	_, err = env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "b1", VideoId: videoId, Title: "never"})
	require.NoError(t, err)
	_, err = env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "a1", VideoId: videoId, Title: "never"})
	require.NoError(t, err)
	_, err = env.service.PlaySong(ctx, &PlaySongParams{ConnectionId: "a1", VideoId: "bbbbbbbbbbb", Title: "other"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		songs, err := env.roomRepo.GetTopSongs(ctx, 10)
		return err == nil && len(songs) == 2 && songs[0].Count == 2
	}, time.Second, 5*time.Millisecond)

	env.clock.Advance(7 * time.Second)
	resp, err := env.service.GetDiscovery(ctx)
	require.NoError(t, err)

	require.Len(t, resp.Active, 2)
	assert.Equal(t, "beta", resp.Active[0].Slug)
	assert.Equal(t, 2, resp.Active[0].Listeners)
	assert.Equal(t, "beta", resp.Active[0].Owner)
	require.NotNil(t, resp.Active[0].CurrentSong)
	assert.Equal(t, "never", resp.Active[0].CurrentSong.Title)
	assert.True(t, resp.Active[0].CurrentSong.IsPlaying)
	assert.Equal(t, 7.0, resp.Active[0].CurrentSong.CurrentTime)
	assert.Equal(t, "alpha", resp.Active[1].Slug)
	assert.Equal(t, "other", resp.Active[1].CurrentSong.Title)

	require.Len(t, resp.TopSongs, 2)
	assert.Equal(t, TopSong{Id: videoId, Title: "never", Count: 2}, resp.TopSongs[0])
}
